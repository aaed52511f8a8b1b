package models

// PricePoint is one quoted market value in a player's price history.
// Field names follow the source documents.
type PricePoint struct {
	Date  string `json:"timestamp"` // YYYY-MM-DD
	Price int64  `json:"quotedPrice"`
}

// PointsEntry is one matchday score in a player's points history.
type PointsEntry struct {
	Matchday string `json:"matchday"` // e.g. "5. Spieltag"
	Date     string `json:"timestamp"`
	Points   int    `json:"points"`
}

// Player is a tradable player with their full price and points history.
// Price history entries are sorted ascending by date; entries may repeat a
// date, in which case the last entry wins when queried as "most recent".
type Player struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	PriceHistory []PricePoint  `json:"price_history"`
	PointHistory []PointsEntry `json:"point_history,omitempty"`
}

// LatestPrice returns the most recent quoted price, or 0 when the player has
// no price history at all.
func (p *Player) LatestPrice() int64 {
	if len(p.PriceHistory) == 0 {
		return 0
	}
	return p.PriceHistory[len(p.PriceHistory)-1].Price
}
