// Package models defines the document shapes stored in SurrealDB and the
// derived view types served by the API.
package models

// TradeSide is one side of a transfer. Dates are plain YYYY-MM-DD strings,
// matching the source documents; they compare correctly as strings.
type TradeSide struct {
	Date     string `json:"date"`
	Price    int64  `json:"price"`
	FromName string `json:"from_name,omitempty"`
	ToName   string `json:"to_name,omitempty"`
}

// Transfer is one buy (and optional later sell) of a player by a member.
// Transfers are immutable once recorded; a missing sell side means the player
// is still held.
type Transfer struct {
	PlayerID   int64      `json:"player_id"`
	PlayerName string     `json:"player_name"`
	MemberName string     `json:"member_name"`
	Buy        TradeSide  `json:"buy"`
	Sell       *TradeSide `json:"sell,omitempty"`
}

// Sold reports whether the transfer has a sell side.
func (t *Transfer) Sold() bool {
	return t.Sell != nil
}

// TransferRow is the tabular projection of a Transfer with derived profit
// figures, as rendered by the transfer grid. Pointer fields are nil where the
// value is undefined (unsold positions, zero denominators).
type TransferRow struct {
	PlayerID     int64  `json:"player_id"`
	PlayerName   string `json:"player_name"`
	MemberName   string `json:"member_name"`
	BuyDate      string `json:"buy_date"`
	BuyPrice     int64  `json:"buy_price"`
	FromName     string `json:"from_name,omitempty"`
	SellDate     string `json:"sell_date,omitempty"`
	SellPrice    *int64 `json:"sell_price,omitempty"`
	ToName       string `json:"to_name,omitempty"`
	Profit       *int64 `json:"profit,omitempty"`
	ProfitPct    *int64 `json:"profit_pct,omitempty"`
	ProfitPerDay *int64 `json:"profit_per_day,omitempty"`
}

// GroupTotals aggregates transfer rows for one grouping key
// (member, seller or buyer).
type GroupTotals struct {
	Key         string `json:"key"`
	Count       int    `json:"count"`
	BuyTotal    int64  `json:"buy_total"`
	SellTotal   int64  `json:"sell_total"`
	ProfitTotal int64  `json:"profit_total"`
}

// MemberBuyCount is the number of buys a member made in a season.
type MemberBuyCount struct {
	MemberName string `json:"member_name"`
	Buys       int    `json:"buys"`
}

// TeamPlayer is one currently held player in a member's team view, valued at
// the latest known market price.
type TeamPlayer struct {
	PlayerID    int64   `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	BuyDate     string  `json:"buy_date"`
	BuyPrice    int64   `json:"buy_price"`
	MarketValue int64   `json:"market_value"`
	Difference  int64   `json:"difference"`
	DiffPct     float64 `json:"diff_pct"`
	FromName    string  `json:"from_name,omitempty"`
}

// TeamSummary holds member-level totals for the current team view.
type TeamSummary struct {
	MemberName      string       `json:"member_name"`
	Spielzeit       string       `json:"spielzeit"`
	Players         []TeamPlayer `json:"players"`
	TotalInvestment int64        `json:"total_investment"`
	CurrentValue    int64        `json:"current_value"`
	Difference      int64        `json:"difference"`
	DiffPct         float64      `json:"diff_pct"`
}
