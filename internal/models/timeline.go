package models

import "time"

// EventType distinguishes buy and sell timeline events.
type EventType string

const (
	EventBuy  EventType = "buy"
	EventSell EventType = "sell"
)

// TransferEvent is one buy or sell derived from a transfer. Events are the
// unit the portfolio state machine consumes; they are never stored.
type TransferEvent struct {
	Date       string    `json:"date"`
	Type       EventType `json:"type"`
	PlayerID   int64     `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Price      int64     `json:"price"`
}

// Holding is a player currently owned by a member.
type Holding struct {
	PlayerName string `json:"player_name"`
	BuyPrice   int64  `json:"buy_price"`
	BuyDate    string `json:"buy_date"`
}

// PortfolioState is the accumulator folded over a member's event stream:
// remaining cash plus the set of held players. Cash and the cost basis of
// holdings always sum to the starting budget.
type PortfolioState struct {
	Cash     int64
	Holdings map[int64]Holding
}

// InvestmentCost returns the summed buy prices of all current holdings.
func (s PortfolioState) InvestmentCost() int64 {
	var total int64
	for _, h := range s.Holdings {
		total += h.BuyPrice
	}
	return total
}

// Clone returns a copy with an independent holdings map, so a fold step can
// derive the next state without mutating the previous one.
func (s PortfolioState) Clone() PortfolioState {
	holdings := make(map[int64]Holding, len(s.Holdings))
	for id, h := range s.Holdings {
		holdings[id] = h
	}
	return PortfolioState{Cash: s.Cash, Holdings: holdings}
}

// DailySnapshot is one row of a member's portfolio timeline. The last_event
// fields reflect only the final event of the day; Events carries the full
// same-day list.
type DailySnapshot struct {
	Date            string          `json:"date"` // YYYY-MM-DD
	InvestmentCost  int64           `json:"investment_cost"`
	MarketValue     int64           `json:"market_value"`
	Cash            int64           `json:"cash"`
	TotalValue      int64           `json:"total_value"`
	HoldingsCount   int             `json:"holdings_count"`
	LastEventType   EventType       `json:"last_event_type,omitempty"`
	LastEventPlayer string          `json:"last_event_player,omitempty"`
	LastEventPrice  int64           `json:"last_event_price,omitempty"`
	Events          []TransferEvent `json:"events,omitempty"`
}

// TimelineEntry is the persisted cache record for one (member, season)
// timeline. Field names match the stored cache documents.
type TimelineEntry struct {
	CacheKey     string          `json:"cache_key"`
	UserName     string          `json:"user_name"`
	Spielzeit    string          `json:"spielzeit"`
	TimelineData []DailySnapshot `json:"timeline_data"`
	CalculatedAt time.Time       `json:"calculated_at"`
}

// TimelineCacheKey builds the composite cache key for a member and season.
func TimelineCacheKey(member, spielzeit string) string {
	return member + "|" + spielzeit
}

// LastDate returns the highest snapshot date in the entry, or "" when empty.
// Snapshots are stored in ascending date order.
func (e *TimelineEntry) LastDate() string {
	if len(e.TimelineData) == 0 {
		return ""
	}
	return e.TimelineData[len(e.TimelineData)-1].Date
}
