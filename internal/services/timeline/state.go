package timeline

import (
	"time"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/models"
)

const dateLayout = "2006-01-02"

// NewPortfolioState returns the season-start state: full budget, no holdings.
func NewPortfolioState(budget int64) models.PortfolioState {
	return models.PortfolioState{
		Cash:     budget,
		Holdings: map[int64]models.Holding{},
	}
}

// applyBuy derives the next state from a buy event: cash decreases by the
// price and the player joins the holdings. A buy for an already-held player
// replaces the holding, mirroring the source data as given.
func applyBuy(state models.PortfolioState, ev models.TransferEvent) models.PortfolioState {
	next := state.Clone()
	next.Cash -= ev.Price
	next.Holdings[ev.PlayerID] = models.Holding{
		PlayerName: ev.PlayerName,
		BuyPrice:   ev.Price,
		BuyDate:    ev.Date,
	}
	return next
}

// applySell derives the next state from a sell event: cash increases by the
// price and the holding is removed. A sell for a player not currently held is
// a no-op — it indicates a data inconsistency, not a crash; applied reports
// whether the sell took effect so the caller can log it.
func applySell(state models.PortfolioState, ev models.TransferEvent) (next models.PortfolioState, applied bool) {
	if _, held := state.Holdings[ev.PlayerID]; !held {
		return state, false
	}
	next = state.Clone()
	next.Cash += ev.Price
	delete(next.Holdings, ev.PlayerID)
	return next, true
}

// applyEvent dispatches one event against the state.
func applyEvent(state models.PortfolioState, ev models.TransferEvent, logger *common.Logger) models.PortfolioState {
	switch ev.Type {
	case models.EventSell:
		next, applied := applySell(state, ev)
		if !applied && logger != nil {
			logger.Warn().
				Int64("player_id", ev.PlayerID).
				Str("player", ev.PlayerName).
				Str("date", ev.Date).
				Msg("Sell event for player not held, ignoring")
		}
		return next
	default:
		return applyBuy(state, ev)
	}
}

// ReplayEventsBefore rebuilds the checkpoint state by applying all events
// strictly before the cutoff date. Used when resuming an incremental
// recomputation from a cached timeline.
func ReplayEventsBefore(budget int64, events []models.TransferEvent, cutoff string, logger *common.Logger) models.PortfolioState {
	state := NewPortfolioState(budget)
	for _, ev := range events {
		if ev.Date >= cutoff {
			break
		}
		state = applyEvent(state, ev, logger)
	}
	return state
}

// eventsFrom returns the suffix of the (date-sorted) event stream with dates
// at or after the cutoff.
func eventsFrom(events []models.TransferEvent, cutoff string) []models.TransferEvent {
	for i, ev := range events {
		if ev.Date >= cutoff {
			return events[i:]
		}
	}
	return nil
}

// ComputeTimeline folds the event stream into one DailySnapshot per calendar
// day from start to end (inclusive). Days without events still get a snapshot
// so price drift of held players is visible. Events dated before start are
// applied on the first day but not listed in it.
func ComputeTimeline(initial models.PortfolioState, events []models.TransferEvent, idx *PriceIndex, start, end time.Time, logger *common.Logger) []models.DailySnapshot {
	days := generateCalendarDates(start, end)
	if len(days) == 0 {
		return nil
	}

	state := initial
	cursor := 0
	snapshots := make([]models.DailySnapshot, 0, len(days))

	for _, day := range days {
		dayStr := day.Format(dateLayout)

		var dayEvents []models.TransferEvent
		for cursor < len(events) && events[cursor].Date <= dayStr {
			ev := events[cursor]
			cursor++
			state = applyEvent(state, ev, logger)
			if ev.Date == dayStr {
				dayEvents = append(dayEvents, ev)
			}
		}

		snapshots = append(snapshots, snapshotFor(dayStr, state, dayEvents, idx))
	}

	return snapshots
}

// snapshotFor captures the end-of-day view of the state. The last_event
// fields reflect only the final event of the day; earlier same-day events
// affect the totals and appear in Events.
func snapshotFor(date string, state models.PortfolioState, dayEvents []models.TransferEvent, idx *PriceIndex) models.DailySnapshot {
	var marketValue int64
	for id, h := range state.Holdings {
		marketValue += idx.ValueOrBuyPrice(id, date, h.BuyPrice)
	}

	snap := models.DailySnapshot{
		Date:           date,
		InvestmentCost: state.InvestmentCost(),
		MarketValue:    marketValue,
		Cash:           state.Cash,
		TotalValue:     state.Cash + marketValue,
		HoldingsCount:  len(state.Holdings),
		Events:         dayEvents,
	}

	if len(dayEvents) > 0 {
		last := dayEvents[len(dayEvents)-1]
		snap.LastEventType = last.Type
		snap.LastEventPlayer = last.PlayerName
		snap.LastEventPrice = last.Price
	}

	return snap
}

// generateCalendarDates produces one date per day from start to end (inclusive).
func generateCalendarDates(start, end time.Time) []time.Time {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)

	if end.Before(start) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
