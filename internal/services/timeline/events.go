package timeline

import (
	"sort"

	"github.com/tkoehler/comunio-server/internal/models"
)

// ExtractEvents flattens a member's transfers into a chronologically ordered
// event stream: one buy event per transfer, plus a sell event when the
// transfer has a sell side. The sort is stable, so same-day events keep
// extraction order — there is no further tie-break.
func ExtractEvents(transfers []*models.Transfer) []models.TransferEvent {
	events := make([]models.TransferEvent, 0, len(transfers)*2)

	for _, t := range transfers {
		events = append(events, models.TransferEvent{
			Date:       t.Buy.Date,
			Type:       models.EventBuy,
			PlayerID:   t.PlayerID,
			PlayerName: t.PlayerName,
			Price:      t.Buy.Price,
		})
		if t.Sell != nil {
			events = append(events, models.TransferEvent{
				Date:       t.Sell.Date,
				Type:       models.EventSell,
				PlayerID:   t.PlayerID,
				PlayerName: t.PlayerName,
				Price:      t.Sell.Price,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})

	return events
}

// playerIDs returns the distinct player ids appearing in the event stream,
// i.e. every player the member ever held in the period.
func playerIDs(events []models.TransferEvent) []int64 {
	seen := make(map[int64]struct{}, len(events))
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.PlayerID]; ok {
			continue
		}
		seen[ev.PlayerID] = struct{}{}
		ids = append(ids, ev.PlayerID)
	}
	return ids
}
