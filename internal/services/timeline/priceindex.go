// Package timeline reconstructs member portfolio timelines from transfer
// history and player price data, with incremental caching.
package timeline

import (
	"sort"

	"github.com/tkoehler/comunio-server/internal/models"
)

// PriceIndex answers "market value of player P as of date D" from price
// histories bulk-loaded once per reconstruction run. All lookups are in-memory.
type PriceIndex struct {
	history map[int64][]models.PricePoint
}

// NewPriceIndex builds an index over per-player price histories. Each series
// is sorted ascending by date; the stable sort keeps insertion order for
// entries sharing a date, so the last inserted wins on lookup.
func NewPriceIndex(history map[int64][]models.PricePoint) *PriceIndex {
	for _, points := range history {
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Date < points[j].Date
		})
	}
	return &PriceIndex{history: history}
}

// PriceAsOf returns the most recent quoted price at or before date.
// O(log N) binary search over the sorted series.
func (idx *PriceIndex) PriceAsOf(playerID int64, date string) (int64, bool) {
	points := idx.history[playerID]
	if len(points) == 0 {
		return 0, false
	}

	// First index with a date after the target; the entry before it is the
	// most recent quote at or before the target.
	i := sort.Search(len(points), func(i int) bool {
		return points[i].Date > date
	})
	if i == 0 {
		return 0, false
	}
	return points[i-1].Price, true
}

// ValueOrBuyPrice is the valuation policy for held players: the most recent
// quote at or before date, falling back to the holding's own buy price when
// the player has no usable price history. It never fails — the result is a
// valuation estimate, not a correctness-critical value.
func (idx *PriceIndex) ValueOrBuyPrice(playerID int64, date string, buyPrice int64) int64 {
	if price, ok := idx.PriceAsOf(playerID, date); ok {
		return price
	}
	return buyPrice
}
