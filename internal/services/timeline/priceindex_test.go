package timeline

import (
	"testing"

	"github.com/tkoehler/comunio-server/internal/models"
)

func TestPriceAsOf(t *testing.T) {
	idx := NewPriceIndex(map[int64][]models.PricePoint{
		100: {
			{Date: "2024-07-01", Price: 1_000_000},
			{Date: "2024-07-10", Price: 1_200_000},
			{Date: "2024-07-20", Price: 900_000},
		},
	})

	tests := []struct {
		date  string
		want  int64
		found bool
	}{
		{"2024-06-30", 0, false},       // before first entry
		{"2024-07-01", 1_000_000, true}, // exact match
		{"2024-07-05", 1_000_000, true}, // between entries
		{"2024-07-10", 1_200_000, true},
		{"2024-07-25", 900_000, true}, // after last entry
	}

	for _, tt := range tests {
		got, ok := idx.PriceAsOf(100, tt.date)
		if ok != tt.found || got != tt.want {
			t.Errorf("PriceAsOf(100, %s) = (%d, %v), want (%d, %v)", tt.date, got, ok, tt.want, tt.found)
		}
	}
}

func TestPriceAsOfUnsortedInput(t *testing.T) {
	// NewPriceIndex must sort each series before lookups.
	idx := NewPriceIndex(map[int64][]models.PricePoint{
		7: {
			{Date: "2024-07-20", Price: 300},
			{Date: "2024-07-01", Price: 100},
			{Date: "2024-07-10", Price: 200},
		},
	})

	got, ok := idx.PriceAsOf(7, "2024-07-15")
	if !ok || got != 200 {
		t.Errorf("PriceAsOf(7, 2024-07-15) = (%d, %v), want (200, true)", got, ok)
	}
}

func TestPriceAsOfUnknownPlayer(t *testing.T) {
	idx := NewPriceIndex(nil)

	if _, ok := idx.PriceAsOf(42, "2024-07-01"); ok {
		t.Error("expected no price for unknown player")
	}
}

func TestValueOrBuyPriceFallback(t *testing.T) {
	idx := NewPriceIndex(map[int64][]models.PricePoint{
		100: {{Date: "2024-07-10", Price: 1_200_000}},
	})

	// No entry at or before the date: fall back to the buy price.
	if got := idx.ValueOrBuyPrice(100, "2024-07-05", 1_000_000); got != 1_000_000 {
		t.Errorf("fallback value = %d, want 1000000", got)
	}

	// Entry exists: use it.
	if got := idx.ValueOrBuyPrice(100, "2024-07-12", 1_000_000); got != 1_200_000 {
		t.Errorf("quoted value = %d, want 1200000", got)
	}

	// Player entirely unknown.
	if got := idx.ValueOrBuyPrice(999, "2024-07-12", 550_000); got != 550_000 {
		t.Errorf("unknown player value = %d, want 550000", got)
	}
}
