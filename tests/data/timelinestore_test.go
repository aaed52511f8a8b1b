package data

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

func newTimelineEntry(member, spielzeit string, dates ...string) *models.TimelineEntry {
	entry := &models.TimelineEntry{
		CacheKey:     models.TimelineCacheKey(member, spielzeit),
		UserName:     member,
		Spielzeit:    spielzeit,
		CalculatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, d := range dates {
		entry.TimelineData = append(entry.TimelineData, models.DailySnapshot{
			Date:       d,
			Cash:       40_000_000,
			TotalValue: 40_000_000,
		})
	}
	return entry
}

func TestTimelineCacheLifecycle(t *testing.T) {
	mgr := testManager(t)
	store := mgr.TimelineCacheStore()
	ctx := testContext()

	entry := newTimelineEntry("Alice", "2024/2025", "2024-07-01", "2024-07-02")
	require.NoError(t, store.Upsert(ctx, entry))

	got, err := store.Get(ctx, "Alice|2024/2025")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.UserName)
	assert.Equal(t, "2024/2025", got.Spielzeit)
	require.Len(t, got.TimelineData, 2)
	assert.Equal(t, "2024-07-02", got.LastDate())

	// Upsert with more days replaces the entry.
	entry = newTimelineEntry("Alice", "2024/2025", "2024-07-01", "2024-07-02", "2024-07-03")
	require.NoError(t, store.Upsert(ctx, entry))

	got, err = store.Get(ctx, "Alice|2024/2025")
	require.NoError(t, err)
	assert.Len(t, got.TimelineData, 3)
	assert.Equal(t, "2024-07-03", got.LastDate())
}

func TestTimelineCacheMiss(t *testing.T) {
	mgr := testManager(t)
	store := mgr.TimelineCacheStore()

	_, err := store.Get(testContext(), "Nobody|2024/2025")
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestTimelineCachePerSeasonKeys(t *testing.T) {
	mgr := testManager(t)
	store := mgr.TimelineCacheStore()
	ctx := testContext()

	require.NoError(t, store.Upsert(ctx, newTimelineEntry("Alice", "2024/2025", "2024-07-01")))
	require.NoError(t, store.Upsert(ctx, newTimelineEntry("Alice", "2023/2024", "2023-06-01")))

	current, err := store.Get(ctx, "Alice|2024/2025")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", current.LastDate())

	previous, err := store.Get(ctx, "Alice|2023/2024")
	require.NoError(t, err)
	assert.Equal(t, "2023-06-01", previous.LastDate())
}
