package timeline

import (
	"context"
	"errors"
	"testing"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

type mockTransferStore struct {
	transfers []*models.Transfer
	err       error
}

func (m *mockTransferStore) FindTransfers(ctx context.Context, member, from, to string) ([]*models.Transfer, error) {
	return m.transfers, m.err
}

func (m *mockTransferStore) ListTransfers(ctx context.Context, from, to string) ([]*models.Transfer, error) {
	return m.transfers, m.err
}

func (m *mockTransferStore) SaveTransfer(ctx context.Context, transfer *models.Transfer) error {
	return nil
}

type mockPlayerStore struct {
	history map[int64][]models.PricePoint
	err     error
}

func (m *mockPlayerStore) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	return nil, interfaces.ErrNotFound
}

func (m *mockPlayerStore) GetPriceHistoryBatch(ctx context.Context, ids []int64) (map[int64][]models.PricePoint, error) {
	return m.history, m.err
}

func (m *mockPlayerStore) SavePlayer(ctx context.Context, player *models.Player) error {
	return nil
}

type mockCache struct {
	entry   *models.TimelineEntry
	getErr  error
	gets    int
	upserts []*models.TimelineEntry
}

func (m *mockCache) Get(ctx context.Context, cacheKey string) (*models.TimelineEntry, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.entry == nil {
		return nil, interfaces.ErrNotFound
	}
	return m.entry, nil
}

func (m *mockCache) Upsert(ctx context.Context, entry *models.TimelineEntry) error {
	m.upserts = append(m.upserts, entry)
	return nil
}

type mockStorage struct {
	transfers *mockTransferStore
	players   *mockPlayerStore
	cache     *mockCache
}

func (m *mockStorage) TransferStore() interfaces.TransferStore           { return m.transfers }
func (m *mockStorage) PlayerStore() interfaces.PlayerStore               { return m.players }
func (m *mockStorage) TimelineCacheStore() interfaces.TimelineCacheStore { return m.cache }
func (m *mockStorage) Close() error                                      { return nil }

func newTestService(storage *mockStorage) *Service {
	return NewService(storage, storage.cache, common.NewDefaultConfig(), common.NewSilentLogger())
}

func aliceBuysOn0705() []*models.Transfer {
	return []*models.Transfer{
		{
			PlayerID:   100,
			PlayerName: "Musiala",
			MemberName: "Alice",
			Buy:        models.TradeSide{Date: "2024-07-05", Price: 1_000_000},
		},
	}
}

// A member with no transactions gets a single starting-state row and the
// cache is never touched.
func TestGetTimelineNoTransfers(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{},
		players:   &mockPlayerStore{},
		cache:     &mockCache{},
	}
	svc := newTestService(storage)

	snapshots, err := svc.GetTimeline(context.Background(), "Bob", "2024/2025", day("2024-08-15"))
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}

	if len(snapshots) != 1 {
		t.Fatalf("got %d rows, want 1", len(snapshots))
	}
	if snapshots[0].Date != "2024-07-01" {
		t.Errorf("date = %s, want season start 2024-07-01", snapshots[0].Date)
	}
	if snapshots[0].Cash != 40_000_000 || snapshots[0].HoldingsCount != 0 {
		t.Errorf("row = %+v, want full budget and no holdings", snapshots[0])
	}
	if storage.cache.gets != 0 || len(storage.cache.upserts) != 0 {
		t.Errorf("cache touched for empty timeline: gets=%d upserts=%d", storage.cache.gets, len(storage.cache.upserts))
	}
}

func TestGetTimelineFullCompute(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players:   &mockPlayerStore{},
		cache:     &mockCache{},
	}
	svc := newTestService(storage)
	today := day("2024-07-20")

	snapshots, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", today)
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}

	if len(snapshots) != 20 {
		t.Fatalf("got %d rows, want 20 (2024-07-01..2024-07-20)", len(snapshots))
	}
	if snapshots[len(snapshots)-1].Date != "2024-07-20" {
		t.Errorf("last date = %s, want 2024-07-20", snapshots[len(snapshots)-1].Date)
	}

	if len(storage.cache.upserts) != 1 {
		t.Fatalf("got %d cache writes, want 1", len(storage.cache.upserts))
	}
	written := storage.cache.upserts[0]
	if written.CacheKey != "Alice|2024/2025" {
		t.Errorf("cache key = %s, want Alice|2024/2025", written.CacheKey)
	}
	if len(written.TimelineData) != len(snapshots) {
		t.Errorf("cached %d rows, want %d", len(written.TimelineData), len(snapshots))
	}
}

// A valid cached entry is reused as-is up to its second-to-last row; only the
// suffix from the last cached day through today is recomputed.
func TestGetTimelineCacheSplice(t *testing.T) {
	// Cached rows 2024-07-01..2024-08-01 carry a sentinel market value no
	// recomputation would produce.
	var cached []models.DailySnapshot
	for d := day("2024-07-01"); !d.After(day("2024-08-01")); d = d.AddDate(0, 0, 1) {
		cached = append(cached, models.DailySnapshot{Date: d.Format(dateLayout), MarketValue: 777})
	}

	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players:   &mockPlayerStore{},
		cache: &mockCache{entry: &models.TimelineEntry{
			CacheKey:     "Alice|2024/2025",
			UserName:     "Alice",
			Spielzeit:    "2024/2025",
			TimelineData: cached,
		}},
	}
	svc := newTestService(storage)

	snapshots, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", day("2024-08-03"))
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}

	if len(snapshots) != 34 {
		t.Fatalf("got %d rows, want 34 (2024-07-01..2024-08-03)", len(snapshots))
	}

	// Prefix rows before 2024-08-01 come from the cache untouched.
	for _, snap := range snapshots {
		if snap.Date < "2024-08-01" && snap.MarketValue != 777 {
			t.Errorf("%s: prefix row was recomputed (market_value=%d)", snap.Date, snap.MarketValue)
		}
	}

	// The suffix reflects the replayed checkpoint: the 07-05 buy is applied.
	last := snapshots[len(snapshots)-1]
	if last.Date != "2024-08-03" {
		t.Errorf("last date = %s, want 2024-08-03", last.Date)
	}
	if last.Cash != 39_000_000 || last.HoldingsCount != 1 {
		t.Errorf("last row = %+v, want cash 39000000 with one holding", last)
	}
	if last.MarketValue != 1_000_000 {
		t.Errorf("last market_value = %d, want buy-price fallback 1000000", last.MarketValue)
	}

	// The merged sequence is written back in full.
	if len(storage.cache.upserts) != 1 || len(storage.cache.upserts[0].TimelineData) != 34 {
		t.Errorf("cache write-back missing or wrong size: %+v", storage.cache.upserts)
	}
}

// Cache read failures degrade to a full recompute, never to an error.
func TestGetTimelineCacheReadFailure(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players:   &mockPlayerStore{},
		cache:     &mockCache{getErr: errors.New("connection reset")},
	}
	svc := newTestService(storage)

	snapshots, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", day("2024-07-10"))
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if len(snapshots) != 10 {
		t.Fatalf("got %d rows, want 10", len(snapshots))
	}
}

// A cached entry beyond the requested window (pinned historical date) is
// ignored in favor of a full recompute.
func TestGetTimelineStaleCacheBeyondWindow(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players:   &mockPlayerStore{},
		cache: &mockCache{entry: &models.TimelineEntry{
			CacheKey:     "Alice|2024/2025",
			TimelineData: []models.DailySnapshot{{Date: "2024-09-01", MarketValue: 777}},
		}},
	}
	svc := newTestService(storage)

	snapshots, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", day("2024-07-10"))
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}

	for _, snap := range snapshots {
		if snap.MarketValue == 777 {
			t.Fatalf("%s: stale cached row leaked into result", snap.Date)
		}
	}
}

func TestGetTimelineTransferErrorPropagates(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{err: errors.New("db down")},
		players:   &mockPlayerStore{},
		cache:     &mockCache{},
	}
	svc := newTestService(storage)

	if _, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", day("2024-07-10")); err == nil {
		t.Fatal("expected error when transfer load fails")
	}
}

// A failed price history load degrades to valuing holdings at buy price.
func TestGetTimelinePriceLoadFailureDegrades(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players:   &mockPlayerStore{err: errors.New("db down")},
		cache:     &mockCache{},
	}
	svc := newTestService(storage)

	snapshots, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", day("2024-07-10"))
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	last := snapshots[len(snapshots)-1]
	if last.MarketValue != 1_000_000 {
		t.Errorf("market_value = %d, want buy-price fallback", last.MarketValue)
	}
}

// Two runs over unchanged data produce identical sequences.
func TestGetTimelineIdempotent(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players: &mockPlayerStore{history: map[int64][]models.PricePoint{
			100: {{Date: "2024-07-08", Price: 1_100_000}},
		}},
		cache: &mockCache{getErr: errors.New("always miss")},
	}
	svc := newTestService(storage)
	today := day("2024-07-15")

	first, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", today)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", today)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Date != second[i].Date || first[i].TotalValue != second[i].TotalValue {
			t.Errorf("day %s differs between runs: %+v vs %+v", first[i].Date, first[i], second[i])
		}
	}
}

// The reconstruction window never extends past the season end.
func TestGetTimelineClampsToSeasonEnd(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players:   &mockPlayerStore{},
		cache:     &mockCache{},
	}
	svc := newTestService(storage)

	snapshots, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", day("2025-09-01"))
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}

	last := snapshots[len(snapshots)-1]
	if last.Date != "2025-06-30" {
		t.Errorf("last date = %s, want season end 2025-06-30", last.Date)
	}
}

// A date before season start clamps the window to the single start day.
func TestGetTimelineTodayBeforeSeasonStart(t *testing.T) {
	storage := &mockStorage{
		transfers: &mockTransferStore{transfers: aliceBuysOn0705()},
		players:   &mockPlayerStore{},
		cache:     &mockCache{},
	}
	svc := newTestService(storage)

	snapshots, err := svc.GetTimeline(context.Background(), "Alice", "2024/2025", day("2024-06-01"))
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].Date != "2024-07-01" {
		t.Errorf("got %d rows starting %s, want single season-start row", len(snapshots), snapshots[0].Date)
	}
}

var _ interfaces.StorageManager = (*mockStorage)(nil)
