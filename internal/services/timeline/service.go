package timeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

// Service implements interfaces.TimelineService.
type Service struct {
	storage interfaces.StorageManager
	cache   interfaces.TimelineCacheStore
	config  *common.Config
	logger  *common.Logger
}

// NewService creates a timeline service. The cache store is injected
// separately from the storage manager so callers can pass a no-op cache.
func NewService(storage interfaces.StorageManager, cache interfaces.TimelineCacheStore, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		cache:   cache,
		config:  config,
		logger:  logger,
	}
}

// GetTimeline returns the member's daily portfolio snapshots for a season,
// reusing the cached prefix and recomputing only the suffix from the last
// cached day through today. Cache failures degrade to a full computation and
// are never surfaced to the caller.
func (s *Service) GetTimeline(ctx context.Context, member, spielzeit string, today time.Time) ([]models.DailySnapshot, error) {
	funcStart := time.Now()
	season := s.config.ResolveSeason(spielzeit)

	start, err := time.Parse(dateLayout, season.From)
	if err != nil {
		return nil, fmt.Errorf("invalid season start date %q: %w", season.From, err)
	}
	seasonEnd, err := time.Parse(dateLayout, season.To)
	if err != nil {
		return nil, fmt.Errorf("invalid season end date %q: %w", season.To, err)
	}

	end := today.Truncate(24 * time.Hour)
	if end.After(seasonEnd) {
		end = seasonEnd
	}
	if end.Before(start) {
		end = start
	}

	// The transfer read is the one dependency without which no timeline can
	// be produced; its failure propagates.
	transfers, err := s.storage.TransferStore().FindTransfers(ctx, member, season.From, season.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers for %s: %w", member, err)
	}

	budget := s.config.Game.StartingBudget

	// No transactions: a single row representing the starting state at season
	// start. Nothing worth caching.
	if len(transfers) == 0 {
		idx := NewPriceIndex(nil)
		return ComputeTimeline(NewPortfolioState(budget), nil, idx, start, start, s.logger), nil
	}

	events := ExtractEvents(transfers)

	// Bulk-load price histories once for every player ever held in the run.
	// A degraded price read falls back to buy-price valuation.
	phaseStart := time.Now()
	history, err := s.storage.PlayerStore().GetPriceHistoryBatch(ctx, playerIDs(events))
	if err != nil {
		s.logger.Warn().Err(err).Str("member", member).Msg("Price history load failed, valuing holdings at buy price")
		history = nil
	}
	idx := NewPriceIndex(history)
	s.logger.Debug().
		Dur("elapsed", time.Since(phaseStart)).
		Int("players", len(history)).
		Msg("Price history batch load complete")

	snapshots := s.getOrCompute(ctx, member, spielzeit, events, idx, budget, start, end)

	s.logger.Info().
		Str("member", member).
		Str("spielzeit", spielzeit).
		Int("days", len(snapshots)).
		Dur("elapsed", time.Since(funcStart)).
		Msg("Timeline ready")

	return snapshots, nil
}

// getOrCompute applies the freshness rule: the entry for today is always
// stale, so the suffix from the last cached day through today is recomputed
// from a replayed checkpoint and spliced onto the untouched cached prefix.
func (s *Service) getOrCompute(ctx context.Context, member, spielzeit string, events []models.TransferEvent, idx *PriceIndex, budget int64, start, end time.Time) []models.DailySnapshot {
	cacheKey := models.TimelineCacheKey(member, spielzeit)
	endStr := end.Format(dateLayout)

	var snapshots []models.DailySnapshot

	entry, err := s.cache.Get(ctx, cacheKey)
	switch {
	case err == nil && entry.LastDate() != "" && entry.LastDate() <= endStr && entry.LastDate() >= start.Format(dateLayout):
		last := entry.LastDate()
		resume, perr := time.Parse(dateLayout, last)
		if perr != nil {
			s.logger.Warn().Str("cache_key", cacheKey).Str("date", last).Msg("Unparseable cached date, recomputing from scratch")
			snapshots = ComputeTimeline(NewPortfolioState(budget), events, idx, start, end, s.logger)
			break
		}

		// Drop the cached row for the resume day itself; it is replaced by
		// the fresh suffix (prices may have moved since it was written).
		prefix := entry.TimelineData[:len(entry.TimelineData)-1]

		checkpoint := ReplayEventsBefore(budget, events, last, s.logger)
		suffix := ComputeTimeline(checkpoint, eventsFrom(events, last), idx, resume, end, s.logger)

		snapshots = make([]models.DailySnapshot, 0, len(prefix)+len(suffix))
		snapshots = append(snapshots, prefix...)
		snapshots = append(snapshots, suffix...)

		s.logger.Debug().
			Str("cache_key", cacheKey).
			Str("resume", last).
			Int("cached_days", len(prefix)).
			Int("fresh_days", len(suffix)).
			Msg("Timeline cache splice")

	default:
		if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("Timeline cache read failed, recomputing from scratch")
		}
		snapshots = ComputeTimeline(NewPortfolioState(budget), events, idx, start, end, s.logger)
	}

	// Write-back of the full merged sequence on every path. A failed write
	// only costs the next request a recompute.
	if err := s.cache.Upsert(ctx, &models.TimelineEntry{
		CacheKey:     cacheKey,
		UserName:     member,
		Spielzeit:    spielzeit,
		TimelineData: snapshots,
		CalculatedAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("Timeline cache write failed")
	}

	return snapshots
}

// Compile-time check
var _ interfaces.TimelineService = (*Service)(nil)
