package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

// TimelineStore persists computed timeline entries in the timeline_cache
// table, one record per (member, season) cache key.
type TimelineStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTimelineStore(db *surrealdb.DB, logger *common.Logger) *TimelineStore {
	return &TimelineStore{
		db:     db,
		logger: logger,
	}
}

func (s *TimelineStore) Get(ctx context.Context, cacheKey string) (*models.TimelineEntry, error) {
	data, err := surrealdb.Select[models.TimelineEntry](ctx, s.db, surrealmodels.NewRecordID("timeline_cache", cacheKey))
	if err != nil {
		return nil, fmt.Errorf("failed to select timeline cache entry: %w", err)
	}
	if data == nil || data.CacheKey == "" {
		return nil, fmt.Errorf("timeline cache %q: %w", cacheKey, interfaces.ErrNotFound)
	}
	return data, nil
}

func (s *TimelineStore) Upsert(ctx context.Context, entry *models.TimelineEntry) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("timeline_cache", entry.CacheKey),
		"data": entry,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.TimelineEntry](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save timeline cache entry after retries: %w", lastErr)
}

// Compile-time check
var _ interfaces.TimelineCacheStore = (*TimelineStore)(nil)
