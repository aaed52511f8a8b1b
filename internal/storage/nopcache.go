// Package storage provides storage implementations shared across backends.
package storage

import (
	"context"

	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

// NopTimelineCache is a TimelineCacheStore that caches nothing: every read
// misses and every write is discarded. Used when the cache is disabled, so
// "no cache" is a configuration rather than an error path.
type NopTimelineCache struct{}

func (NopTimelineCache) Get(_ context.Context, _ string) (*models.TimelineEntry, error) {
	return nil, interfaces.ErrNotFound
}

func (NopTimelineCache) Upsert(_ context.Context, _ *models.TimelineEntry) error {
	return nil
}

// Compile-time check
var _ interfaces.TimelineCacheStore = NopTimelineCache{}
