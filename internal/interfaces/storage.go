// Package interfaces defines service and storage contracts for the Comunio tracker
package interfaces

import (
	"context"
	"errors"

	"github.com/tkoehler/comunio-server/internal/models"
)

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// StorageManager coordinates all storage backends
type StorageManager interface {
	TransferStore() TransferStore
	PlayerStore() PlayerStore
	TimelineCacheStore() TimelineCacheStore

	Close() error
}

// TransferStore manages the transfers collection. Transfers are read-only
// from the tracker's perspective; Save exists for the import path and tests.
type TransferStore interface {
	// FindTransfers returns a member's transfers whose buy date falls within
	// [from, to], ordered ascending by buy date.
	FindTransfers(ctx context.Context, member, from, to string) ([]*models.Transfer, error)

	// ListTransfers returns all transfers whose buy date falls within
	// [from, to], ordered ascending by buy date.
	ListTransfers(ctx context.Context, from, to string) ([]*models.Transfer, error)

	SaveTransfer(ctx context.Context, transfer *models.Transfer) error
}

// PlayerStore manages the players collection.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id int64) (*models.Player, error)

	// GetPriceHistoryBatch bulk-fetches price histories for a set of players.
	// Missing players are simply absent from the result map.
	GetPriceHistoryBatch(ctx context.Context, ids []int64) (map[int64][]models.PricePoint, error)

	SavePlayer(ctx context.Context, player *models.Player) error
}

// TimelineCacheStore persists computed portfolio timelines keyed by
// (member, season). The cache is a pure performance optimization: callers must
// treat every error as a miss and recompute.
type TimelineCacheStore interface {
	// Get returns the cached entry, or ErrNotFound when absent.
	Get(ctx context.Context, cacheKey string) (*models.TimelineEntry, error)

	// Upsert replaces the entry for its cache key.
	Upsert(ctx context.Context, entry *models.TimelineEntry) error
}
