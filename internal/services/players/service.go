// Package players exposes player price and points histories for detail views.
package players

import (
	"context"
	"fmt"
	"sort"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

// Service implements interfaces.PlayerService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a player service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// GetPriceHistory returns the player's market value history sorted by date.
func (s *Service) GetPriceHistory(ctx context.Context, playerID int64) ([]models.PricePoint, error) {
	player, err := s.storage.PlayerStore().GetPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	points := player.PriceHistory
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points, nil
}

// GetPointsHistory returns the player's matchday points sorted by date.
func (s *Service) GetPointsHistory(ctx context.Context, playerID int64) ([]models.PointsEntry, error) {
	player, err := s.storage.PlayerStore().GetPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	entries := player.PointHistory
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

// Compile-time check
var _ interfaces.PlayerService = (*Service)(nil)
