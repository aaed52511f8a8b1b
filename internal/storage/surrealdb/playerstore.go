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

// PlayerStore persists player documents in the players table.
type PlayerStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPlayerStore(db *surrealdb.DB, logger *common.Logger) *PlayerStore {
	return &PlayerStore{
		db:     db,
		logger: logger,
	}
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	data, err := surrealdb.Select[models.Player](ctx, s.db, surrealmodels.NewRecordID("players", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select player %d: %w", id, err)
	}
	if data == nil || data.ID == 0 {
		return nil, fmt.Errorf("player %d: %w", id, interfaces.ErrNotFound)
	}
	return data, nil
}

func (s *PlayerStore) GetPriceHistoryBatch(ctx context.Context, ids []int64) (map[int64][]models.PricePoint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql := "SELECT id, price_history FROM players WHERE id IN $ids"
	vars := map[string]any{"ids": ids}

	results, err := surrealdb.Query[[]models.Player](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history batch: %w", err)
	}

	history := make(map[int64][]models.PricePoint)
	if results != nil && len(*results) > 0 {
		for _, player := range (*results)[0].Result {
			history[player.ID] = player.PriceHistory
		}
	}
	return history, nil
}

func (s *PlayerStore) SavePlayer(ctx context.Context, player *models.Player) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("players", player.ID),
		"data": player,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Player](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save player after retries: %w", lastErr)
}
