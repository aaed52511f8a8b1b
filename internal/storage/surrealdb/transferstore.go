package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/models"
)

// TransferStore persists transfer documents in the transfers table.
type TransferStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransferStore(db *surrealdb.DB, logger *common.Logger) *TransferStore {
	return &TransferStore{
		db:     db,
		logger: logger,
	}
}

func (s *TransferStore) FindTransfers(ctx context.Context, member, from, to string) ([]*models.Transfer, error) {
	sql := "SELECT * FROM transfers WHERE member_name = $member AND buy.date >= $from AND buy.date <= $to ORDER BY buy.date ASC"
	vars := map[string]any{
		"member": member,
		"from":   from,
		"to":     to,
	}

	results, err := surrealdb.Query[[]models.Transfer](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to find transfers: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Transfer
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *TransferStore) ListTransfers(ctx context.Context, from, to string) ([]*models.Transfer, error) {
	sql := "SELECT * FROM transfers WHERE buy.date >= $from AND buy.date <= $to ORDER BY buy.date ASC"
	vars := map[string]any{
		"from": from,
		"to":   to,
	}

	results, err := surrealdb.Query[[]models.Transfer](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Transfer
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *TransferStore) SaveTransfer(ctx context.Context, transfer *models.Transfer) error {
	// One record per (member, player, buy date); re-importing a dump is
	// idempotent.
	key := fmt.Sprintf("%s_%d_%s", transfer.MemberName, transfer.PlayerID, transfer.Buy.Date)

	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("transfers", key),
		"data": transfer,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Transfer](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save transfer after retries: %w", lastErr)
}
