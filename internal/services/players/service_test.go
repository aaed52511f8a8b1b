package players

import (
	"context"
	"errors"
	"testing"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

type mockPlayerStore struct {
	player *models.Player
}

func (m *mockPlayerStore) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	if m.player == nil || m.player.ID != id {
		return nil, interfaces.ErrNotFound
	}
	return m.player, nil
}

func (m *mockPlayerStore) GetPriceHistoryBatch(ctx context.Context, ids []int64) (map[int64][]models.PricePoint, error) {
	return nil, nil
}

func (m *mockPlayerStore) SavePlayer(ctx context.Context, player *models.Player) error {
	return nil
}

type mockStorage struct {
	players *mockPlayerStore
}

func (m *mockStorage) TransferStore() interfaces.TransferStore { return nil }
func (m *mockStorage) PlayerStore() interfaces.PlayerStore     { return m.players }
func (m *mockStorage) TimelineCacheStore() interfaces.TimelineCacheStore {
	return nil
}
func (m *mockStorage) Close() error { return nil }

func newTestService(player *models.Player) *Service {
	return NewService(&mockStorage{players: &mockPlayerStore{player: player}}, common.NewSilentLogger())
}

func TestGetPriceHistorySorted(t *testing.T) {
	svc := newTestService(&models.Player{
		ID: 100,
		PriceHistory: []models.PricePoint{
			{Date: "2024-07-10", Price: 1_200_000},
			{Date: "2024-07-01", Price: 1_000_000},
		},
	})

	points, err := svc.GetPriceHistory(context.Background(), 100)
	if err != nil {
		t.Fatalf("GetPriceHistory: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date != "2024-07-01" || points[1].Date != "2024-07-10" {
		t.Errorf("points not sorted: %+v", points)
	}
}

func TestGetPriceHistoryNotFound(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.GetPriceHistory(context.Background(), 999)
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetPointsHistorySorted(t *testing.T) {
	svc := newTestService(&models.Player{
		ID: 100,
		PointHistory: []models.PointsEntry{
			{Matchday: "2. Spieltag", Date: "2024-08-31", Points: 4},
			{Matchday: "1. Spieltag", Date: "2024-08-24", Points: 8},
		},
	})

	entries, err := svc.GetPointsHistory(context.Background(), 100)
	if err != nil {
		t.Fatalf("GetPointsHistory: %v", err)
	}
	if entries[0].Matchday != "1. Spieltag" {
		t.Errorf("entries not sorted: %+v", entries)
	}
}
