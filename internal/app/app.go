// Package app wires configuration, storage, and services into a runnable
// application core.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/services/players"
	"github.com/tkoehler/comunio-server/internal/services/timeline"
	"github.com/tkoehler/comunio-server/internal/services/transfers"
	"github.com/tkoehler/comunio-server/internal/storage"
	"github.com/tkoehler/comunio-server/internal/storage/surrealdb"
)

// App holds all initialized services and storage. It is the shared core used
// by cmd/comunio-server and cmd/comunio-import.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	TimelineService interfaces.TimelineService
	TransferService interfaces.TransferService
	PlayerService   interfaces.PlayerService
	StartupTime     time.Time
}

// NewApp initializes configuration, logging, storage, and services.
// configPath may be empty, in which case COMUNIO_CONFIG and the default
// comunio.toml location are tried.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("COMUNIO_CONFIG")
	}
	if configPath == "" {
		configPath = "comunio.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// The timeline cache is an optional optimization; a disabled cache is a
	// no-op store, not a special case in the service.
	var cache interfaces.TimelineCacheStore = storageManager.TimelineCacheStore()
	if !config.Storage.CacheEnabled {
		logger.Info().Msg("Timeline cache disabled, every request computes from scratch")
		cache = storage.NopTimelineCache{}
	}

	return &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		TimelineService: timeline.NewService(storageManager, cache, config, logger),
		TransferService: transfers.NewService(storageManager, config, logger),
		PlayerService:   players.NewService(storageManager, logger),
		StartupTime:     time.Now(),
	}, nil
}

// Close releases storage resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
}
