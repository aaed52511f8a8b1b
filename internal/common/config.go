package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the Comunio tracker server
type Config struct {
	Environment string                 `toml:"environment"`
	Server      ServerConfig           `toml:"server"`
	Storage     StorageConfig          `toml:"storage"`
	Game        GameConfig             `toml:"game"`
	Seasons     map[string]SeasonRange `toml:"seasons"`
	Logging     LoggingConfig          `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables limiting
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address      string `toml:"address"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	Namespace    string `toml:"namespace"`
	Database     string `toml:"database"`
	CacheEnabled bool   `toml:"cache_enabled"` // timeline cache table; disabling falls back to full recomputes
}

// GameConfig holds Comunio game rules.
type GameConfig struct {
	StartingBudget int64  `toml:"starting_budget"`
	DefaultSeason  string `toml:"default_season"`
}

// SeasonRange is an inclusive date range in YYYY-MM-DD form.
type SeasonRange struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 50,
		},
		Storage: StorageConfig{
			Address:      "ws://localhost:8000/rpc",
			Username:     "root",
			Password:     "root",
			Namespace:    "comunio",
			Database:     "comunio",
			CacheEnabled: true,
		},
		Game: GameConfig{
			StartingBudget: 40_000_000,
			DefaultSeason:  "2024/2025",
		},
		Seasons: map[string]SeasonRange{
			"2024/2025": {From: "2024-07-01", To: "2025-06-30"},
			"2023/2024": {From: "2023-06-01", To: "2024-06-30"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COMUNIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("COMUNIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("COMUNIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("COMUNIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("COMUNIO_DB_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("COMUNIO_DB_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("COMUNIO_DB_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}
	if ns := os.Getenv("COMUNIO_DB_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("COMUNIO_DB_DATABASE"); db != "" {
		config.Storage.Database = db
	}

	if v := os.Getenv("COMUNIO_CACHE_ENABLED"); v != "" {
		config.Storage.CacheEnabled = v == "true" || v == "1"
	}

	if season := os.Getenv("COMUNIO_DEFAULT_SEASON"); season != "" {
		config.Game.DefaultSeason = season
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
