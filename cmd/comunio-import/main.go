// Command comunio-import loads a JSON dump of transfers and players into
// the configured SurrealDB instance.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tkoehler/comunio-server/internal/app"
	"github.com/tkoehler/comunio-server/internal/models"
)

// dumpFile is the on-disk import format.
type dumpFile struct {
	Transfers []models.Transfer `json:"transfers"`
	Players   []models.Player   `json:"players"`
}

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	inputPath := flag.String("input", "", "path to JSON dump (required)")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: comunio-import -input dump.json [-config comunio.toml]")
		os.Exit(2)
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		a.Logger.Fatal().Err(err).Str("path", *inputPath).Msg("Failed to read dump file")
	}

	var dump dumpFile
	if err := json.Unmarshal(data, &dump); err != nil {
		a.Logger.Fatal().Err(err).Msg("Failed to parse dump file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	transfers := a.Storage.TransferStore()
	for i := range dump.Transfers {
		if err := transfers.SaveTransfer(ctx, &dump.Transfers[i]); err != nil {
			a.Logger.Fatal().Err(err).
				Str("member", dump.Transfers[i].MemberName).
				Str("player", dump.Transfers[i].PlayerName).
				Msg("Failed to save transfer")
		}
	}

	players := a.Storage.PlayerStore()
	for i := range dump.Players {
		if err := players.SavePlayer(ctx, &dump.Players[i]); err != nil {
			a.Logger.Fatal().Err(err).
				Int64("player_id", dump.Players[i].ID).
				Msg("Failed to save player")
		}
	}

	a.Logger.Info().
		Int("transfers", len(dump.Transfers)).
		Int("players", len(dump.Players)).
		Msg("Import complete")
}
