package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ecospend/internal/config"
	applog "ecospend/internal/log"
	"ecospend/internal/peers"
	"ecospend/internal/storage"
)

// peer-import loads a peer carbon dataset CSV and stores its distribution in
// the local SQLite database, replacing whatever was there before.
func main() {
	_ = godotenv.Load()

	applog.SetDefault(applog.New(applog.Config{Component: applog.ComponentPeers}))

	cfg := config.Load()

	csvPath := flag.String("csv", cfg.PeerCSVPath, "peer dataset CSV with a carbon_kg column")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database path")
	flag.Parse()

	ctx := context.Background()

	dist, err := peers.LoadCSV(ctx, *csvPath)
	if err != nil {
		slog.Error("Failed to load peer CSV", "error", err, "path", *csvPath)
		os.Exit(1)
	}
	if dist.Len() == 0 {
		slog.Error("Peer CSV contains no usable carbon values", "path", *csvPath)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		slog.Error("Failed to open SQLite repository", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.ReplacePeerValues(ctx, dist.Values()); err != nil {
		slog.Error("Failed to store peer distribution", "error", err)
		os.Exit(1)
	}

	slog.Info("Peer distribution imported", "count", dist.Len(), "db", *dbPath)
}
