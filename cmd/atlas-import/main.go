// atlas-import validates a file dataset and replaces the locations table with it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/udisondev/atlas/internal/config"
	"github.com/udisondev/atlas/internal/data"
	"github.com/udisondev/atlas/internal/db"
	"github.com/udisondev/atlas/internal/logging"
	"github.com/udisondev/atlas/internal/world"
)

func main() {
	dataset := flag.String("dataset", "", "dataset file or directory (default: dataset_path from config)")
	dryRun := flag.Bool("dry-run", false, "validate only, do not touch the database")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *dataset, *dryRun); err != nil {
		slog.Error("import failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dataset string, dryRun bool) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.LoadAtlas(config.PathFromEnv())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if dataset == "" {
		dataset = cfg.DatasetPath
	}
	src, err := data.PathSource(dataset)
	if err != nil {
		return err
	}
	recs, err := src.Records(ctx)
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}

	// Reject anything the server would refuse to load.
	graph, err := world.FromRecords(recs)
	if err != nil {
		return fmt.Errorf("validating dataset: %w", err)
	}
	st := graph.Statistics()
	slog.Info("dataset valid",
		"path", dataset,
		"locations", st.Count,
		"connections", st.Connections,
		"cells", st.Cells,
		"fingerprint", graph.Fingerprint())

	if dryRun {
		return nil
	}

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer database.Close()

	repo := database.Locations()
	if err := repo.Import(ctx, recs, graph.Fingerprint(), dataset); err != nil {
		return fmt.Errorf("importing: %w", err)
	}
	if info, err := repo.LastImport(ctx); err == nil && info != nil {
		slog.Info("import complete", "locations", info.LocationCount, "fingerprint", info.Fingerprint, "at", info.ImportedAt)
	}
	return nil
}
