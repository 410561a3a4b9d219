package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/atlas/internal/compositor"
	"github.com/udisondev/atlas/internal/config"
	"github.com/udisondev/atlas/internal/data"
	"github.com/udisondev/atlas/internal/db"
	"github.com/udisondev/atlas/internal/geoip"
	"github.com/udisondev/atlas/internal/httpapi"
	"github.com/udisondev/atlas/internal/logging"
	"github.com/udisondev/atlas/internal/navigation"
	"github.com/udisondev/atlas/internal/rendercache"
	"github.com/udisondev/atlas/internal/world"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; real environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfgPath := config.PathFromEnv()
	cfg, err := config.LoadAtlas(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	slog.Info("atlas starting", "config", cfgPath, "log_level", cfg.LogLevel)

	var src data.Source
	if cfg.Database.Enabled {
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")
		src = database.Locations()
	} else {
		if src, err = data.PathSource(cfg.DatasetPath); err != nil {
			return fmt.Errorf("opening dataset: %w", err)
		}
	}

	graph, err := world.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("loading world: %w", err)
	}
	svc := navigation.NewService(graph)

	var cache *rendercache.Cache
	if rc := rendercache.Open(cfg.Redis); rc != nil {
		defer rc.Close()
		backend := rendercache.NewRedis(rc)
		if err := backend.Ping(ctx); err != nil {
			slog.Warn("redis unavailable, render cache disabled", "addr", cfg.Redis.Addr, "err", err)
		} else {
			cache = rendercache.New(backend, cfg.Redis.TTL, graph.Fingerprint())
			slog.Info("render cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	var locator geoip.Locator
	if cfg.GeoIP.Path != "" {
		reader, err := geoip.Open(cfg.GeoIP.Path)
		if err != nil {
			return err
		}
		defer reader.Close()
		locator = reader
		slog.Info("geoip enabled", "path", cfg.GeoIP.Path)
	}

	api, err := httpapi.NewServer(httpapi.Deps{
		Service:    svc,
		Compositor: compositor.New(compositor.WithLogger(slog.Default())),
		Cache:      cache,
		Locator:    locator,
		Render:     cfg.Render,
	})
	if err != nil {
		return fmt.Errorf("creating api: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      api.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		slog.Info("http server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
