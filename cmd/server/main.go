package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/labplot/internal/config"
	"github.com/JonMunkholm/labplot/internal/core"
	"github.com/JonMunkholm/labplot/internal/export"
	"github.com/JonMunkholm/labplot/internal/history"
	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/logging"
	"github.com/JonMunkholm/labplot/internal/plot"
	"github.com/JonMunkholm/labplot/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if cfg.Profiles.File != "" {
		n, err := ingest.LoadProfiles(cfg.Profiles.File)
		if err != nil {
			return err
		}
		slog.Info("instrument profiles loaded", "file", cfg.Profiles.File, "count", n)
	}
	slog.Info("workflows registered",
		"workflows", len(core.Workflows()),
		"profiles", len(ingest.Profiles()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []core.Option
	var hist web.HistoryReader
	if cfg.History.Enabled() {
		store, err := history.Open(ctx, cfg.History.URL, history.Options{
			MaxConns:        cfg.History.MaxConns,
			MinConns:        cfg.History.MinConns,
			MaxConnIdleTime: cfg.History.MaxConnIdleTime,
		})
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, core.WithRecorder(store))
		hist = store
		slog.Info("run history enabled")
	}

	limiter := core.NewSessionLimiter(cfg.Render.MaxWait)
	opts = append(opts, core.WithLimiter(limiter))

	service := core.NewService(
		plot.NewChartHost(cfg.Render.Width, cfg.Render.Height),
		export.New(cfg.Export.Dir, cfg.Export.ProjectFile),
		opts...,
	)
	server := web.NewServer(service, cfg, hist)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let the running measurement finish before closing connections
		if limiter.Busy() {
			slog.Info("waiting for the running measurement to complete")
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("measurement did not complete in time", "error", err)
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
