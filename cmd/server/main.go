package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "supplyrisk/internal/adapters/http"
	"supplyrisk/internal/adapters/memory"
	pg "supplyrisk/internal/adapters/postgres"
	ratingadapter "supplyrisk/internal/adapters/ratings"
	"supplyrisk/internal/config"
	"supplyrisk/internal/logging"
	"supplyrisk/internal/ports"
	"supplyrisk/internal/seed"
	"supplyrisk/internal/services/catalog"
	ratingsvc "supplyrisk/internal/services/ratings"
	suppliersvc "supplyrisk/internal/services/suppliers"
	"supplyrisk/internal/workers/ratingrefresh"
)

func main() {
	cfg, err := config.Load()
	logging.Init(os.Stderr, cfg.LogLevel)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo ports.SupplierRepository
	if cfg.DatabaseURL != "" {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			slog.Error("db migrate", "err", err)
			os.Exit(1)
		}
		repo = db
		slog.Info("using postgres store")
	} else {
		repo = memory.New()
		slog.Info("using in-memory store")
	}

	var provider ports.RatingProvider
	if cfg.RatingProviderURL != "" {
		provider = ratingadapter.NewClient(cfg.RatingProviderURL, cfg.RatingProviderToken)
		slog.Info("rating provider", "url", cfg.RatingProviderURL)
	} else {
		provider = ratingadapter.NewMock(ratingadapter.MockConfig{
			MinLatency:  cfg.MockMinLatency,
			MaxLatency:  cfg.MockMaxLatency,
			FailureRate: cfg.MockFailureRate,
		})
		slog.Info("rating provider", "mock", true, "failure_rate", cfg.MockFailureRate)
	}

	suppliers := suppliersvc.New(repo)
	ratings := ratingsvc.New(suppliers, provider)

	if cfg.SeedDemo {
		if err := seed.Demo(ctx, suppliers); err != nil {
			slog.Error("seed demo data", "err", err)
			os.Exit(1)
		}
		slog.Info("demo data loaded")
	}

	if cfg.RatingWorkers > 0 {
		go ratingrefresh.Run(ctx, repo, ratings, cfg.RatingWorkers, cfg.RatingRefreshInterval, cfg.RatingMaxAge)
		slog.Info("rating refresh started", "workers", cfg.RatingWorkers, "interval", cfg.RatingRefreshInterval)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpadapter.New(suppliers, ratings, catalog.New()).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "err", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}
