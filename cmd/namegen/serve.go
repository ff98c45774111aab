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

	"github.com/alecgard/namegen/internal/api"
	"github.com/alecgard/namegen/internal/config"
	"github.com/alecgard/namegen/internal/history"
	"github.com/alecgard/namegen/internal/metrics"
	"github.com/alecgard/namegen/internal/names"
	"github.com/alecgard/namegen/internal/pattern"
	"github.com/alecgard/namegen/internal/ratelimit"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the namegen HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply database migrations before starting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()

	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		if serveMigrate {
			if err := applyMigrations(cfg); err != nil {
				return err
			}
		}
		pool, err = connectDB(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		m.RegisterDBPoolCollector(func() (int32, int32, int32) {
			s := pool.Stat()
			return s.TotalConns(), s.IdleConns(), s.AcquiredConns()
		})
	}

	store, closeStore, err := openPatternStore(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer closeStore()
	patterns := pattern.NewService(store)
	slog.Info("pattern store ready", "backend", cfg.PatternBackend())

	opts := []names.Option{names.WithObserver(m)}
	deps := api.RouterDeps{
		Patterns:       patterns,
		Metrics:        m,
		AdminKeyHash:   cfg.Auth.AdminKeyHash,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustProxy:     cfg.RateLimit.TrustProxy,
	}
	if pool != nil {
		deps.DBPool = pool
	}

	var collector *history.Collector
	collectorDone := make(chan struct{})
	if cfg.HistoryEnabled() {
		historyStore := history.NewStore(pool)
		collector = history.NewCollector(historyStore, cfg.History.BatchSize, cfg.History.FlushInterval)
		collector.OnFlush(m.ObserveHistoryFlush)
		go func() {
			collector.Start(ctx)
			close(collectorDone)
		}()

		opts = append(opts, names.WithRecorder(collector))
		deps.History = historyStore
	} else {
		slog.Info("name history disabled")
	}
	deps.Names = names.NewService(cat, patterns, opts...)

	if cfg.RateLimit.Default > 0 {
		limiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)
		go ratelimit.RunSweeper(ctx, limiter, cfg.RateLimit.Window)
		deps.Limiter = limiter
	}

	if cfg.Auth.AdminKeyHash == "" {
		slog.Warn("no admin key hash configured; admin api is disabled")
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		slog.Info("shutting down")
	case err := <-errCh:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err = srv.Shutdown(shutdownCtx)

	// Flush buffered history after the last request has finished.
	if collector != nil {
		collector.Stop()
		<-collectorDone
	}
	return err
}

func applyMigrations(cfg *config.Config) error {
	mg, err := newMigrateFor(cfg)
	if err != nil {
		return err
	}
	defer mg.Close()
	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	slog.Info("migrations applied")
	return nil
}
