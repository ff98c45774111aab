package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecgard/namegen/internal/catalog"
	"github.com/alecgard/namegen/internal/config"
	"github.com/alecgard/namegen/internal/pattern"
	"github.com/jackc/pgx/v5/pgxpool"
)

// loadConfig reads the config and installs the default logger writing to w.
func loadConfig(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(cfg, w))
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	source := cfg.Catalog.Path
	if source == "" {
		source = "built-in"
	}
	slog.Debug("catalog loaded", "source", source, "categories", len(cat.Categories()))
	return cat, nil
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("connected to database")
	return pool, nil
}

// openPatternStore returns the store selected by cfg and a function that
// releases it. pool may be nil; when set it is reused for the postgres
// backend.
func openPatternStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (pattern.Store, func(), error) {
	switch cfg.PatternBackend() {
	case "postgres":
		if pool != nil {
			return pattern.NewPGStore(pool), func() {}, nil
		}
		p, err := connectDB(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return pattern.NewPGStore(p), p.Close, nil
	case "bolt":
		s, err := pattern.OpenBoltStore(cfg.Patterns.File)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return pattern.NewMemoryStore(), func() {}, nil
	}
}
