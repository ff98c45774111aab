package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alecgard/namegen/internal/auth"
	"github.com/alecgard/namegen/internal/metrics"
	"github.com/alecgard/namegen/internal/names"
	"github.com/alecgard/namegen/internal/pattern"
	"github.com/alecgard/namegen/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps holds all dependencies for the API router. Names and Patterns
// are required; the rest are optional.
type RouterDeps struct {
	Names          *names.Service
	Patterns       *pattern.Service
	History        HistoryReader
	Metrics        *metrics.Metrics
	Limiter        *ratelimit.Limiter
	DBPool         Pinger
	AdminKeyHash   string
	AllowedOrigins []string
	// TrustProxy takes the client address from X-Real-IP/X-Forwarded-For.
	// Enable only behind a proxy that sets those headers.
	TrustProxy bool
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	cat := deps.Names.Catalog()
	catalogH := newCatalogHandler(cat)
	namesH := newNamesHandler(deps.Names)
	var patternObs PatternObserver
	if deps.Metrics != nil {
		patternObs = deps.Metrics
	}
	patternsH := newPatternsHandler(deps.Patterns, cat, patternObs)
	historyH := newHistoryHandler(deps.History)

	r.Get("/health", healthHandler(deps.DBPool))
	r.Get("/.well-known/namegen.json", WellKnownHandler)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Exposition())
	}

	r.Route("/api/v1", func(ar chi.Router) {
		if deps.Limiter != nil {
			var onReject []func()
			if deps.Metrics != nil {
				onReject = append(onReject, deps.Metrics.IncRateLimitRejection)
			}
			ar.Use(ratelimit.Middleware(deps.Limiter, onReject...))
		}

		ar.Get("/catalog/categories", catalogH.ListCategories)
		ar.Get("/catalog/categories/{category}", catalogH.GetCategory)
		ar.Get("/catalog/environments", catalogH.ListEnvironments)
		ar.Get("/catalog/regions", catalogH.ListRegions)

		ar.Post("/names/generate", namesH.Generate)
		ar.Post("/names/validate", namesH.Validate)

		ar.Get("/patterns/{scope}", patternsH.GetPattern)

		ar.Route("/admin", func(adm chi.Router) {
			adm.Use(auth.AdminAuthMiddleware(deps.AdminKeyHash))

			adm.Get("/patterns", patternsH.ListPatterns)
			adm.Put("/patterns/{scope}", patternsH.SetPattern)
			adm.Delete("/patterns/{scope}", patternsH.DeletePattern)
			adm.Post("/patterns/{scope}/select", patternsH.SelectResource)

			adm.Get("/history", historyH.ListHistory)
			adm.Get("/history/summary", historyH.GetSummary)

			if deps.Metrics != nil {
				adm.Get("/metrics", deps.Metrics.Handler())
			}
		})
	})

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("health check: database unreachable", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "connected"})
	}
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}
