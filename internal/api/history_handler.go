package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alecgard/namegen/internal/history"
)

// HistoryReader is the read side of the history store.
type HistoryReader interface {
	List(ctx context.Context, q history.Query) ([]*history.Entry, string, error)
	Summary(ctx context.Context, q history.Query) (*history.Summary, error)
}

const maxHistoryLimit = 500

type historyHandler struct {
	store HistoryReader
}

func newHistoryHandler(store HistoryReader) *historyHandler {
	return &historyHandler{store: store}
}

// parseHistoryQuery reads filters from the query string. On failure it
// writes the error response and returns false.
func parseHistoryQuery(w http.ResponseWriter, r *http.Request) (history.Query, bool) {
	qs := r.URL.Query()
	q := history.Query{
		ResourceType: qs.Get("resource_type"),
		Scope:        qs.Get("scope"),
		Name:         qs.Get("name"),
		Cursor:       qs.Get("cursor"),
	}

	for _, f := range []struct {
		param string
		dst   *time.Time
	}{{"from", &q.From}, {"to", &q.To}} {
		v := qs.Get(f.param)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_"+f.param, f.param+" must be an RFC 3339 timestamp")
			return q, false
		}
		*f.dst = t
	}

	if v := qs.Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return q, false
		}
		if l > maxHistoryLimit {
			l = maxHistoryLimit
		}
		q.Limit = l
	}
	return q, true
}

func (h *historyHandler) available(w http.ResponseWriter) bool {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "history_disabled", "name history requires a database")
		return false
	}
	return true
}

// ListHistory handles GET /api/v1/admin/history.
func (h *historyHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	q, ok := parseHistoryQuery(w, r)
	if !ok {
		return
	}

	entries, next, err := h.store.List(r.Context(), q)
	if err != nil {
		if errors.Is(err, history.ErrInvalidCursor) {
			writeError(w, http.StatusBadRequest, "invalid_cursor", "cursor is not valid")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list history")
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries":     entries,
		"next_cursor": next,
	})
}

// GetSummary handles GET /api/v1/admin/history/summary.
func (h *historyHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	q, ok := parseHistoryQuery(w, r)
	if !ok {
		return
	}

	sum, err := h.store.Summary(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to summarize history")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
