package api

import (
	"net/http"

	"github.com/alecgard/namegen/internal/catalog"
	"github.com/alecgard/namegen/internal/pattern"
	"github.com/go-chi/chi/v5"
)

// PatternObserver counts stored pattern mutations.
type PatternObserver interface {
	IncPatternChange(action string)
}

type patternsHandler struct {
	service  *pattern.Service
	catalog  *catalog.Catalog
	observer PatternObserver
}

func newPatternsHandler(svc *pattern.Service, cat *catalog.Catalog, obs PatternObserver) *patternsHandler {
	return &patternsHandler{service: svc, catalog: cat, observer: obs}
}

func (h *patternsHandler) changed(action string) {
	if h.observer != nil {
		h.observer.IncPatternChange(action)
	}
}

// GetPattern handles GET /api/v1/patterns/{scope}.
func (h *patternsHandler) GetPattern(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "scope"))
	if err != nil {
		writeDomainError(w, err, "failed to load pattern")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListPatterns handles GET /api/v1/admin/patterns.
func (h *patternsHandler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to list patterns")
		return
	}
	if list == nil {
		list = []*pattern.Pattern{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": list})
}

type setPatternInput struct {
	Pattern string `json:"pattern"`
}

// SetPattern handles PUT /api/v1/admin/patterns/{scope}.
func (h *patternsHandler) SetPattern(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")

	var input setPatternInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	p, err := h.service.Set(r.Context(), scope, input.Pattern)
	if err != nil {
		writeDomainError(w, err, "failed to save pattern")
		return
	}

	auditLog(r, "set", "pattern", scope, "pattern", p.Pattern)
	h.changed("set")
	writeJSON(w, http.StatusOK, p)
}

type selectResourceInput struct {
	Category     string `json:"category"`
	ResourceType string `json:"resource_type"`
}

// SelectResource handles POST /api/v1/admin/patterns/{scope}/select. The
// scope's pattern is replaced by the resource's recommended pattern.
func (h *patternsHandler) SelectResource(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")

	var input selectResourceInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if input.ResourceType == "" {
		writeError(w, http.StatusBadRequest, "invalid_resource", "resource_type is required")
		return
	}

	res, err := h.catalog.Lookup(input.Category, input.ResourceType)
	if err != nil {
		writeDomainError(w, err, "failed to look up resource")
		return
	}

	p, err := h.service.Select(r.Context(), scope, res)
	if err != nil {
		writeDomainError(w, err, "failed to save pattern")
		return
	}

	auditLog(r, "select", "pattern", scope, "resource", res.Abbreviation, "pattern", p.Pattern)
	h.changed("select")
	writeJSON(w, http.StatusOK, p)
}

// DeletePattern handles DELETE /api/v1/admin/patterns/{scope}.
func (h *patternsHandler) DeletePattern(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")

	if err := h.service.Delete(r.Context(), scope); err != nil {
		writeDomainError(w, err, "failed to delete pattern")
		return
	}

	auditLog(r, "delete", "pattern", scope)
	h.changed("delete")
	w.WriteHeader(http.StatusNoContent)
}
