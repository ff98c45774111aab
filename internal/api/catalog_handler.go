package api

import (
	"net/http"
	"net/url"

	"github.com/alecgard/namegen/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type catalogHandler struct {
	catalog *catalog.Catalog
}

func newCatalogHandler(c *catalog.Catalog) *catalogHandler {
	return &catalogHandler{catalog: c}
}

// categorySummary is the list view of a category.
type categorySummary struct {
	Name          string `json:"name"`
	ResourceCount int    `json:"resource_count"`
}

// ListCategories handles GET /api/v1/catalog/categories.
func (h *catalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.catalog.Categories()
	out := make([]categorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, categorySummary{Name: c.Name, ResourceCount: len(c.Resources)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// GetCategory handles GET /api/v1/catalog/categories/{category}.
func (h *catalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_category", "category is not valid")
		return
	}

	cat, err := h.catalog.Category(name)
	if err != nil {
		writeDomainError(w, err, "failed to load category")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// ListEnvironments handles GET /api/v1/catalog/environments.
func (h *catalogHandler) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"environments": h.catalog.Environments()})
}

// ListRegions handles GET /api/v1/catalog/regions.
func (h *catalogHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"regions": h.catalog.Regions()})
}
