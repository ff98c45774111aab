package api

import (
	"net/http"

	"github.com/alecgard/namegen/internal/naming"
)

type manifest struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Version        string            `json:"version"`
	APIBase        string            `json:"api_base"`
	Auth           manifestAuth      `json:"auth"`
	Endpoints      map[string]string `json:"endpoints"`
	Placeholders   []string          `json:"placeholders"`
	DefaultPattern string            `json:"default_pattern"`
	Health         string            `json:"health"`
}

type manifestAuth struct {
	Type   string `json:"type"`
	Header string `json:"header"`
	Scope  string `json:"scope"`
}

// Version is reported by the well-known manifest. The binary overrides it.
var Version = "0.1.0"

// WellKnownHandler serves /.well-known/namegen.json.
func WellKnownHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, manifest{
		Name:        "namegen",
		Description: "Cloud resource name generator",
		Version:     Version,
		APIBase:     "/api/v1",
		Auth: manifestAuth{
			Type:   "bearer",
			Header: "Authorization",
			Scope:  "/api/v1/admin",
		},
		Endpoints: map[string]string{
			"categories":   "/api/v1/catalog/categories",
			"environments": "/api/v1/catalog/environments",
			"regions":      "/api/v1/catalog/regions",
			"generate":     "/api/v1/names/generate",
			"validate":     "/api/v1/names/validate",
			"patterns":     "/api/v1/patterns/{scope}",
		},
		Placeholders:   naming.Keys,
		DefaultPattern: naming.DefaultPattern,
		Health:         "/health",
	})
}
