package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alecgard/namegen/internal/catalog"
	"github.com/alecgard/namegen/internal/naming"
	"github.com/alecgard/namegen/internal/pattern"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// errorEnvelope is the standard error response shape.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit. An
// empty body leaves v untouched.
func readJSON(r *http.Request, v any) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	if err := json.NewDecoder(lr).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeDomainError maps errors from the catalog, pattern and naming
// packages onto HTTP responses. fallback is the message for anything
// unrecognised.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "category_not_found", err.Error())
	case errors.Is(err, catalog.ErrResourceNotFound):
		writeError(w, http.StatusNotFound, "resource_not_found", err.Error())
	case errors.Is(err, pattern.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, pattern.ErrInvalidScope):
		writeError(w, http.StatusBadRequest, "invalid_scope", err.Error())
	case errors.Is(err, naming.ErrPatternEmpty),
		errors.Is(err, naming.ErrPatternTooLong),
		errors.Is(err, naming.ErrUnknownPlaceholder):
		writeError(w, http.StatusUnprocessableEntity, "invalid_pattern", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}
