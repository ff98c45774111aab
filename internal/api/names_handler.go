package api

import (
	"net/http"

	"github.com/alecgard/namegen/internal/names"
)

type namesHandler struct {
	service *names.Service
}

func newNamesHandler(svc *names.Service) *namesHandler {
	return &namesHandler{service: svc}
}

// Generate handles POST /api/v1/names/generate. A request without a
// resource type is answered with generated=false rather than an error.
func (h *namesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input names.GenerateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	out, err := h.service.Generate(r.Context(), input, RequestIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err, "failed to generate name")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Validate handles POST /api/v1/names/validate.
func (h *namesHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var input names.ValidateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	v, err := h.service.Validate(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to validate name")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
