package api

import (
	"log/slog"
	"net/http"

	"github.com/alecgard/namegen/internal/auth"
	"github.com/alecgard/namegen/internal/ratelimit"
)

// auditLog emits a structured audit log entry for an admin action.
func auditLog(r *http.Request, action, resourceType, resourceID string, detail ...any) {
	attrs := []any{
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"ip", ratelimit.ClientIP(r),
		"request_id", RequestIDFromContext(r.Context()),
		"admin", auth.IsAdmin(r.Context()),
	}
	attrs = append(attrs, detail...)
	slog.Info("audit", attrs...)
}
