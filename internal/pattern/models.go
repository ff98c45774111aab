package pattern

import (
	"context"
	"time"

	"github.com/alecgard/namegen/internal/naming"
)

// Pattern is the current naming pattern saved for a scope.
type Pattern struct {
	Scope     string               `json:"scope"`
	Pattern   string               `json:"pattern"`
	Source    naming.PatternSource `json:"source"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Store persists one pattern per scope.
type Store interface {
	Get(ctx context.Context, scope string) (*Pattern, error)
	Put(ctx context.Context, p Pattern) (*Pattern, error)
	Delete(ctx context.Context, scope string) error
	List(ctx context.Context) ([]*Pattern, error)
}
