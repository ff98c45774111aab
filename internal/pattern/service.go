// Package pattern stores the user-editable naming pattern for a scope and
// decides which pattern a generation uses.
package pattern

import (
	"context"
	"errors"
	"regexp"

	"github.com/alecgard/namegen/internal/naming"
)

// Errors returned by the Service and stores.
var (
	ErrNotFound     = errors.New("pattern not found")
	ErrInvalidScope = errors.New("scope must be 1-64 characters of letters, numbers, '.', '_' or '-' and start with a letter or number")
)

var scopePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

// Service validates input and applies pattern precedence over a Store.
type Service struct {
	store Store
}

// NewService creates a Service wrapping the given Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ValidScope reports whether scope can be used as a key.
func ValidScope(scope string) bool {
	return scopePattern.MatchString(scope)
}

// Get returns the pattern saved for scope.
func (s *Service) Get(ctx context.Context, scope string) (*Pattern, error) {
	if !ValidScope(scope) {
		return nil, ErrInvalidScope
	}
	return s.store.Get(ctx, scope)
}

// List returns all saved patterns.
func (s *Service) List(ctx context.Context) ([]*Pattern, error) {
	return s.store.List(ctx)
}

// Set saves a user-supplied pattern for scope.
func (s *Service) Set(ctx context.Context, scope, pattern string) (*Pattern, error) {
	if !ValidScope(scope) {
		return nil, ErrInvalidScope
	}
	if err := naming.CheckPattern(pattern); err != nil {
		return nil, err
	}
	return s.store.Put(ctx, Pattern{Scope: scope, Pattern: pattern, Source: naming.SourceCustom})
}

// Select records that res was chosen for scope: the saved pattern is
// replaced by the resource's recommended pattern, discarding any
// customization.
func (s *Service) Select(ctx context.Context, scope string, res *naming.Resource) (*Pattern, error) {
	if !ValidScope(scope) {
		return nil, ErrInvalidScope
	}
	p, src := naming.SelectPattern("", res)
	return s.store.Put(ctx, Pattern{Scope: scope, Pattern: p, Source: src})
}

// Delete removes the pattern saved for scope.
func (s *Service) Delete(ctx context.Context, scope string) error {
	if !ValidScope(scope) {
		return ErrInvalidScope
	}
	return s.store.Delete(ctx, scope)
}

// Resolve picks the pattern for a generation. An explicit pattern wins, then
// the pattern saved for scope, then the resource's recommended pattern, then
// the default. An empty scope skips the store.
func (s *Service) Resolve(ctx context.Context, scope, explicit string, res *naming.Resource) (string, naming.PatternSource, error) {
	if explicit != "" {
		if err := naming.CheckPattern(explicit); err != nil {
			return "", "", err
		}
		return explicit, naming.SourceCustom, nil
	}
	if scope != "" {
		saved, err := s.Get(ctx, scope)
		switch {
		case err == nil:
			return saved.Pattern, naming.SourceStored, nil
		case !errors.Is(err, ErrNotFound):
			return "", "", err
		}
	}
	p, src := naming.SelectPattern("", res)
	return p, src, nil
}
