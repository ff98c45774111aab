package pattern

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alecgard/namegen/internal/naming"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps patterns in the naming_patterns table.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a PGStore backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const patternColumns = `scope, pattern, source, updated_at`

func scanPattern(row pgx.Row) (*Pattern, error) {
	var p Pattern
	var source string
	if err := row.Scan(&p.Scope, &p.Pattern, &source, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Source = naming.PatternSource(source)
	return &p, nil
}

// Get returns the pattern saved for scope.
func (s *PGStore) Get(ctx context.Context, scope string) (*Pattern, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+patternColumns+` FROM naming_patterns WHERE scope = $1`, scope)
	return scanPattern(row)
}

// Put inserts or replaces the pattern for p.Scope.
func (s *PGStore) Put(ctx context.Context, p Pattern) (*Pattern, error) {
	row := s.pool.QueryRow(ctx, `INSERT INTO naming_patterns (scope, pattern, source, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope) DO UPDATE
		SET pattern = EXCLUDED.pattern, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at
		RETURNING `+patternColumns,
		p.Scope, p.Pattern, string(p.Source), time.Now().UTC())
	saved, err := scanPattern(row)
	if err != nil {
		return nil, fmt.Errorf("saving pattern: %w", err)
	}
	return saved, nil
}

// Delete removes the pattern for scope.
func (s *PGStore) Delete(ctx context.Context, scope string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM naming_patterns WHERE scope = $1`, scope)
	if err != nil {
		return fmt.Errorf("deleting pattern: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all saved patterns ordered by scope.
func (s *PGStore) List(ctx context.Context) ([]*Pattern, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+patternColumns+` FROM naming_patterns ORDER BY scope`)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	defer rows.Close()

	var out []*Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pattern: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patterns: %w", err)
	}
	return out, nil
}

// MemoryStore keeps patterns in process memory. It is used when no
// database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	patterns map[string]Pattern
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{patterns: map[string]Pattern{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, scope string) (*Pattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patterns[scope]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) Put(_ context.Context, p Pattern) (*Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.UpdatedAt = m.now().UTC()
	m.patterns[p.Scope] = p
	return &p, nil
}

func (m *MemoryStore) Delete(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patterns[scope]; !ok {
		return ErrNotFound
	}
	delete(m.patterns, scope)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]*Pattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Pattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out, nil
}
