package history

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidCursor is returned by List for a cursor it did not issue.
var ErrInvalidCursor = errors.New("invalid cursor")

// Store reads and writes the name_history table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const historyColumns = `id, timestamp, request_id, scope, category, resource_type,
	pattern, pattern_source, name, valid, truncated, errors`

// BatchInsert writes entries with a single multi-row INSERT. It is a no-op
// for an empty slice.
func (s *Store) BatchInsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	const cols = 11
	args := make([]any, 0, len(entries)*cols)
	rows := make([]string, 0, len(entries))

	for i, e := range entries {
		ph := make([]string, cols)
		for j := range ph {
			ph[j] = "$" + strconv.Itoa(i*cols+j+1)
		}
		rows = append(rows, "("+strings.Join(ph, ", ")+")")

		errs := e.Errors
		if errs == nil {
			errs = []string{}
		}
		args = append(args,
			e.Timestamp,
			e.RequestID,
			e.Scope,
			e.Category,
			e.ResourceType,
			e.Pattern,
			e.PatternSource,
			e.Name,
			e.Valid,
			e.Truncated,
			errs,
		)
	}

	query := `INSERT INTO name_history
		(timestamp, request_id, scope, category, resource_type,
		 pattern, pattern_source, name, valid, truncated, errors)
		VALUES ` + strings.Join(rows, ", ")

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("batch inserting history: %w", err)
	}
	return nil
}

// List returns a page of entries ordered newest first, and the cursor for
// the next page (empty when there are no more).
func (s *Store) List(ctx context.Context, q Query) ([]*Entry, string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	where, args := buildWhereClause(q)

	if q.Cursor != "" {
		ts, id, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		where += fmt.Sprintf(" (timestamp, id) < ($%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, ts, id)
	}

	query := `SELECT ` + historyColumns + ` FROM name_history` + where +
		` ORDER BY timestamp DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit+1)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.RequestID, &e.Scope, &e.Category, &e.ResourceType,
			&e.Pattern, &e.PatternSource, &e.Name, &e.Valid, &e.Truncated, &e.Errors,
		); err != nil {
			return nil, "", fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterating history rows: %w", err)
	}

	var next string
	if len(entries) > limit {
		last := entries[limit-1]
		next = encodeCursor(last.Timestamp, last.ID)
		entries = entries[:limit]
	}
	return entries, next, nil
}

// Summary counts entries matching q. Cursor and Limit are ignored.
func (s *Store) Summary(ctx context.Context, q Query) (*Summary, error) {
	where, args := buildWhereClause(q)

	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN valid THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN NOT valid THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN truncated THEN 1 ELSE 0 END), 0)
	FROM name_history` + where

	var sum Summary
	if err := s.pool.QueryRow(ctx, query, args...).Scan(
		&sum.Total, &sum.Valid, &sum.Invalid, &sum.Truncated,
	); err != nil {
		return nil, fmt.Errorf("querying history summary: %w", err)
	}
	return &sum, nil
}

// buildWhereClause returns " WHERE ..." (or "") and its positional args.
func buildWhereClause(q Query) (string, []any) {
	var conditions []string
	var args []any

	if q.ResourceType != "" {
		args = append(args, q.ResourceType)
		conditions = append(conditions, fmt.Sprintf("resource_type = $%d", len(args)))
	}
	if q.Scope != "" {
		args = append(args, q.Scope)
		conditions = append(conditions, fmt.Sprintf("scope = $%d", len(args)))
	}
	if q.Name != "" {
		args = append(args, "%"+likeEscaper.Replace(q.Name)+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if !q.From.IsZero() {
		args = append(args, q.From)
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if !q.To.IsZero() {
		args = append(args, q.To)
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// likeEscaper escapes LIKE wildcards using postgres' default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func encodeCursor(ts time.Time, id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(ts.Format(time.RFC3339Nano) + "|" + id))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("decoding cursor: %w", err)
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("parsing cursor timestamp: %w", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		return time.Time{}, "", fmt.Errorf("parsing cursor id: %w", err)
	}
	return t, id, nil
}
