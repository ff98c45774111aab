package pattern

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var patternsBucket = []byte("patterns")

// BoltStore keeps patterns in a local bbolt file, for single-node and CLI
// use without PostgreSQL. Values are JSON-encoded Patterns keyed by scope.
type BoltStore struct {
	db  *bbolt.DB
	now func() time.Time
}

// OpenBoltStore opens or creates the file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening pattern file: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(patternsBucket); err != nil {
			return fmt.Errorf("failed to create patterns bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(_ context.Context, scope string) (*Pattern, error) {
	var p Pattern
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(patternsBucket).Get([]byte(scope))
		if raw == nil {
			return ErrNotFound
		}
		return json.Unmarshal(raw, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *BoltStore) Put(_ context.Context, p Pattern) (*Pattern, error) {
	p.UpdatedAt = s.now().UTC()
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding pattern: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(patternsBucket).Put([]byte(p.Scope), raw)
	})
	if err != nil {
		return nil, fmt.Errorf("storing pattern: %w", err)
	}
	return &p, nil
}

func (s *BoltStore) Delete(_ context.Context, scope string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(patternsBucket)
		if b.Get([]byte(scope)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(scope))
	})
}

// List returns patterns ordered by scope, which is bbolt's key order.
func (s *BoltStore) List(_ context.Context) ([]*Pattern, error) {
	out := []*Pattern{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(patternsBucket).ForEach(func(_, v []byte) error {
			var p Pattern
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, &p)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	return out, nil
}
