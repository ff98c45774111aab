package history

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockStore records all batches that were inserted.
type mockStore struct {
	mu      sync.Mutex
	batches [][]Entry
	err     error
}

func (m *mockStore) BatchInsert(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	m.batches = append(m.batches, cp)
	return nil
}

func (m *mockStore) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func sampleEntry(name string) Entry {
	return Entry{
		ResourceType:  "st",
		Pattern:       "{resource_type}{workload}",
		PatternSource: "resource",
		Name:          name,
		Valid:         true,
	}
}

func TestCollector_BuffersUntilBatchSize(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		records   int
		want      int
	}{
		{"under batch size", 5, 3, 0},
		{"exact batch size", 3, 3, 3},
		{"two batches", 2, 4, 4},
		{"one full batch and remainder", 2, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockStore{}
			c := NewCollector(ms, tt.batchSize, time.Hour)
			for i := 0; i < tt.records; i++ {
				c.Record(sampleEntry("stapp"))
			}
			if got := ms.total(); got != tt.want {
				t.Errorf("flushed %d entries, want %d", got, tt.want)
			}
		})
	}
}

func TestCollector_SetsTimestamp(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 1, time.Hour)
	c.Record(sampleEntry("stapp"))

	if ms.total() != 1 {
		t.Fatal("expected immediate flush")
	}
	if ms.batches[0][0].Timestamp.IsZero() {
		t.Error("expected timestamp to be filled in")
	}
}

func TestCollector_StopFlushesRemainder(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour)

	finished := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(finished)
	}()

	c.Record(sampleEntry("a"))
	c.Record(sampleEntry("b"))
	c.Stop()
	c.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	if got := ms.total(); got != 2 {
		t.Fatalf("expected 2 entries after Stop, got %d", got)
	}
}

func TestCollector_TimerFlush(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx)

	c.Record(sampleEntry("a"))

	deadline := time.Now().Add(2 * time.Second)
	for ms.total() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if ms.total() != 1 {
		t.Fatalf("expected timer flush, got %d entries", ms.total())
	}
}

func TestCollector_OnFlushReportsErrors(t *testing.T) {
	boom := errors.New("db down")
	ms := &mockStore{err: boom}
	c := NewCollector(ms, 1, time.Hour)

	var gotCount int
	var gotErr error
	c.OnFlush(func(count int, err error) {
		gotCount, gotErr = count, err
	})
	c.Record(sampleEntry("a"))

	if gotCount != 1 || !errors.Is(gotErr, boom) {
		t.Errorf("OnFlush got (%d, %v)", gotCount, gotErr)
	}
}

func TestCollector_ConcurrentRecords(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 7, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(sampleEntry("a"))
		}()
	}
	wg.Wait()
	c.Flush()

	if got := ms.total(); got != 50 {
		t.Fatalf("expected 50 entries, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 89, time.UTC)
	id := "3f0c1a52-7d1e-4c55-9a7e-0f1d2e3c4b5a"

	gotTS, gotID, err := decodeCursor(encodeCursor(ts, id))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotTS.Equal(ts) || gotID != id {
		t.Errorf("got (%v, %q), want (%v, %q)", gotTS, gotID, ts, id)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	badID := encodeCursor(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "not-a-uuid")
	for _, c := range []string{"not base64!!", "bm9waXBl", "bm90LWEtdGltZXxpZA", badID} {
		if _, _, err := decodeCursor(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestBuildWhereClause(t *testing.T) {
	where, args := buildWhereClause(Query{})
	if where != "" || len(args) != 0 {
		t.Errorf("expected empty clause, got %q %v", where, args)
	}

	where, args = buildWhereClause(Query{
		ResourceType: "st",
		Scope:        "team-a",
		Name:         "prod",
		From:         time.Unix(0, 0),
	})
	for _, want := range []string{"resource_type = $1", "scope = $2", "name ILIKE $3", "timestamp >= $4"} {
		if !strings.Contains(where, want) {
			t.Errorf("clause %q missing %q", where, want)
		}
	}
	if len(args) != 4 || args[2] != "%prod%" {
		t.Errorf("unexpected args %v", args)
	}

	_, args = buildWhereClause(Query{Name: `50%_off\x`})
	if len(args) != 1 || args[0] != `%50\%\_off\\x%` {
		t.Errorf("wildcards not escaped: %v", args)
	}
}

func TestListRejectsCursorWithBadID(t *testing.T) {
	s := NewStore(nil)
	cursor := encodeCursor(time.Now().UTC(), "42; DROP TABLE name_history")

	_, _, err := s.List(context.Background(), Query{Cursor: cursor})
	if !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}
