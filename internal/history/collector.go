// Package history keeps an audit log of generated names.
package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BatchInserter persists a batch of entries.
type BatchInserter interface {
	BatchInsert(ctx context.Context, entries []Entry) error
}

// Collector buffers entries and writes them in batches, either when the
// buffer reaches batchSize or every flushInterval. It is safe for concurrent
// use.
type Collector struct {
	store         BatchInserter
	batchSize     int
	flushInterval time.Duration
	onFlush       func(count int, err error)

	mu     sync.Mutex
	buffer []Entry

	done     chan struct{}
	stopOnce sync.Once
}

// NewCollector creates a Collector writing to store.
func NewCollector(store BatchInserter, batchSize int, flushInterval time.Duration) *Collector {
	return &Collector{
		store:         store,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		buffer:        make([]Entry, 0, batchSize),
		done:          make(chan struct{}),
	}
}

// OnFlush registers a callback invoked after every flush attempt.
func (c *Collector) OnFlush(fn func(count int, err error)) {
	c.onFlush = fn
}

// Start flushes on a timer until Stop is called or ctx is cancelled. A final
// flush runs before it returns.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Flush()
		case <-ctx.Done():
			c.Flush()
			return
		case <-c.done:
			c.Flush()
			return
		}
	}
}

// Record buffers e, flushing immediately once the batch is full.
func (c *Collector) Record(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	c.mu.Lock()
	c.buffer = append(c.buffer, e)
	full := len(c.buffer) >= c.batchSize
	c.mu.Unlock()

	if full {
		c.Flush()
	}
}

// Flush writes all buffered entries. Errors are logged, not returned, so
// callers on the request path are never blocked by the store.
func (c *Collector) Flush() {
	c.mu.Lock()
	if len(c.buffer) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.buffer
	c.buffer = make([]Entry, 0, c.batchSize)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := c.store.BatchInsert(ctx, batch)
	if err != nil {
		slog.Error("failed to flush name history", "count", len(batch), "error", err)
	}
	if c.onFlush != nil {
		c.onFlush(len(batch), err)
	}
}

// Stop ends Start. It is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}
