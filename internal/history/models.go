package history

import "time"

// Entry records one name generation.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	RequestID     string    `json:"request_id"`
	Scope         string    `json:"scope"`
	Category      string    `json:"category"`
	ResourceType  string    `json:"resource_type"`
	Pattern       string    `json:"pattern"`
	PatternSource string    `json:"pattern_source"`
	Name          string    `json:"name"`
	Valid         bool      `json:"valid"`
	Truncated     bool      `json:"truncated"`
	Errors        []string  `json:"errors"`
}

// Summary aggregates entries matching a Query.
type Summary struct {
	Total     int64 `json:"total"`
	Valid     int64 `json:"valid"`
	Invalid   int64 `json:"invalid"`
	Truncated int64 `json:"truncated"`
}

// Query filters and paginates history.
type Query struct {
	ResourceType string    `json:"resource_type,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	Name         string    `json:"name,omitempty"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	Cursor       string    `json:"cursor,omitempty"`
	Limit        int       `json:"limit"`
}

// Recorder accepts entries for persistence.
type Recorder interface {
	Record(e Entry)
}

// Nop discards entries. It is used when history is disabled.
type Nop struct{}

func (Nop) Record(Entry) {}
