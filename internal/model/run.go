package model

import "time"

// RunStatus represents the current state of a batch classification run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run represents one batch classification pass over a query source.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Status    RunStatus `json:"status"`
	Stats     *RunStats `json:"stats,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunStats aggregates the outcome of a run. Unclassified is expected,
// common business data, not a failure count.
type RunStats struct {
	Total        int            `json:"total"`
	Classified   int            `json:"classified"`
	Unclassified int            `json:"unclassified"`
	ByMatchType  map[string]int `json:"by_match_type,omitempty"`
	ByIntent     map[string]int `json:"by_intent,omitempty"`
	ByCategory   map[string]int `json:"by_category,omitempty"`
}

// UnclassifiedQuery is a query no matcher stage could resolve, queued for
// the learning engine. Deduplicated by query text; SeenCount tracks repeats.
type UnclassifiedQuery struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	SeenCount int       `json:"seen_count"`
	Learned   bool      `json:"learned"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}
