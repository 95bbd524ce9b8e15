// Package store provides persistence for batch classification runs and
// the unclassified-query queue, with SQLite and PostgreSQL backends.
package store

import (
	"context"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// UnclassifiedFilter specifies criteria for listing queued queries.
type UnclassifiedFilter struct {
	Learned *bool `json:"learned,omitempty"`
	MinSeen int   `json:"min_seen,omitempty"`
	Limit   int   `json:"limit,omitempty"`
	Offset  int   `json:"offset,omitempty"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the classification pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, stats *model.RunStats) error
	FailRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Results
	RecordResults(ctx context.Context, runID string, results []model.ClassificationResult) error

	// Unclassified queue
	RecordUnclassified(ctx context.Context, query string) error
	RecordUnclassifiedBatch(ctx context.Context, counts map[string]int) error
	ListUnclassified(ctx context.Context, filter UnclassifiedFilter) ([]model.UnclassifiedQuery, error)
	MarkLearned(ctx context.Context, queries []string) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
