package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/taxonomy-cli/internal/engine"
	"github.com/sells-group/taxonomy-cli/internal/model"
	"github.com/sells-group/taxonomy-cli/internal/store"
)

// Runner executes batch classification runs. A nil store disables
// persistence; the run and its stats are still returned.
type Runner struct {
	engine  *engine.Engine
	store   store.Store
	workers int
}

// NewRunner creates a Runner with the given worker count.
func NewRunner(eng *engine.Engine, st store.Store, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{engine: eng, store: st, workers: workers}
}

// Report is the outcome of a batch run, including the per-query results
// for callers that want to export them.
type Report struct {
	Run          *model.Run
	Results      []model.ClassificationResult
	Unclassified []string
}

// Run classifies all queries concurrently, records results and the
// unclassified queue, and completes the run with aggregated stats.
func (r *Runner) Run(ctx context.Context, source string, queries []string) (*Report, error) {
	run, err := r.createRun(ctx, source)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var mu sync.Mutex
	results := make([]model.ClassificationResult, 0, len(queries))
	unclassifiedCounts := make(map[string]int)

	for _, query := range queries {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			res := r.engine.Classify(query)

			mu.Lock()
			if res != nil {
				results = append(results, *res)
			} else {
				unclassifiedCounts[query]++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.failRun(ctx, run)
		return nil, eris.Wrap(err, "pipeline: classify batch")
	}

	stats := aggregate(len(queries), results)

	if r.store != nil {
		if err := r.store.RecordResults(ctx, run.ID, results); err != nil {
			r.failRun(ctx, run)
			return nil, err
		}
		if err := r.store.RecordUnclassifiedBatch(ctx, unclassifiedCounts); err != nil {
			r.failRun(ctx, run)
			return nil, err
		}
		if err := r.store.CompleteRun(ctx, run.ID, stats); err != nil {
			return nil, err
		}
	}

	run.Status = model.RunStatusComplete
	run.Stats = stats

	zap.L().Info("batch run complete",
		zap.String("run_id", run.ID),
		zap.String("source", source),
		zap.Int("total", stats.Total),
		zap.Int("classified", stats.Classified),
		zap.Int("unclassified", stats.Unclassified),
	)

	unclassified := make([]string, 0, len(unclassifiedCounts))
	for q := range unclassifiedCounts {
		unclassified = append(unclassified, q)
	}

	return &Report{Run: run, Results: results, Unclassified: unclassified}, nil
}

func (r *Runner) createRun(ctx context.Context, source string) (*model.Run, error) {
	if r.store == nil {
		return &model.Run{ID: "local", Source: source, Status: model.RunStatusRunning}, nil
	}
	return r.store.CreateRun(ctx, source)
}

func (r *Runner) failRun(ctx context.Context, run *model.Run) {
	if r.store == nil {
		return
	}
	if err := r.store.FailRun(ctx, run.ID); err != nil {
		zap.L().Warn("pipeline: mark run failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func aggregate(total int, results []model.ClassificationResult) *model.RunStats {
	stats := &model.RunStats{
		Total:        total,
		Classified:   len(results),
		Unclassified: total - len(results),
		ByMatchType:  make(map[string]int),
		ByIntent:     make(map[string]int),
		ByCategory:   make(map[string]int),
	}
	for _, r := range results {
		stats.ByMatchType[string(r.MatchType)]++
		stats.ByIntent[r.Classification.L3.IntentCategory]++
		stats.ByCategory[r.Classification.L1.Name]++
	}
	return stats
}
