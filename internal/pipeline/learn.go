package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/engine"
	"github.com/sells-group/taxonomy-cli/internal/model"
	"github.com/sells-group/taxonomy-cli/internal/store"
)

// LearnFromStore pulls queued unclassified queries, runs a learning pass,
// and marks applied queries as learned so they are not re-proposed.
func LearnFromStore(ctx context.Context, eng *engine.Engine, st store.Store, limit int, apply bool, minConfidence int) (*model.LearnReport, error) {
	learned := false
	queued, err := st.ListUnclassified(ctx, store.UnclassifiedFilter{
		Learned: &learned,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	queries := make([]string, 0, len(queued))
	for _, q := range queued {
		queries = append(queries, q.Query)
	}

	report, err := eng.Learn(queries, apply, minConfidence)
	if err != nil {
		return nil, err
	}

	if apply && report.AppliedUpdate != nil && report.AppliedUpdate.AddedCount > 0 {
		applied := make([]string, 0, len(report.Suggestions))
		for _, s := range report.Suggestions {
			if s.Confidence >= minConfidence {
				applied = append(applied, s.Query)
			}
		}
		n, err := st.MarkLearned(ctx, applied)
		if err != nil {
			return nil, err
		}
		zap.L().Info("marked queries learned",
			zap.Int("marked", n),
			zap.Int("added_keywords", report.AppliedUpdate.AddedCount),
		)
	}

	return report, nil
}
