// Package engine wires the taxonomy, classifier, and learner together and
// exposes the two contracts the outer layer consumes: Classify and Learn.
package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/classifier"
	"github.com/sells-group/taxonomy-cli/internal/config"
	"github.com/sells-group/taxonomy-cli/internal/learner"
	"github.com/sells-group/taxonomy-cli/internal/model"
	"github.com/sells-group/taxonomy-cli/internal/taxonomy"
)

// Engine owns the loaded taxonomy document and the components built from
// it. Classification is concurrency-safe; taxonomy mutation is serialized
// through the learner's updater and always followed by a full index rebuild
// so stale indexes never linger.
type Engine struct {
	cfg *config.Config

	mu  sync.RWMutex
	doc *model.Document

	classifier *classifier.Classifier
	learner    *learner.Learner
	updater    *learner.Updater
}

// New loads the taxonomy document and builds a ready engine. A missing or
// unparsable document fails fast here.
func New(cfg *config.Config) (*Engine, error) {
	doc, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}

	idx := taxonomy.BuildIndex(doc)

	var opts []classifier.Option
	if cfg.Cache.Enabled {
		opts = append(opts, classifier.WithCache(cfg.Cache.NumCounters, cfg.Cache.MaxCost))
	}

	return &Engine{
		cfg:        cfg,
		doc:        doc,
		classifier: classifier.New(idx, cfg.Matcher, classifier.DefaultTables(), opts...),
		learner:    learner.New(),
		updater:    learner.NewUpdater(cfg.Taxonomy.Path, cfg.Taxonomy.BackupDir),
	}, nil
}

// Classify resolves one query. A nil result means unclassified, which is
// expected business data, not a fault.
func (e *Engine) Classify(query string) *model.ClassificationResult {
	return e.classifier.Classify(query)
}

// Learn analyzes unclassified queries and produces suggestions. When apply
// is true, suggestions at or above minConfidence are merged into the
// taxonomy document (backup first) and the index is rebuilt.
func (e *Engine) Learn(queries []string, apply bool, minConfidence int) (*model.LearnReport, error) {
	report := &model.LearnReport{}

	for _, q := range queries {
		signal := e.learner.AnalyzeUnclassified(q)
		if signal.Empty() {
			continue
		}
		report.Suggestions = append(report.Suggestions, e.learner.SuggestClassification(q, signal))
	}

	zap.L().Info("engine: learning pass complete",
		zap.Int("queries", len(queries)),
		zap.Int("suggestions", len(report.Suggestions)),
	)

	if !apply || len(report.Suggestions) == 0 {
		return report, nil
	}

	update, err := e.updater.UpdateTaxonomy(report.Suggestions, minConfidence, e.learner.NewEntities())
	if err != nil {
		return report, err
	}
	report.AppliedUpdate = update

	if update.AddedCount > 0 {
		if err := e.Reload(); err != nil {
			return report, err
		}
	}

	return report, nil
}

// Reload re-reads the taxonomy document and swaps in a freshly built index.
func (e *Engine) Reload() error {
	doc, err := taxonomy.Load(e.cfg.Taxonomy.Path)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.doc = doc
	e.mu.Unlock()

	e.classifier.SetIndex(taxonomy.BuildIndex(doc))
	return nil
}

// Watch monitors the taxonomy document until ctx is cancelled, reloading
// after external changes. Used by long-running commands so edits made
// outside the process are picked up.
func (e *Engine) Watch(ctx context.Context) error {
	w, err := taxonomy.NewWatcher(e.cfg.Taxonomy.Path, e.Reload)
	if err != nil {
		return err
	}
	go w.Run(ctx)
	return nil
}

// Stats summarizes the currently loaded document.
func (e *Engine) Stats() taxonomy.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return taxonomy.ComputeStats(e.doc)
}

// Document returns the currently loaded taxonomy document. Callers must
// treat it as read-only.
func (e *Engine) Document() *model.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc
}
