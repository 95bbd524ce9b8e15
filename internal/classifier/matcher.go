// Package classifier resolves free-text search queries to taxonomy paths.
// The matcher runs in stages: exact index hit (with intent-based override),
// scored fuzzy scan with priority disambiguation, then regex pattern
// fallback. No stage firing is a normal outcome, not an error.
package classifier

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/config"
	"github.com/sells-group/taxonomy-cli/internal/model"
	"github.com/sells-group/taxonomy-cli/internal/taxonomy"
)

// Classifier maps queries onto the taxonomy. Classification is synchronous,
// deterministic, and pure apart from reading the shared index, so a single
// Classifier is safe for unlimited concurrent callers. SetIndex is the only
// writer and swaps the index atomically under the lock.
type Classifier struct {
	mu       sync.RWMutex
	index    *taxonomy.Index
	cfg      config.MatcherConfig
	detector *Detector
	patterns *PatternSet
	cache    *resultCache
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCache enables the ristretto-backed result cache.
func WithCache(numCounters, maxCost int64) Option {
	return func(c *Classifier) {
		rc, err := newResultCache(numCounters, maxCost)
		if err != nil {
			zap.L().Warn("classifier: cache disabled", zap.Error(err))
			return
		}
		c.cache = rc
	}
}

// New creates a Classifier over a built index. Tables are injected so tests
// can swap in smaller ones.
func New(idx *taxonomy.Index, cfg config.MatcherConfig, tables Tables, opts ...Option) *Classifier {
	c := &Classifier{
		index:    idx,
		cfg:      cfg,
		detector: NewDetector(tables),
		patterns: NewPatternSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetIndex swaps in a freshly built index after a taxonomy reload and
// invalidates any cached results.
func (c *Classifier) SetIndex(idx *taxonomy.Index) {
	c.mu.Lock()
	c.index = idx
	c.mu.Unlock()
	c.cache.clear()
}

// Detector exposes the intent/brand detector for callers that need the
// signals without a full classification.
func (c *Classifier) Detector() *Detector {
	return c.detector
}

// Classify resolves a query to a taxonomy path. Returns nil for empty,
// whitespace-only, or unmatchable queries; callers must treat nil as a
// first-class outcome.
func (c *Classifier) Classify(query string) *model.ClassificationResult {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return nil
	}

	if res, ok := c.cache.get(q); ok {
		// The cache is keyed on the normalized form; echo the caller's own
		// raw query rather than whichever casing populated the entry.
		if res.Query != query {
			cp := *res
			cp.Query = query
			return &cp
		}
		return res
	}

	c.mu.RLock()
	idx := c.index
	c.mu.RUnlock()

	intent, hasIntent := c.detector.DetectIntent(q)
	brand := c.detector.DetectBrand(q)
	words := tokenSet(q)

	res := c.match(idx, query, q, words, intent, hasIntent)
	if res == nil {
		zap.L().Debug("classifier: unclassified query", zap.String("query", q))
		return nil
	}

	if brand.IsBranded {
		res.Classification.L2.Brand = &brand
	}

	c.cache.set(q, res)
	return res
}

func (c *Classifier) match(idx *taxonomy.Index, original, q string, words map[string]struct{}, intent Intent, hasIntent bool) *model.ClassificationResult {
	// Stage 2: exact index hit, possibly overridden by a conflicting intent.
	if entry := idx.Lookup(q); entry != nil {
		if hasIntent {
			if al, ok := c.detector.expectedCategory(intent); ok && al.Category != entry.L1.Name {
				if best, score := c.bestInCategory(idx, q, words, al.Category, c.cfg.OverrideThreshold); best != nil {
					zap.L().Debug("classifier: intent override of exact match",
						zap.String("query", q),
						zap.String("intent", string(intent)),
						zap.String("category", al.Category),
						zap.Float64("score", score),
					)
					return buildResult(best, original, c.cfg.OverrideConfidence, model.MatchFuzzy)
				}
				if c.detector.isStrong(intent) {
					if best, _ := c.bestInCategory(idx, q, words, al.Category, c.cfg.RelaxedThreshold); best != nil {
						return buildResult(best, original, c.cfg.RelaxedConfidence, model.MatchFuzzy)
					}
				}
			}
		}
		return buildResult(entry, original, 1.0, model.MatchExact)
	}

	// Stage 3: scored fuzzy scan with priority disambiguation.
	if best, score := c.fuzzyScan(idx, q, words, intent, hasIntent); best != nil {
		return buildResult(best, original, score, model.MatchFuzzy)
	}

	// Stage 4: pattern fallback.
	return c.patterns.Classify(q, c.cfg.PatternConfidence)
}

// bestInCategory finds the highest-scoring entry within a single category,
// subject to a minimum score.
func (c *Classifier) bestInCategory(idx *taxonomy.Index, q string, words map[string]struct{}, category string, threshold float64) (*taxonomy.IndexEntry, float64) {
	var best *taxonomy.IndexEntry
	bestScore := 0.0
	for _, entry := range idx.Entries() {
		if entry.L1.Name != category {
			continue
		}
		s := matchScore(q, words, entry.Keyword)
		if s >= threshold && s > bestScore {
			best = entry
			bestScore = s
		}
	}
	return best, bestScore
}

type candidate struct {
	entry    *taxonomy.IndexEntry
	score    float64
	priority int
}

// fuzzyScan iterates the whole index and ranks candidates by
// (score, priority, keyword length), all descending. Candidates within the
// tie margin of the top score are re-ranked by priority alone, so a
// generic bucket never beats a specific one at equal text similarity.
func (c *Classifier) fuzzyScan(idx *taxonomy.Index, q string, words map[string]struct{}, intent Intent, hasIntent bool) (*taxonomy.IndexEntry, float64) {
	// customer_service is noisy enough that the scan stays inside its
	// mapped category.
	restrictTo := ""
	if intent == IntentCustomerService {
		if al, ok := c.detector.expectedCategory(intent); ok {
			restrictTo = al.Category
		}
	}

	var candidates []candidate
	for _, entry := range idx.Entries() {
		if restrictTo != "" && entry.L1.Name != restrictTo {
			continue
		}
		s := matchScore(q, words, entry.Keyword)
		if s < c.cfg.FuzzyThreshold {
			continue
		}
		candidates = append(candidates, candidate{
			entry:    entry,
			score:    s,
			priority: c.priorityFor(entry, intent, hasIntent),
		})
	}
	if len(candidates) == 0 {
		return nil, 0
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return len(candidates[i].entry.Keyword) > len(candidates[j].entry.Keyword)
	})

	// The tie window is anchored to the top score, not the running winner,
	// so a re-ranked lower-score candidate cannot drag the window down.
	best := candidates[0]
	top := candidates[0].score
	for _, cd := range candidates[1:] {
		if top-cd.score > c.cfg.TieMargin {
			break
		}
		if cd.priority > best.priority {
			best = cd
		}
	}

	return best.entry, best.score
}

// priorityFor is the disambiguation rank: static category priority plus the
// intent-alignment bonus when the candidate sits in the category the intent
// implies. Never part of the similarity score.
func (c *Classifier) priorityFor(entry *taxonomy.IndexEntry, intent Intent, hasIntent bool) int {
	p, ok := c.detector.tables.CategoryPriority[entry.L1.Name]
	if !ok {
		p = c.detector.tables.DefaultPriority
	}
	if hasIntent {
		if al, ok := c.detector.expectedCategory(intent); ok && al.Category == entry.L1.Name {
			p += al.Bonus
		}
	}
	return p
}

func buildResult(entry *taxonomy.IndexEntry, query string, confidence float64, matchType model.MatchType) *model.ClassificationResult {
	return &model.ClassificationResult{
		Query: query,
		Classification: model.Classification{
			L1: entry.L1,
			L2: entry.L2,
			L3: entry.L3,
			L4: entry.L4,
			L5: entry.L5,
		},
		Confidence: confidence,
		MatchType:  matchType,
	}
}
