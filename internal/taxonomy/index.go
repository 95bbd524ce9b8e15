package taxonomy

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// IndexEntry maps one normalized keyword to the full L1..L5 path it belongs
// to. Entries are snapshots: mutating the tree never changes a built index.
type IndexEntry struct {
	Keyword string
	L1      model.L1Ref
	L2      model.L2Ref
	L3      model.L3Ref
	L4      model.L4Ref
	L5      *model.L5Keyword
}

// Index is the derived, in-memory keyword index. Built once per document
// load, never mutated afterward, so it is safe for unlimited concurrent
// readers. Entries preserves tree traversal order for the fuzzy scan.
type Index struct {
	byKeyword map[string]*IndexEntry
	entries   []*IndexEntry
}

// BuildIndex walks the tree L1→L5 exhaustively and inserts every leaf
// keyword, normalized (lowercase, trim). On a duplicate keyword across the
// tree the first write wins: later occurrences are dropped. That precedence
// rule is documented behavior, not an accident, and changing it changes
// classification outcomes.
func BuildIndex(doc *model.Document) *Index {
	idx := &Index{byKeyword: make(map[string]*IndexEntry)}

	dropped := 0
	for _, l1 := range doc.Taxonomy.L1Categories {
		l1Ref := model.L1Ref{ID: l1.ID, Name: l1.Name, Slug: l1.Slug}
		for _, l2 := range l1.L2Subcategories {
			l2Ref := model.L2Ref{ID: l2.ID, Name: l2.Name, Slug: l2.Slug}
			for _, l3 := range l2.L3Intents {
				l3Ref := model.L3Ref{
					ID:                    l3.ID,
					IntentCategory:        l3.IntentCategory,
					IntentSubcategory:     l3.IntentSubcategory,
					CommercialScore:       l3.CommercialScore,
					FunnelStage:           l3.FunnelStage,
					ConversionProbability: l3.ConversionProbability,
				}
				for _, l4 := range l3.L4Topics {
					l4Ref := model.L4Ref{
						ID:           l4.ID,
						Topic:        l4.Topic,
						Slug:         l4.Slug,
						ContentType:  l4.ContentType,
						URLStructure: l4.URLStructure,
						PrimaryCTA:   l4.PrimaryCTA,
						SecondaryCTA: l4.SecondaryCTA,
					}
					for _, l5 := range l4.L5Keywords {
						keyword := strings.TrimSpace(strings.ToLower(l5.Keyword))
						if keyword == "" {
							continue
						}
						if _, exists := idx.byKeyword[keyword]; exists {
							dropped++
							continue
						}
						entry := &IndexEntry{
							Keyword: keyword,
							L1:      l1Ref,
							L2:      l2Ref,
							L3:      l3Ref,
							L4:      l4Ref,
							L5:      l5,
						}
						idx.byKeyword[keyword] = entry
						idx.entries = append(idx.entries, entry)
					}
				}
			}
		}
	}

	zap.L().Info("taxonomy: index built",
		zap.Int("keywords", len(idx.entries)),
		zap.Int("duplicates_dropped", dropped),
	)

	return idx
}

// Lookup returns the entry for a normalized keyword, or nil.
func (idx *Index) Lookup(keyword string) *IndexEntry {
	return idx.byKeyword[keyword]
}

// Entries returns all entries in tree traversal order. Callers must treat
// the slice as read-only.
func (idx *Index) Entries() []*IndexEntry {
	return idx.entries
}

// Len returns the number of indexed keywords.
func (idx *Index) Len() int {
	return len(idx.entries)
}
