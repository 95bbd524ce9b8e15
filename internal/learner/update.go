package learner

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/model"
	"github.com/sells-group/taxonomy-cli/internal/taxonomy"
)

// intentProfile carries the fixed L3 attributes a newly created intent node
// receives.
type intentProfile struct {
	Subcategory           string
	CommercialScore       int
	ConversionProbability string
	FunnelStage           string
}

var intentProfiles = map[string]intentProfile{
	"Transactional": {"Direct Purchase Intent", 90, "10-18%", "Purchase"},
	"Informational": {"Educational Intent", 30, "2-4%", "Awareness"},
	"Comparative":   {"Direct Comparison", 70, "6-11%", "Consideration"},
}

const conversionWindow = "7-21 days"

// idAllocator hands out node IDs per level. Counts are taken in a single
// pass over the existing tree, then incremented per allocation, so two new
// siblings never collide.
type idAllocator struct {
	counts map[string]int
}

func newIDAllocator(doc *model.Document) *idAllocator {
	a := &idAllocator{counts: map[string]int{}}
	for _, l1 := range doc.Taxonomy.L1Categories {
		a.counts["L1"]++
		for _, l2 := range l1.L2Subcategories {
			a.counts["L2"]++
			for _, l3 := range l2.L3Intents {
				a.counts["L3"]++
				for _, l4 := range l3.L4Topics {
					a.counts["L4"]++
					a.counts["L5"] += len(l4.L5Keywords)
				}
			}
		}
	}
	return a
}

func (a *idAllocator) next(level string) string {
	a.counts[level]++
	return fmt.Sprintf("%s_%03d", level, a.counts[level])
}

// Updater applies high-confidence suggestions to the taxonomy document.
// Mutation is append-only: nodes are found or created, never removed or
// overwritten. The updater is the document's only writer and serializes
// itself, so concurrent learning runs cannot interleave writes.
type Updater struct {
	mu        sync.Mutex
	path      string
	backupDir string
}

// NewUpdater creates an Updater for the document at path.
func NewUpdater(path, backupDir string) *Updater {
	return &Updater{path: path, backupDir: backupDir}
}

// UpdateTaxonomy filters suggestions below minConfidence, backs up the
// document, appends the surviving branches, and atomically rewrites the
// document. An empty suggestion set is a no-op and creates no backup.
// Node identity at every level is the name field, case-sensitive and
// exact — switching to id-based matching would silently create duplicate
// branches.
func (u *Updater) UpdateTaxonomy(suggestions []model.Suggestion, minConfidence int, entities model.NewEntities) (*model.TaxonomyUpdate, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var accepted []model.Suggestion
	for _, s := range suggestions {
		if s.Confidence >= minConfidence && s.L1Category != "" {
			accepted = append(accepted, s)
		}
	}
	if len(accepted) == 0 {
		return &model.TaxonomyUpdate{AddedCount: 0}, nil
	}

	doc, err := taxonomy.Load(u.path)
	if err != nil {
		return nil, err
	}

	// Backup before any mutation; a later write failure is recoverable
	// against this copy.
	backupPath, err := taxonomy.Backup(u.path, u.backupDir)
	if err != nil {
		return nil, err
	}

	alloc := newIDAllocator(doc)
	added := 0
	for _, s := range accepted {
		if appendSuggestion(doc, s, alloc) {
			added++
		}
	}

	doc.System.LastUpdated = time.Now().Format("2006-01-02")
	if doc.System.Version != "" {
		doc.System.Version = fmt.Sprintf("%s.%d", doc.System.Version, added)
	}

	if err := taxonomy.Save(doc, u.path); err != nil {
		return nil, err
	}

	zap.L().Info("learner: taxonomy updated",
		zap.Int("suggestions", len(suggestions)),
		zap.Int("accepted", len(accepted)),
		zap.Int("added_topics", added),
		zap.String("backup", backupPath),
	)

	return &model.TaxonomyUpdate{
		AddedCount:  added,
		BackupPath:  backupPath,
		NewEntities: entities,
	}, nil
}

// appendSuggestion finds or creates the L1→L4 branch for one suggestion and
// appends the query as a new L5 keyword. Returns false when an L4 topic of
// the same name already exists under the target intent (topic names are the
// uniqueness key at that level).
func appendSuggestion(doc *model.Document, s model.Suggestion, alloc *idAllocator) bool {
	l1 := findOrCreateL1(doc, s.L1Category, alloc)
	l2 := findOrCreateL2(l1, orDefault(s.L2Subcategory, "General"), alloc)

	intentName := orDefault(s.L3Intent, "Informational")
	profile, ok := intentProfiles[intentName]
	if !ok {
		profile = intentProfiles["Informational"]
	}
	l3 := findOrCreateL3(l2, intentName, profile, alloc)

	topicName := orDefault(s.L4Topic, "Unknown Topic")
	for _, t := range l3.L4Topics {
		if t.Topic == topicName {
			return false
		}
	}

	l4ID := alloc.next("L4")
	l4 := &model.L4Topic{
		ID:           l4ID,
		Topic:        topicName,
		Slug:         slugify(topicName),
		ParentIntent: l3.ID,
		ContentType:  "educational_guide",
		URLStructure: fmt.Sprintf("/learn/%s/%s/", l1.Slug, slugify(topicName)),
		PrimaryCTA:   "Learn More",
		SecondaryCTA: "Compare Options",
		L5Keywords: []*model.L5Keyword{
			{
				ID:                alloc.next("L5"),
				Keyword:           strings.ToLower(s.Query),
				SearchVolume:      100,
				KeywordDifficulty: 35,
				CPC:               2.50,
				IntentScore:       profile.CommercialScore,
				ParentTopic:       l4ID,
				Source:            "auto_learned",
				LearnedAt:         s.Timestamp.Format(time.RFC3339),
				Confidence:        s.Confidence,
			},
		},
	}
	l3.L4Topics = append(l3.L4Topics, l4)
	return true
}

func findOrCreateL1(doc *model.Document, name string, alloc *idAllocator) *model.L1Category {
	for _, l1 := range doc.Taxonomy.L1Categories {
		if l1.Name == name {
			return l1
		}
	}
	l1 := &model.L1Category{
		ID:       alloc.next("L1"),
		Name:     name,
		Slug:     slugify(name),
		Priority: "medium",
	}
	doc.Taxonomy.L1Categories = append(doc.Taxonomy.L1Categories, l1)
	return l1
}

func findOrCreateL2(l1 *model.L1Category, name string, alloc *idAllocator) *model.L2Subcategory {
	for _, l2 := range l1.L2Subcategories {
		if l2.Name == name {
			return l2
		}
	}
	l2 := &model.L2Subcategory{
		ID:     alloc.next("L2"),
		Name:   name,
		Slug:   slugify(name),
		Parent: l1.ID,
	}
	l1.L2Subcategories = append(l1.L2Subcategories, l2)
	return l2
}

func findOrCreateL3(l2 *model.L2Subcategory, intentName string, profile intentProfile, alloc *idAllocator) *model.L3Intent {
	for _, l3 := range l2.L3Intents {
		if l3.IntentCategory == intentName {
			return l3
		}
	}
	l3 := &model.L3Intent{
		ID:                    alloc.next("L3"),
		IntentCategory:        intentName,
		IntentSubcategory:     profile.Subcategory,
		CommercialScore:       profile.CommercialScore,
		ConversionProbability: profile.ConversionProbability,
		ConversionWindow:      conversionWindow,
		FunnelStage:           profile.FunnelStage,
	}
	l2.L3Intents = append(l2.L3Intents, l3)
	return l3
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}
