package taxonomy

import (
	"sort"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// Stats summarizes the shape of a taxonomy document.
type Stats struct {
	L1Count int `json:"l1_count"`
	L2Count int `json:"l2_count"`
	L3Count int `json:"l3_count"`
	L4Count int `json:"l4_count"`
	L5Count int `json:"l5_count"`

	// KeywordsByCategory maps each L1 name to its keyword count,
	// and TopCategories lists them largest first.
	KeywordsByCategory map[string]int `json:"keywords_by_category"`
	TopCategories      []string       `json:"top_categories"`
}

// ComputeStats walks the tree once and returns per-level counts plus the
// keyword distribution across L1 categories.
func ComputeStats(doc *model.Document) Stats {
	s := Stats{KeywordsByCategory: make(map[string]int)}

	for _, l1 := range doc.Taxonomy.L1Categories {
		s.L1Count++
		for _, l2 := range l1.L2Subcategories {
			s.L2Count++
			for _, l3 := range l2.L3Intents {
				s.L3Count++
				for _, l4 := range l3.L4Topics {
					s.L4Count++
					s.L5Count += len(l4.L5Keywords)
					s.KeywordsByCategory[l1.Name] += len(l4.L5Keywords)
				}
			}
		}
	}

	for name := range s.KeywordsByCategory {
		s.TopCategories = append(s.TopCategories, name)
	}
	sort.Slice(s.TopCategories, func(i, j int) bool {
		a, b := s.TopCategories[i], s.TopCategories[j]
		if s.KeywordsByCategory[a] != s.KeywordsByCategory[b] {
			return s.KeywordsByCategory[a] > s.KeywordsByCategory[b]
		}
		return a < b
	})

	return s
}

// Categories returns all L1 categories of the document.
func Categories(doc *model.Document) []*model.L1Category {
	return doc.Taxonomy.L1Categories
}

// CategoryTopic pairs a topic with the L2/L3 labels above it.
type CategoryTopic struct {
	L2    string         `json:"L2"`
	L3    string         `json:"L3"`
	Topic *model.L4Topic `json:"L4"`
}

// CategoryTopics returns every topic under the L1 category with the given
// id, in tree order.
func CategoryTopics(doc *model.Document, l1ID string) []CategoryTopic {
	var topics []CategoryTopic
	for _, l1 := range doc.Taxonomy.L1Categories {
		if l1.ID != l1ID {
			continue
		}
		// Found: a category with no topics yields an empty, non-nil slice
		// so callers can tell it apart from an unknown id.
		topics = []CategoryTopic{}
		for _, l2 := range l1.L2Subcategories {
			for _, l3 := range l2.L3Intents {
				for _, l4 := range l3.L4Topics {
					topics = append(topics, CategoryTopic{
						L2:    l2.Name,
						L3:    l3.IntentCategory,
						Topic: l4,
					})
				}
			}
		}
	}
	return topics
}
