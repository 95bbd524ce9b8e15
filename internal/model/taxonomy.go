package model

// Document is the persisted taxonomy document: the single source of truth
// for classification. It is loaded at startup and reloaded after each
// learning-driven mutation.
type Document struct {
	System   SystemInfo `json:"classification_system" yaml:"classification_system"`
	Taxonomy Taxonomy   `json:"taxonomy" yaml:"taxonomy"`
}

// SystemInfo holds document-level metadata.
type SystemInfo struct {
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	LastUpdated string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Taxonomy is the five-level tree, L1 category down to L5 keyword.
type Taxonomy struct {
	L1Categories []*L1Category `json:"L1_categories" yaml:"L1_categories"`
}

// L1Category is the broadest taxonomy bucket ("Mobile Plans", "Devices").
type L1Category struct {
	ID              string           `json:"id" yaml:"id"`
	Name            string           `json:"name" yaml:"name"`
	Slug            string           `json:"slug,omitempty" yaml:"slug,omitempty"`
	Priority        string           `json:"priority,omitempty" yaml:"priority,omitempty"`
	BusinessValue   string           `json:"business_value,omitempty" yaml:"business_value,omitempty"`
	L2Subcategories []*L2Subcategory `json:"L2_subcategories" yaml:"L2_subcategories"`
}

// L2Subcategory narrows an L1 category ("Apple iPhone", "Prepaid Plans").
type L2Subcategory struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Slug      string      `json:"slug,omitempty" yaml:"slug,omitempty"`
	Parent    string      `json:"parent,omitempty" yaml:"parent,omitempty"`
	L3Intents []*L3Intent `json:"L3_intents" yaml:"L3_intents"`
}

// L3Intent is the unit that drives monetization scoring.
type L3Intent struct {
	ID                    string     `json:"id" yaml:"id"`
	IntentCategory        string     `json:"intent_category" yaml:"intent_category"`
	IntentSubcategory     string     `json:"intent_subcategory,omitempty" yaml:"intent_subcategory,omitempty"`
	CommercialScore       int        `json:"commercial_score" yaml:"commercial_score"`
	ConversionProbability string     `json:"conversion_probability,omitempty" yaml:"conversion_probability,omitempty"`
	ConversionWindow      string     `json:"conversion_window,omitempty" yaml:"conversion_window,omitempty"`
	FunnelStage           string     `json:"funnel_stage,omitempty" yaml:"funnel_stage,omitempty"`
	L4Topics              []*L4Topic `json:"L4_topics" yaml:"L4_topics"`
}

// L4Topic groups keywords under a content topic.
type L4Topic struct {
	ID           string       `json:"id" yaml:"id"`
	Topic        string       `json:"topic" yaml:"topic"`
	Slug         string       `json:"slug,omitempty" yaml:"slug,omitempty"`
	ParentIntent string       `json:"parent_intent,omitempty" yaml:"parent_intent,omitempty"`
	ContentType  string       `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	URLStructure string       `json:"url_structure,omitempty" yaml:"url_structure,omitempty"`
	PrimaryCTA   string       `json:"primary_cta,omitempty" yaml:"primary_cta,omitempty"`
	SecondaryCTA string       `json:"secondary_cta,omitempty" yaml:"secondary_cta,omitempty"`
	L5Keywords   []*L5Keyword `json:"L5_keywords" yaml:"L5_keywords"`
}

// L5Keyword is a leaf keyword with its research metadata. Owned exclusively
// by its L4 parent; the keyword string is unique across the entire tree
// (first occurrence wins when indexing).
type L5Keyword struct {
	ID                string  `json:"id" yaml:"id"`
	Keyword           string  `json:"keyword" yaml:"keyword"`
	SearchVolume      int     `json:"search_volume" yaml:"search_volume"`
	KeywordDifficulty int     `json:"keyword_difficulty" yaml:"keyword_difficulty"`
	CPC               float64 `json:"cpc" yaml:"cpc"`
	IntentScore       int     `json:"intent_score" yaml:"intent_score"`
	ParentTopic       string  `json:"parent_topic,omitempty" yaml:"parent_topic,omitempty"`
	Source            string  `json:"source,omitempty" yaml:"source,omitempty"`
	LearnedAt         string  `json:"learned_at,omitempty" yaml:"learned_at,omitempty"`
	Confidence        int     `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// KeywordCount returns the total number of L5 keywords in the tree.
func (t *Taxonomy) KeywordCount() int {
	n := 0
	for _, l1 := range t.L1Categories {
		for _, l2 := range l1.L2Subcategories {
			for _, l3 := range l2.L3Intents {
				for _, l4 := range l3.L4Topics {
					n += len(l4.L5Keywords)
				}
			}
		}
	}
	return n
}
