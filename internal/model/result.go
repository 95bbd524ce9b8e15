package model

// MatchType records which matcher stage produced a classification.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchFuzzy   MatchType = "fuzzy"
	MatchPattern MatchType = "pattern"
)

// BrandType describes which brand lists matched a query.
type BrandType string

const (
	BrandNone    BrandType = "none"
	BrandCarrier BrandType = "carrier"
	BrandPhone   BrandType = "phone"
	BrandBoth    BrandType = "both"
)

// BrandSignal is the detected presence of carrier and/or device-manufacturer
// names in a query. Derived per call, never persisted on its own.
type BrandSignal struct {
	IsBranded   bool      `json:"is_branded"`
	BrandType   BrandType `json:"brand_type"`
	Carriers    []string  `json:"carriers,omitempty"`
	PhoneBrands []string  `json:"phone_brands,omitempty"`
}

// L1Ref is the L1 slice of a classification path.
type L1Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// L2Ref is the L2 slice of a classification path. The brand signal rides on
// the subcategory level, matching where the report layer consumes it.
type L2Ref struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Slug  string       `json:"slug,omitempty"`
	Brand *BrandSignal `json:"brand,omitempty"`
}

// L3Ref is the intent slice of a classification path.
type L3Ref struct {
	ID                    string `json:"id,omitempty"`
	IntentCategory        string `json:"intent_category"`
	IntentSubcategory     string `json:"intent_subcategory,omitempty"`
	CommercialScore       int    `json:"commercial_score"`
	FunnelStage           string `json:"funnel_stage,omitempty"`
	ConversionProbability string `json:"conversion_probability,omitempty"`
}

// L4Ref is the topic slice of a classification path.
type L4Ref struct {
	ID           string `json:"id,omitempty"`
	Topic        string `json:"topic"`
	Slug         string `json:"slug,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	URLStructure string `json:"url_structure,omitempty"`
	PrimaryCTA   string `json:"primary_cta,omitempty"`
	SecondaryCTA string `json:"secondary_cta,omitempty"`
}

// Classification is the resolved L1..L5 path for a query. L5 is nil for
// pattern-synthesized results.
type Classification struct {
	L1 L1Ref      `json:"L1"`
	L2 L2Ref      `json:"L2"`
	L3 L3Ref      `json:"L3"`
	L4 L4Ref      `json:"L4"`
	L5 *L5Keyword `json:"L5,omitempty"`
}

// ClassificationResult is the per-call output of the matcher. A nil result
// (not an error) means the query is unclassified.
type ClassificationResult struct {
	Query          string         `json:"query"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence_score"`
	MatchType      MatchType      `json:"match_type"`
}
