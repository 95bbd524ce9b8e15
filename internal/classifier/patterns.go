package classifier

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// namedPattern is one detector in a pattern group. Groups are scanned in
// declaration order and stop at the first hit.
type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// PatternSet is the stage-4 fallback: independent regex detectors for
// device family, plan type, intent verb, and service. If any detector
// fires, a minimal classification is synthesized.
type PatternSet struct {
	devices  []namedPattern
	plans    []namedPattern
	intents  []namedPattern
	services []namedPattern
}

// patternIntent maps a detected intent verb to the fixed L3 values the
// synthesized result carries.
type patternIntent struct {
	Category    string
	Subcategory string
	Score       int
	FunnelStage string
}

var patternIntents = map[string]patternIntent{
	"buy":     {"Transactional", "Direct Purchase Intent", 95, "Purchase"},
	"compare": {"Commercial Investigation", "Comparison Shopping", 75, "Consideration"},
	"price":   {"Commercial Investigation", "Price Research", 80, "Consideration"},
	"review":  {"Informational", "Product Research", 60, "Awareness"},
	"support": {"Navigational", "Customer Support", 30, "Retention"},
	"upgrade": {"Transactional", "Upgrade Intent", 85, "Purchase"},
}

var defaultPatternIntent = patternIntent{"Informational", "General Research", 50, "Awareness"}

var titleCaser = cases.Title(language.English)

// NewPatternSet compiles the default pattern bank.
func NewPatternSet() *PatternSet {
	return &PatternSet{
		devices: compilePatterns([][2]string{
			{"iphone", `\biphone\s*(\d+)?\s*(pro|max|plus|mini|se)?`},
			{"samsung", `\b(samsung|galaxy)\s*(s|a|note|z|fold|flip)?\s*(\d+)?`},
			{"pixel", `\bpixel\s*(\d+)?\s*(pro|a|xl)?`},
		}),
		plans: compilePatterns([][2]string{
			{"prepaid", `\b(prepaid|pay\s*as\s*you\s*go|no\s*contract)`},
			{"postpaid", `\b(postpaid|contract|monthly\s*plan)`},
			{"unlimited", `\bunlimited\s*(data|talk|text|plan)?`},
			{"family", `\b(family|shared|multi.?line)\s*plan`},
		}),
		intents: compilePatterns([][2]string{
			{"buy", `\b(buy|purchase|get|order|shop)`},
			{"compare", `\b(compare|vs|versus|difference|better)`},
			{"price", `\b(price|cost|how\s*much|cheap|affordable|deal)`},
			{"review", `\b(review|rating|worth|good|best)`},
			{"support", `\b(help|support|issue|problem|fix|troubleshoot)`},
			{"upgrade", `\b(upgrade|trade.?in|switch|change)`},
		}),
		services: compilePatterns([][2]string{
			{"5g", `\b5g\b`},
			{"internet", `\b(internet|wifi|wi-fi|broadband|fiber)`},
			{"streaming", `\b(stream|netflix|hulu|disney|hbo)`},
			{"international", `\b(international|roaming|abroad|travel)`},
		}),
	}
}

func compilePatterns(specs [][2]string) []namedPattern {
	out := make([]namedPattern, 0, len(specs))
	for _, s := range specs {
		out = append(out, namedPattern{name: s[0], re: regexp.MustCompile(s[1])})
	}
	return out
}

func firstMatch(patterns []namedPattern, q string) string {
	for _, p := range patterns {
		if p.re.MatchString(q) {
			return p.name
		}
	}
	return ""
}

// Classify synthesizes a classification from whatever detectors fire on a
// normalized query. Returns nil when nothing fires at all.
func (ps *PatternSet) Classify(query string, confidence float64) *model.ClassificationResult {
	device := firstMatch(ps.devices, query)
	plan := firstMatch(ps.plans, query)
	intent := firstMatch(ps.intents, query)
	service := firstMatch(ps.services, query)

	if device == "" && plan == "" && intent == "" && service == "" {
		return nil
	}

	// L1 inference: device > plan > service.
	var l1 model.L1Ref
	switch {
	case device != "":
		l1 = model.L1Ref{ID: "L1_002", Name: "Devices"}
	case plan != "":
		l1 = model.L1Ref{ID: "L1_001", Name: "Mobile Plans"}
	case service == "internet":
		l1 = model.L1Ref{ID: "L1_003", Name: "Internet Services"}
	default:
		l1 = model.L1Ref{ID: "L1_001", Name: "Mobile Plans"}
	}

	l2Name := plan
	if l2Name == "" {
		l2Name = device
	}
	if l2Name == "" {
		l2Name = "General"
	}

	info, ok := patternIntents[intent]
	if !ok {
		info = defaultPatternIntent
	}

	var topicParts []string
	if device != "" {
		topicParts = append(topicParts, titleCaser.String(device))
	}
	if plan != "" {
		topicParts = append(topicParts, titleCaser.String(plan))
	}
	if service != "" {
		if service == "5g" {
			topicParts = append(topicParts, "5G")
		} else {
			topicParts = append(topicParts, titleCaser.String(service))
		}
	}
	if intent != "" {
		topicParts = append(topicParts, titleCaser.String(intent))
	}
	topic := "General Query"
	if len(topicParts) > 0 {
		topic = strings.Join(topicParts, " ")
	}

	return &model.ClassificationResult{
		Query: query,
		Classification: model.Classification{
			L1: l1,
			L2: model.L2Ref{ID: "L2_pattern", Name: l2Name},
			L3: model.L3Ref{
				IntentCategory:    info.Category,
				IntentSubcategory: info.Subcategory,
				CommercialScore:   info.Score,
				FunnelStage:       info.FunnelStage,
			},
			L4: model.L4Ref{
				Topic: topic,
				Slug:  strings.ReplaceAll(strings.ToLower(topic), " ", "-"),
			},
		},
		Confidence: confidence,
		MatchType:  model.MatchPattern,
	}
}
