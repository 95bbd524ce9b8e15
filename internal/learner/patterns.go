package learner

import "regexp"

// DevicePattern is one entry in the declarative device bank: a brand tag,
// its capture pattern, and the L2 subcategory label it implies. Adding a
// phone brand is a data change here, not a code change; the bank is scanned
// in order and the first match wins.
type DevicePattern struct {
	Tag         string
	Subcategory string
	Pattern     *regexp.Regexp
}

// defaultDevicePatterns covers the major phone brands with model number and
// modifier capture (Pro/Ultra/Plus/Mini and friends).
func defaultDevicePatterns() []DevicePattern {
	return []DevicePattern{
		{"iphone", "Apple iPhone",
			regexp.MustCompile(`\biphone\s+(\d+(?:\s*(?:plus|pro(?:\s+max)?|mini|air|ultra))?|se(?:\s+\d+(?:st|nd|rd)?)?|(?:plus|pro(?:\s+max)?|mini|air|ultra))`)},
		{"samsung galaxy s", "Samsung Galaxy S Series",
			regexp.MustCompile(`\bsamsung\s+(?:galaxy\s+)?s(\d+)(?:\s+(ultra|plus|\+|pro|fe|edge|lite))?`)},
		{"samsung galaxy a", "Samsung Galaxy A Series",
			regexp.MustCompile(`\bsamsung\s+(?:galaxy\s+)?a(\d+)(?:\s+(ultra|plus|\+|pro|5g|4g|lite))?`)},
		{"samsung galaxy note", "Samsung Galaxy Note",
			regexp.MustCompile(`\bsamsung\s+(?:galaxy\s+)?note\s*(\d+)(?:\s+(ultra|plus|\+|pro))?`)},
		{"samsung galaxy z", "Samsung Foldables",
			regexp.MustCompile(`\bsamsung\s+(?:galaxy\s+)?z\s*(fold|flip)(?:\s+(\d+))?`)},
		{"samsung galaxy m", "Samsung Smartphones",
			regexp.MustCompile(`\bsamsung\s+(?:galaxy\s+)?m(\d+)(?:\s+(ultra|plus|\+|pro|5g))?`)},
		{"pixel", "Google Pixel",
			regexp.MustCompile(`\bpixel\s+(\d+(?:\s*(?:pro\s+xl|pro|xl|a))?)`)},
		{"oneplus", "OnePlus",
			regexp.MustCompile(`\boneplus\s+(\d+(?:\s*(?:pro|t|r))?)`)},
		{"xiaomi", "Xiaomi/Redmi",
			regexp.MustCompile(`\b(?:xiaomi|redmi)\s+(?:note\s+)?(\d+(?:\s*(?:pro|ultra|lite|s|t))?)`)},
		{"oppo", "Oppo Smartphones",
			regexp.MustCompile(`\boppo\s+(find\s+[xn]\d+|reno\s*\d+|a\d+)(?:\s+(pro|ultra|lite))?`)},
		{"vivo", "Vivo Smartphones",
			regexp.MustCompile(`\bvivo\s+([vxy]\d+)(?:\s+(pro|ultra|lite))?`)},
		{"motorola", "Motorola Smartphones",
			regexp.MustCompile(`\b(?:motorola|moto)\s+(?:edge|g|e|z)\s*(\d+)(?:\s+(plus|\+|pro|ultra))?`)},
		{"lg", "LG Smartphones",
			regexp.MustCompile(`\blg\s+(g\d+|v\d+|wing|velvet)(?:\s+(thinq|pro))?`)},
		{"sony xperia", "Sony Xperia",
			regexp.MustCompile(`\bsony\s+xperia\s+(\d+|[ivx]+)(?:\s+(pro|ultra|compact))?`)},
		{"nokia", "Nokia Smartphones",
			regexp.MustCompile(`\bnokia\s+(\d+(?:\.\d+)?)(?:\s+(pro|plus|\+))?`)},
		{"huawei", "Huawei Smartphones",
			regexp.MustCompile(`\bhuawei\s+(p\d+|mate\s*\d+)(?:\s+(pro|ultra|lite))?`)},
	}
}

// planPattern extracts plan-type candidates.
type planPattern struct {
	kind string
	re   *regexp.Regexp
}

func defaultPlanPatterns() []planPattern {
	return []planPattern{
		{"plan", regexp.MustCompile(`\b(\w+)\s+plan\b`)},
		{"data_plan", regexp.MustCompile(`\b(\d+)\s*gb\s+data\b`)},
		{"service", regexp.MustCompile(`\b(\w+)\s+(?:subscription|service)\b`)},
	}
}

var servicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\w+)\s+(?:internet|broadband|wifi|5g|6g)\b`),
	regexp.MustCompile(`\b(fiber|cable|dsl|satellite)\s`),
}

// knownPlanTypes already exist in the base taxonomy and are not learnable.
var knownPlanTypes = map[string]bool{
	"prepaid": true, "postpaid": true, "unlimited": true, "family": true,
}

// knownServiceTypes already exist in the base taxonomy.
var knownServiceTypes = map[string]bool{
	"5g": true, "fiber": true, "cable": true,
}

var questionWords = []string{"how", "what", "why", "when", "where", "which"}

var purchaseWords = []string{"buy", "purchase", "order", "get", "price"}
