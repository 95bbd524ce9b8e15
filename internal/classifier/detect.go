package classifier

import (
	"strings"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// Detector derives intent tags and brand signals from a query. Pure
// functions of the query string plus the injected tables.
type Detector struct {
	tables Tables
}

// NewDetector creates a detector over the given tables.
func NewDetector(tables Tables) *Detector {
	return &Detector{tables: tables}
}

// DetectIntent runs the ordered intent checks and returns on the first hit.
// The order is a correctness decision, most specific first: city names,
// comparison markers, customer-service phrases, connected devices,
// international, budget plans, then the fallback phrase table.
func (d *Detector) DetectIntent(query string) (Intent, bool) {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return "", false
	}

	// 1. Location names. "near me" alone does not qualify.
	for _, city := range d.tables.Cities {
		if strings.Contains(q, city) {
			return IntentLocal, true
		}
	}

	// 2. Comparison markers.
	if strings.Contains(q, " vs ") || strings.HasPrefix(q, "vs ") || strings.HasSuffix(q, " vs") {
		return IntentCompare, true
	}

	// 3. Customer service phrases.
	if containsAny(q, "customer service", "service number", "customer support", "customer care") {
		return IntentCustomerService, true
	}

	// 4. Tablet / cellular device phrases.
	if containsAny(q, "tablet", "ipad", "smartwatch", "apple watch", "galaxy watch", "cellular watch", "connected device", "hotspot device") {
		return IntentConnectedDevice, true
	}

	// 5. International calling/plans.
	if strings.Contains(q, "international") && (strings.Contains(q, "calling") || strings.Contains(q, "plan")) {
		return IntentInternational, true
	}

	// 6. Budget plans.
	if strings.Contains(q, "budget") && strings.Contains(q, "plan") {
		return IntentPlan, true
	}

	// 7. Fallback phrase table, declaration order.
	for _, rule := range d.tables.IntentRules {
		for _, phrase := range rule.Phrases {
			if strings.Contains(q, phrase) {
				return rule.Intent, true
			}
		}
	}

	return "", false
}

// DetectBrand scans the query against the carrier and phone-brand lists and
// returns every match found, not just the first. Detection is additive: a
// query can carry both a carrier and a phone brand.
func (d *Detector) DetectBrand(query string) model.BrandSignal {
	q := strings.ToLower(query)

	var carriers, phones []string
	for _, name := range d.tables.Carriers {
		if strings.Contains(q, name) {
			carriers = append(carriers, name)
		}
	}
	for _, name := range d.tables.PhoneBrands {
		if strings.Contains(q, name) {
			phones = append(phones, name)
		}
	}

	signal := model.BrandSignal{
		Carriers:    carriers,
		PhoneBrands: phones,
	}
	switch {
	case len(carriers) > 0 && len(phones) > 0:
		signal.BrandType = model.BrandBoth
	case len(carriers) > 0:
		signal.BrandType = model.BrandCarrier
	case len(phones) > 0:
		signal.BrandType = model.BrandPhone
	default:
		signal.BrandType = model.BrandNone
	}
	signal.IsBranded = signal.BrandType != model.BrandNone

	return signal
}

// expectedCategory returns the category an intent tag implies, if any.
func (d *Detector) expectedCategory(intent Intent) (Alignment, bool) {
	al, ok := d.tables.Alignment[intent]
	return al, ok
}

// isStrong reports whether the tag is on the strong-signal list.
func (d *Detector) isStrong(intent Intent) bool {
	for _, s := range d.tables.StrongIntents {
		if s == intent {
			return true
		}
	}
	return false
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
