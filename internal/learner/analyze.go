// Package learner extracts unseen patterns from unclassified queries and
// proposes append-only taxonomy extensions.
package learner

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

var (
	titleCaser = cases.Title(language.English)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Learner analyzes unclassified queries, derives classification
// suggestions, and accumulates the new entities it has seen. Analysis is
// pure; entity accumulation is the only shared state and is guarded.
type Learner struct {
	devices []DevicePattern
	plans   []planPattern

	mu          sync.Mutex
	newEntities map[string]map[string]bool
}

// New creates a Learner with the default pattern bank.
func New() *Learner {
	return NewWithPatterns(defaultDevicePatterns())
}

// NewWithPatterns creates a Learner with an injected device bank, so tests
// can run against a reduced set.
func NewWithPatterns(devices []DevicePattern) *Learner {
	return &Learner{
		devices: devices,
		plans:   defaultPlanPatterns(),
		newEntities: map[string]map[string]bool{
			"devices":  {},
			"plans":    {},
			"services": {},
		},
	}
}

// AnalyzeUnclassified extracts learnable signals from a query: at most one
// device (first pattern match wins and stops the scan), plus plan, service,
// and intent hints.
func (l *Learner) AnalyzeUnclassified(query string) model.LearnedSignal {
	q := strings.ToLower(query)
	var signal model.LearnedSignal

	for _, dp := range l.devices {
		m := dp.Pattern.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		var parts []string
		for _, g := range m[1:] {
			g = strings.TrimSpace(g)
			if g != "" {
				parts = append(parts, g)
			}
		}
		name := dp.Tag
		if len(parts) > 0 {
			name += " " + strings.Join(parts, " ")
		}
		name = titleCaser.String(spaceRun.ReplaceAllString(strings.TrimSpace(name), " "))

		signal.Device = name
		signal.DeviceBrand = titleCaser.String(strings.SplitN(dp.Tag, " ", 2)[0])
		signal.DeviceSubcategory = dp.Subcategory

		l.record("devices", name)
		break
	}

	for _, pp := range l.plans {
		for _, m := range pp.re.FindAllStringSubmatch(q, -1) {
			candidate := m[1]
			if knownPlanTypes[candidate] {
				continue
			}
			signal.PlanType = candidate
			l.record("plans", candidate)
		}
	}

	for _, re := range servicePatterns {
		for _, m := range re.FindAllStringSubmatch(q, -1) {
			candidate := m[1]
			if knownServiceTypes[candidate] {
				continue
			}
			signal.ServiceType = candidate
			l.record("services", candidate)
		}
	}

	// Intent heuristics, cheapest last so purchase intent wins when
	// several fire (matches the production tuning).
	if strings.Contains(q, " vs ") || strings.Contains(q, " versus ") || strings.Contains(q, "compare") {
		signal.Intent = "Comparative"
		signal.PatternType = "comparison"
	}
	for _, w := range questionWords {
		if strings.Contains(q, w) {
			signal.Intent = "Informational"
			signal.PatternType = "question"
			break
		}
	}
	for _, w := range purchaseWords {
		if strings.Contains(q, w) {
			signal.Intent = "Transactional"
			signal.PatternType = "purchase"
			break
		}
	}

	return signal
}

// SuggestClassification deterministically derives a taxonomy branch from a
// learned signal, accumulating capped confidence contributions per signal
// type. Devices dominate; plan and service signals carry a flat bump.
func (l *Learner) SuggestClassification(query string, signal model.LearnedSignal) model.Suggestion {
	s := model.Suggestion{
		Query:     query,
		Timestamp: time.Now().UTC(),
	}

	switch {
	case signal.Device != "":
		s.L1Category = "Devices"
		s.Confidence += 30

		sub := signal.DeviceSubcategory
		if sub == "" {
			sub = "Smartphones"
		}
		s.L2Subcategory = sub
		s.Confidence += 20

		switch signal.PatternType {
		case "comparison":
			s.L3Intent = "Comparative"
			s.L4Topic = signal.Device + " Comparison"
			s.Confidence += 40
		case "purchase":
			s.L3Intent = "Transactional"
			s.L4Topic = signal.Device + " Purchase"
			s.Confidence += 40
		case "question":
			s.L3Intent = "Informational"
			s.L4Topic = signal.Device + " Specifications"
			s.Confidence += 30
		default:
			s.L3Intent = "Informational"
			s.L4Topic = signal.Device + " Information"
			s.Confidence += 20
		}

	case signal.PlanType != "":
		plan := titleCaser.String(signal.PlanType)
		s.L1Category = "Mobile Plans"
		s.L2Subcategory = plan + " Plans"
		s.L4Topic = plan + " Plan Information"
		s.L3Intent = orDefault(signal.Intent, "Informational")
		s.Confidence += 50

	case signal.ServiceType != "":
		svc := titleCaser.String(signal.ServiceType)
		s.L1Category = "Internet Services"
		s.L2Subcategory = svc + " Internet"
		s.L4Topic = svc + " Internet Information"
		s.L3Intent = orDefault(signal.Intent, "Informational")
		s.Confidence += 50
	}

	return s
}

// NewEntities returns the entities first seen by this Learner, sorted per
// kind.
func (l *Learner) NewEntities() model.NewEntities {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(model.NewEntities, len(l.newEntities))
	for kind, set := range l.newEntities {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		out[kind] = names
	}
	return out
}

func (l *Learner) record(kind, name string) {
	l.mu.Lock()
	l.newEntities[kind][name] = true
	l.mu.Unlock()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
