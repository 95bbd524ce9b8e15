package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

func TestAnalyzeUnclassified_Devices(t *testing.T) {
	tests := []struct {
		query       string
		wantDevice  string
		wantBrand   string
		wantSubcat  string
		wantPattern string
	}{
		{
			query:      "iphone 15 pro max specs",
			wantDevice: "Iphone 15 Pro Max",
			wantBrand:  "Iphone",
			wantSubcat: "Apple iPhone",
		},
		{
			query:      "samsung galaxy s24 ultra reviews",
			wantDevice: "Samsung Galaxy S 24 Ultra",
			wantBrand:  "Samsung",
			wantSubcat: "Samsung Galaxy S Series",
		},
		{
			query:      "samsung z fold 6 screen size",
			wantDevice: "Samsung Galaxy Z Fold 6",
			wantBrand:  "Samsung",
			wantSubcat: "Samsung Foldables",
		},
		{
			query:       "buy pixel 9 pro",
			wantDevice:  "Pixel 9 Pro",
			wantBrand:   "Pixel",
			wantSubcat:  "Google Pixel",
			wantPattern: "purchase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			l := New()
			got := l.AnalyzeUnclassified(tt.query)
			assert.Equal(t, tt.wantDevice, got.Device)
			assert.Equal(t, tt.wantBrand, got.DeviceBrand)
			assert.Equal(t, tt.wantSubcat, got.DeviceSubcategory)
			assert.Equal(t, tt.wantPattern, got.PatternType)
		})
	}
}

func TestAnalyzeUnclassified_FirstDeviceWins(t *testing.T) {
	l := New()

	got := l.AnalyzeUnclassified("compare iphone 15 vs pixel 9")

	assert.Equal(t, "Iphone 15", got.Device)
	assert.Equal(t, "Comparative", got.Intent)
	assert.Equal(t, "comparison", got.PatternType)

	// The scan stops at the first device hit, so pixel is never recorded.
	assert.Equal(t, []string{"Iphone 15"}, l.NewEntities()["devices"])
}

func TestAnalyzeUnclassified_PlanType(t *testing.T) {
	l := New()

	got := l.AnalyzeUnclassified("acme plan details")
	assert.Equal(t, "acme", got.PlanType)
	assert.Empty(t, got.Device)

	// Plan types already in the base taxonomy are not learnable.
	got = l.AnalyzeUnclassified("unlimited plan options")
	assert.Empty(t, got.PlanType)
	assert.True(t, got.Empty())
}

func TestAnalyzeUnclassified_ServiceType(t *testing.T) {
	l := New()

	got := l.AnalyzeUnclassified("satellite internet availability")
	assert.Equal(t, "satellite", got.ServiceType)

	got = l.AnalyzeUnclassified("fiber internet speeds")
	assert.Empty(t, got.ServiceType)
}

func TestAnalyzeUnclassified_IntentPrecedence(t *testing.T) {
	l := New()

	// Question and purchase markers both fire; purchase runs last and wins.
	got := l.AnalyzeUnclassified("how much does the iphone 15 cost to buy")
	assert.Equal(t, "Transactional", got.Intent)
	assert.Equal(t, "purchase", got.PatternType)

	// Comparison loses to a question marker.
	got = l.AnalyzeUnclassified("which is better in a samsung s24 vs s23 compare")
	assert.Equal(t, "Informational", got.Intent)
	assert.Equal(t, "question", got.PatternType)
}

func TestNewEntities_SortedAndDeduplicated(t *testing.T) {
	l := New()

	l.AnalyzeUnclassified("zeta plan cost")
	l.AnalyzeUnclassified("acme plan cost")
	l.AnalyzeUnclassified("acme plan cost")

	entities := l.NewEntities()
	assert.Equal(t, []string{"acme", "zeta"}, entities["plans"])
	assert.Empty(t, entities["devices"])
	assert.Empty(t, entities["services"])
}

func TestSuggestClassification_Device(t *testing.T) {
	l := New()

	tests := []struct {
		name     string
		signal   model.LearnedSignal
		wantL3   string
		wantL4   string
		wantConf int
	}{
		{
			name:     "purchase",
			signal:   model.LearnedSignal{Device: "Iphone 15", DeviceSubcategory: "Apple iPhone", PatternType: "purchase"},
			wantL3:   "Transactional",
			wantL4:   "Iphone 15 Purchase",
			wantConf: 90,
		},
		{
			name:     "comparison",
			signal:   model.LearnedSignal{Device: "Pixel 9", DeviceSubcategory: "Google Pixel", PatternType: "comparison"},
			wantL3:   "Comparative",
			wantL4:   "Pixel 9 Comparison",
			wantConf: 90,
		},
		{
			name:     "question",
			signal:   model.LearnedSignal{Device: "Iphone 15", DeviceSubcategory: "Apple iPhone", PatternType: "question"},
			wantL3:   "Informational",
			wantL4:   "Iphone 15 Specifications",
			wantConf: 80,
		},
		{
			name:     "no intent",
			signal:   model.LearnedSignal{Device: "Iphone 15", DeviceSubcategory: "Apple iPhone"},
			wantL3:   "Informational",
			wantL4:   "Iphone 15 Information",
			wantConf: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.SuggestClassification("q", tt.signal)
			assert.Equal(t, "Devices", got.L1Category)
			assert.Equal(t, tt.signal.DeviceSubcategory, got.L2Subcategory)
			assert.Equal(t, tt.wantL3, got.L3Intent)
			assert.Equal(t, tt.wantL4, got.L4Topic)
			assert.Equal(t, tt.wantConf, got.Confidence)
		})
	}
}

func TestSuggestClassification_DeviceSubcategoryDefault(t *testing.T) {
	l := New()

	got := l.SuggestClassification("q", model.LearnedSignal{Device: "Nothing Phone 2"})
	assert.Equal(t, "Smartphones", got.L2Subcategory)
}

func TestSuggestClassification_Plan(t *testing.T) {
	l := New()

	got := l.SuggestClassification("acme plan details", model.LearnedSignal{PlanType: "acme"})

	assert.Equal(t, "Mobile Plans", got.L1Category)
	assert.Equal(t, "Acme Plans", got.L2Subcategory)
	assert.Equal(t, "Informational", got.L3Intent)
	assert.Equal(t, "Acme Plan Information", got.L4Topic)
	assert.Equal(t, 50, got.Confidence)
}

func TestSuggestClassification_Service(t *testing.T) {
	l := New()

	got := l.SuggestClassification("satellite internet", model.LearnedSignal{ServiceType: "satellite", Intent: "Transactional"})

	assert.Equal(t, "Internet Services", got.L1Category)
	assert.Equal(t, "Satellite Internet", got.L2Subcategory)
	assert.Equal(t, "Transactional", got.L3Intent)
	assert.Equal(t, "Satellite Internet Information", got.L4Topic)
	assert.Equal(t, 50, got.Confidence)
}

func TestSuggestClassification_NoSignal(t *testing.T) {
	l := New()

	got := l.SuggestClassification("gibberish", model.LearnedSignal{})
	assert.Empty(t, got.L1Category)
	assert.Zero(t, got.Confidence)
}
