package model

import "time"

// LearnedSignal is what the learning engine extracted from a single
// unclassified query: at most one device, plus plan/service/intent hints.
type LearnedSignal struct {
	Device            string `json:"device,omitempty"`
	DeviceBrand       string `json:"device_brand,omitempty"`
	DeviceSubcategory string `json:"device_subcategory,omitempty"`
	PlanType          string `json:"plan_type,omitempty"`
	ServiceType       string `json:"service_type,omitempty"`
	Intent            string `json:"intent,omitempty"`
	PatternType       string `json:"pattern_type,omitempty"`
}

// Empty reports whether no signal of any kind was extracted.
func (s LearnedSignal) Empty() bool {
	return s.Device == "" && s.PlanType == "" && s.ServiceType == "" && s.Intent == ""
}

// Suggestion is a proposed taxonomy extension for one unclassified query.
// Confidence accumulates capped per-signal contributions; suggestions below
// the configured minimum are discarded before mutation.
type Suggestion struct {
	Query         string    `json:"query"`
	Timestamp     time.Time `json:"timestamp"`
	L1Category    string    `json:"L1_category,omitempty"`
	L2Subcategory string    `json:"L2_subcategory,omitempty"`
	L3Intent      string    `json:"L3_intent,omitempty"`
	L4Topic       string    `json:"L4_topic,omitempty"`
	Confidence    int       `json:"confidence"`
}

// NewEntities lists entities first seen during a learning pass, keyed by
// kind (devices, plans, services).
type NewEntities map[string][]string

// TaxonomyUpdate reports the outcome of an applied taxonomy mutation.
type TaxonomyUpdate struct {
	AddedCount  int         `json:"added_count"`
	BackupPath  string      `json:"backup_path,omitempty"`
	NewEntities NewEntities `json:"new_entities,omitempty"`
}

// LearnReport is the outer-layer contract for a learning pass: every
// suggestion produced, plus the applied update when mutation was requested.
type LearnReport struct {
	Suggestions   []Suggestion    `json:"suggestions"`
	AppliedUpdate *TaxonomyUpdate `json:"applied_update,omitempty"`
}
