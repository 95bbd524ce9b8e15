package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		keyword string
		want    float64
	}{
		{
			name:    "keyword substring of query",
			query:   "best verizon unlimited plan 2026",
			keyword: "verizon unlimited plan",
			want:    0.9,
		},
		{
			name:    "query substring of keyword",
			query:   "customer service",
			keyword: "att customer service number",
			want:    0.7,
		},
		{
			name:    "all keyword tokens in query gets boosted jaccard",
			query:   "plan unlimited verizon cheap",
			keyword: "verizon plan",
			// overlap 2, union 4, jaccard 0.5, boosted to 0.9.
			want: 0.9,
		},
		{
			name:    "boost capped at 0.95",
			query:   "verizon plan",
			keyword: "plan verizon",
			// jaccard 1.0 but reordered tokens are not a substring hit;
			// boost caps at 0.95.
			want: 0.95,
		},
		{
			name:    "partial token overlap plain jaccard",
			query:   "verizon coverage map",
			keyword: "att coverage map",
			// overlap 2, union 4.
			want: 0.5,
		},
		{
			name:    "no overlap",
			query:   "cheap tablet deals",
			keyword: "fiber internet",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchScore(tt.query, tokenSet(tt.query), tt.keyword)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTokenSet(t *testing.T) {
	set := tokenSet("verizon plan verizon")
	assert.Len(t, set, 2)
	_, ok := set["verizon"]
	assert.True(t, ok)
}
