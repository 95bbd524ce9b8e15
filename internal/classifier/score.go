package classifier

import "strings"

// matchScore computes the similarity between a normalized query and an
// index keyword:
//
//	keyword substring of query   → 0.9
//	query substring of keyword   → 0.7
//	otherwise Jaccard over token sets, boosted to min(0.95, j+0.4) when
//	every keyword token appears in the query.
//
// An empty token set on either side scores 0.
func matchScore(query string, queryWords map[string]struct{}, keyword string) float64 {
	if strings.Contains(query, keyword) {
		return 0.9
	}
	if strings.Contains(keyword, query) {
		return 0.7
	}

	keywordWords := strings.Fields(keyword)
	if len(keywordWords) == 0 || len(queryWords) == 0 {
		return 0
	}

	overlap := 0
	union := len(queryWords)
	seen := make(map[string]struct{}, len(keywordWords))
	for _, w := range keywordWords {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := queryWords[w]; ok {
			overlap++
		} else {
			union++
		}
	}

	jaccard := float64(overlap) / float64(union)

	// All keyword tokens present in the query: strong containment signal.
	if overlap == len(seen) {
		boosted := jaccard + 0.4
		if boosted > 0.95 {
			boosted = 0.95
		}
		return boosted
	}

	return jaccard
}

// tokenSet splits a normalized query into its unique tokens.
func tokenSet(q string) map[string]struct{} {
	words := strings.Fields(q)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
