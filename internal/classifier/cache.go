package classifier

import (
	"github.com/dgraph-io/ristretto"
	"github.com/rotisserie/eris"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

const cacheBufferItems = 64

// resultCache memoizes classification results for repeated queries. Only
// positive results are cached: unclassified queries must keep flowing to
// the learning path. Cleared wholesale whenever the index is swapped.
type resultCache struct {
	cache *ristretto.Cache
}

func newResultCache(numCounters, maxCost int64) (*resultCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, eris.Wrap(err, "classifier: create result cache")
	}
	return &resultCache{cache: c}, nil
}

func (rc *resultCache) get(query string) (*model.ClassificationResult, bool) {
	if rc == nil {
		return nil, false
	}
	v, ok := rc.cache.Get(query)
	if !ok {
		return nil, false
	}
	res, ok := v.(*model.ClassificationResult)
	return res, ok
}

func (rc *resultCache) set(query string, res *model.ClassificationResult) {
	if rc == nil || res == nil {
		return
	}
	rc.cache.Set(query, res, 1)
}

func (rc *resultCache) clear() {
	if rc == nil {
		return
	}
	rc.cache.Clear()
}
