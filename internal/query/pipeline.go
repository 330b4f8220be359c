package query

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"rentgrip/internal/domain"
	"rentgrip/internal/search"
)

type cacheKey struct {
	version   uint64
	selection string
	query     string
	sort      domain.SortMode
}

// Pipeline memoizes Evaluate per (catalog version, selection, query, sort).
// Cached result slices are shared and must not be modified.
type Pipeline struct {
	cache  *lru.Cache[cacheKey, []domain.Item]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPipeline creates a pipeline remembering up to size result lists.
// size <= 0 disables memoization.
func NewPipeline(size int) *Pipeline {
	p := &Pipeline{}
	if size > 0 {
		cache, err := lru.New[cacheKey, []domain.Item](size)
		if err == nil {
			p.cache = cache
		}
	}
	return p
}

// Run returns Evaluate(in), reusing an earlier result for the same inputs.
// version must change whenever in.Items does.
func (p *Pipeline) Run(version uint64, in Input) []domain.Item {
	if p.cache == nil {
		p.misses.Add(1)
		return Evaluate(in)
	}

	key := cacheKey{
		version:   version,
		selection: in.Selection.Key(),
		query:     strings.Join(search.Tokenize(in.Query), " "),
		sort:      in.Sort,
	}
	if items, ok := p.cache.Get(key); ok {
		p.hits.Add(1)
		return items
	}
	p.misses.Add(1)
	items := Evaluate(in)
	p.cache.Add(key, items)
	return items
}

// Purge drops every cached result
func (p *Pipeline) Purge() {
	if p.cache != nil {
		p.cache.Purge()
	}
}

// Stats returns cache hit and miss counts
func (p *Pipeline) Stats() (hits, misses uint64) {
	return p.hits.Load(), p.misses.Load()
}
