package vectorfn

import (
	"fmt"
	"sync"

	"github.com/sasha-s/go-deadlock"
)

// cache is a process-wide, opt-in memoization table keyed by the
// unordered pair {a, b} plus the metric, so it preserves
// dist(a,b) == dist(b,a) (spec.md §4.3/§5). It shards its locking across
// buckets so concurrent read-and-insert from different keys never blocks
// on a single global mutex.
type cache struct {
	shards [256]shard
}

type shard struct {
	mu   deadlock.RWMutex
	data map[string]float64
}

func newCache() *cache {
	c := &cache{}
	for i := range c.shards {
		c.shards[i].data = make(map[string]float64)
	}
	return c
}

func (c *cache) shardFor(key string) *shard {
	var h uint32
	for i := 0; i < len(key); i++ {
		h = h*31 + uint32(key[i])
	}
	return &c.shards[h%uint32(len(c.shards))]
}

func canonicalKey(a, b []float64, metric Metric) string {
	ka, kb := fmt.Sprint(a), fmt.Sprint(b)
	if ka > kb {
		ka, kb = kb, ka
	}
	return fmt.Sprintf("%d|%s|%s", metric, ka, kb)
}

func (c *cache) get(a, b []float64, metric Metric) (float64, bool) {
	key := canonicalKey(a, b, metric)
	s := c.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[key]
	return d, ok
}

func (c *cache) put(a, b []float64, metric Metric, d float64) {
	key := canonicalKey(a, b, metric)
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = d
}

func (c *cache) flush() {
	for i := range c.shards {
		c.shards[i].mu.Lock()
		c.shards[i].data = make(map[string]float64)
		c.shards[i].mu.Unlock()
	}
}

// cachePtr holds the process-wide cache, nil (disabled) by default.
type cachePtr struct {
	mu sync.RWMutex
	c  *cache
}

func (p *cachePtr) load() *cache {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.c
}

func (p *cachePtr) store(c *cache) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.c = c
}

var globalCache cachePtr

// EnableCache turns on the process-wide distance memoization cache. The
// default is disabled, per spec.md §9 "admit a disabled mode (the default)".
func EnableCache() {
	globalCache.store(newCache())
}

// DisableCache turns the cache back off.
func DisableCache() {
	globalCache.store(nil)
}

// FlushCache clears all memoized entries without disabling the cache,
// for test isolation (spec.md §9).
func FlushCache() {
	if c := globalCache.load(); c != nil {
		c.flush()
	}
}

// CacheEnabled reports whether the memoization cache is currently active.
func CacheEnabled() bool {
	return globalCache.load() != nil
}
