// Package projcache is the per-project, keyed, lazily populated store for
// cross-file facts. Many file sessions share one cache; a fact's compute
// function runs at most once per key per run, no matter how many sessions
// ask for it concurrently.
package projcache

import (
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/oxhq/lintfx/core"
)

// Cache stores facts keyed by (project root, fact kind). Reads are lock-free
// once a fact is populated; concurrent first requests for the same key are
// collapsed to a single compute via singleflight.
type Cache struct {
	entries sync.Map // string -> core.Fact
	group   singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	computes atomic.Int64
}

// New creates an empty cache, valid for one analysis run. Hosts create a
// fresh cache per run; the underlying project state is assumed stable for
// the run's duration.
func New() *Cache {
	return &Cache{}
}

const keySep = "\x00"

// GetOrCompute returns the fact for (projectRoot, factKind), invoking
// compute on the first request only. A compute error is indistinguishable
// from an absent source: both are cached as a negative fact and never
// retried within the run.
func (c *Cache) GetOrCompute(projectRoot, factKind string, compute func() (any, error)) core.Fact {
	key := projectRoot + keySep + factKind

	if v, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		return v.(core.Fact)
	}
	c.misses.Add(1)

	v, _, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have stored the fact between our Load
		// and the flight start.
		if v, ok := c.entries.Load(key); ok {
			return v.(core.Fact), nil
		}

		c.computes.Add(1)
		fact := core.Fact{}
		if compute != nil {
			if value, err := compute(); err == nil {
				fact = core.Fact{Value: value, Found: true}
			}
		}
		c.entries.Store(key, fact)
		return fact, nil
	})
	return v.(core.Fact)
}

// Invalidate drops every fact stored for one project root. Called between
// runs when the root changes; never during a run.
func (c *Cache) Invalidate(projectRoot string) {
	prefix := projectRoot + keySep
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
		}
		return true
	})
}

// Stats returns cache counters for observability.
func (c *Cache) Stats() map[string]int64 {
	var entries int64
	c.entries.Range(func(_, _ any) bool {
		entries++
		return true
	})
	return map[string]int64{
		"hits":     c.hits.Load(),
		"misses":   c.misses.Load(),
		"computes": c.computes.Load(),
		"entries":  entries,
	}
}
