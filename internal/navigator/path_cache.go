package navigator

import (
	"sync"

	"unitnav/internal/core"
)

// DefaultCacheCapacity is the number of routes a cache keeps by default
const DefaultCacheCapacity = 1024

type cacheKey struct {
	unitType    string
	start, goal core.AreaID
}

type cachedStep struct {
	area core.AreaID
	how  core.NavDirection
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// PathCache remembers area routes per unit type and area pair. Entries are
// hints only; a stale entry produces a worse route, never a wrong one.
type PathCache struct {
	mu       sync.Mutex
	entries  map[cacheKey][]cachedStep
	order    []cacheKey
	capacity int
	hits     uint64
	misses   uint64
}

// NewPathCache creates a cache holding up to capacity routes
func NewPathCache(capacity int) *PathCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &PathCache{
		entries:  make(map[cacheKey][]cachedStep),
		capacity: capacity,
	}
}

// Lookup returns the cached route from start to goal. Routes through areas
// that no longer exist count as misses.
func (c *PathCache) Lookup(unitType string, start, goal core.AreaID, mesh core.NavMesh) ([]core.RouteStep, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.entries[cacheKey{unitType, start, goal}]
	if !ok {
		c.misses++
		return nil, false
	}

	steps := make([]core.RouteStep, 0, len(cached))
	for _, s := range cached {
		area := mesh.Area(s.area)
		if area == nil {
			c.misses++
			return nil, false
		}
		steps = append(steps, core.RouteStep{Area: area, How: s.how})
	}
	c.hits++
	return steps, true
}

// Store remembers a route, evicting the oldest entry when full
func (c *PathCache) Store(unitType string, start, goal core.AreaID, steps []core.RouteStep) {
	cached := make([]cachedStep, len(steps))
	for i, s := range steps {
		cached[i] = cachedStep{area: s.Area.ID(), how: s.How}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{unitType, start, goal}
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cached
}

// Clear drops every entry and resets the statistics
func (c *PathCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey][]cachedStep)
	c.order = nil
	c.hits = 0
	c.misses = 0
}

// Stats returns the current statistics
func (c *PathCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
