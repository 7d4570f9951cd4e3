package unitnav

import "sync"

// SimClock is the simulation time source shared by all navigators. It only
// moves when the engine ticks.
type SimClock struct {
	mu  sync.RWMutex
	now float64
}

// Now returns the simulated seconds since the engine started
func (c *SimClock) Now() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by dt seconds
func (c *SimClock) Advance(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += dt
}
