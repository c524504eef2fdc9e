// Package cache persists analyzer schedules across runs.
//
// Schedules are derived data, recomputable from the network description
// at any time. The cache only skips recomputation; every implementation
// may drop entries freely, and callers must treat misses and failures
// as "compute it again".
package cache

import (
	"context"
	"sync"

	"github.com/roach88/pulsenet/internal/pulse"
)

// Record is one cached schedule: the press period and the pulses
// emitted within it, sorted by offset.
type Record struct {
	Period int64      `json:"period"`
	Events []pulse.At `json:"events"`
}

// ScheduleCache stores schedules keyed by network fingerprint and
// module name. Implementations must be safe for concurrent use.
//
// Get returns (zero, false, nil) on a miss. Put is idempotent: the
// schedule for a given key is deterministic, so writing it twice is
// harmless and the first write wins.
type ScheduleCache interface {
	Get(ctx context.Context, network, module string) (Record, bool, error)
	Put(ctx context.Context, network, module string, rec Record) error
}

// Memory returns an in-process ScheduleCache. Useful for tests and for
// sharing work between analyzers inside one process.
func Memory() ScheduleCache {
	return &memoryCache{entries: make(map[memoryKey]Record)}
}

type memoryKey struct {
	network string
	module  string
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[memoryKey]Record
}

func (c *memoryCache) Get(_ context.Context, network, module string) (Record, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.entries[memoryKey{network, module}]
	return rec, ok, nil
}

func (c *memoryCache) Put(_ context.Context, network, module string, rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := memoryKey{network, module}
	if _, exists := c.entries[key]; exists {
		return nil
	}
	c.entries[key] = rec
	return nil
}
