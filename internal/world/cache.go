package world

import (
	"sync/atomic"
	"time"
)

// hitResetAge is how long an entry's hit counter is allowed to stand
// before ResetHitCounts zeroes it again.
const hitResetAge = 300 * time.Second

// cacheEntry is a cached value plus an atomic hit counter and the
// wall-clock instant of the counter's last reset. The hit counter is an
// eviction hint, not a consistency primitive, so plain atomic increments
// are enough.
type cacheEntry struct {
	value     *Chunk
	hits      atomic.Int64
	lastReset atomic.Int64 // unix nanos
}

func newCacheEntry(v *Chunk, now time.Time) *cacheEntry {
	e := &cacheEntry{value: v}
	e.lastReset.Store(now.UnixNano())
	return e
}

// Cache is a bounded, dynamically-growing associative store of
// ChunkPos -> Chunk. It tracks a current and a maximum capacity (both
// measured in entry count) and an ordered recency sequence used as an
// eviction tie-break. It is not itself goroutine-safe: callers that share
// a Cache across goroutines hold a lock around every call, the way
// Storage does with its single readers-writer lock.
type Cache struct {
	entries  map[ChunkPos]*cacheEntry
	recency  []ChunkPos // index 0 = least recently used, back = most
	current  int
	max      int
	lowHitEv atomic.Int64
}

// NewCache returns a cache with the given initial and maximum capacity
// (entry counts). Capacities below 1 are raised to 1 so the cache can
// always hold at least one entry.
func NewCache(initial, max int) *Cache {
	if initial < 1 {
		initial = 1
	}
	if max < initial {
		max = initial
	}
	return &Cache{
		entries: make(map[ChunkPos]*cacheEntry, initial),
		current: initial,
		max:     max,
	}
}

// Len returns the number of resident entries.
func (c *Cache) Len() int { return len(c.entries) }

// CurrentCapacity returns the cache's current capacity.
func (c *Cache) CurrentCapacity() int { return c.current }

// MaxCapacity returns the cache's ceiling capacity.
func (c *Cache) MaxCapacity() int { return c.max }

// UsageRatio returns len/current_capacity.
func (c *Cache) UsageRatio() float64 {
	if c.current == 0 {
		return 0
	}
	return float64(len(c.entries)) / float64(c.current)
}

// Contains reports whether k is resident, without affecting recency or
// hit count.
func (c *Cache) Contains(k ChunkPos) bool {
	_, ok := c.entries[k]
	return ok
}

// Peek returns the chunk for k without affecting its hit count or
// recency position — used by callers (flush, diagnostics) that need the
// value but must not perturb eviction bookkeeping as a side effect of
// looking at it.
func (c *Cache) Peek(k ChunkPos) (*Chunk, bool) {
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Get returns the chunk for k. On a hit it atomically increments the
// entry's hit counter and moves k to the back of the recency sequence.
func (c *Cache) Get(k ChunkPos) (*Chunk, bool) {
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	e.hits.Add(1)
	c.touch(k)
	return e.value, true
}

// touch moves k to the back of the recency sequence, that is, marks it
// most-recently-used.
func (c *Cache) touch(k ChunkPos) {
	for i, p := range c.recency {
		if p == k {
			c.recency = append(c.recency[:i], c.recency[i+1:]...)
			break
		}
	}
	c.recency = append(c.recency, k)
}

// InsertResult reports what Insert did besides placing the new value.
type InsertResult struct {
	Displaced *Chunk   // the chunk previously at k, if any
	Expanded  bool     // whether current capacity grew to make room
	Evicted   ChunkPos // the key evicted to make room, if EvictedOK
	EvictedOK bool
}

// Insert places v at k. If k is already present, it is replaced in place
// and moved to the back of the recency sequence. Otherwise, if the cache
// is at capacity, Insert first tries to grow (doubling current capacity,
// capped at max capacity); if growth is impossible it evicts the single
// entry with the smallest hit count (ties broken by recency-sequence,
// i.e. iteration, order) before inserting.
func (c *Cache) Insert(k ChunkPos, v *Chunk) InsertResult {
	now := time.Now()
	if existing, ok := c.entries[k]; ok {
		old := existing.value
		existing.value = v
		c.touch(k)
		return InsertResult{Displaced: old}
	}

	var result InsertResult
	if len(c.entries) >= c.current {
		if c.current < c.max {
			grown := c.current * 2
			if grown > c.max {
				grown = c.max
			}
			c.current = grown
			result.Expanded = true
		} else {
			evictKey, ok := c.leastHitKey()
			if ok {
				delete(c.entries, evictKey)
				c.removeFromRecency(evictKey)
				c.lowHitEv.Add(1)
				result.Evicted = evictKey
				result.EvictedOK = true
			}
		}
	}

	c.entries[k] = newCacheEntry(v, now)
	c.recency = append(c.recency, k)
	return result
}

// leastHitKey returns the resident key with the smallest hit count,
// breaking ties by recency-sequence (iteration) order — the earliest key
// encountered in that order wins.
func (c *Cache) leastHitKey() (ChunkPos, bool) {
	var best ChunkPos
	var bestHits int64
	found := false
	for _, k := range c.recency {
		e, ok := c.entries[k]
		if !ok {
			continue
		}
		if !found || e.hits.Load() < bestHits {
			best = k
			bestHits = e.hits.Load()
			found = true
		}
	}
	return best, found
}

func (c *Cache) removeFromRecency(k ChunkPos) {
	for i, p := range c.recency {
		if p == k {
			c.recency = append(c.recency[:i], c.recency[i+1:]...)
			return
		}
	}
}

// Remove deletes k if present, reporting whether it was.
func (c *Cache) Remove(k ChunkPos) bool {
	if _, ok := c.entries[k]; !ok {
		return false
	}
	delete(c.entries, k)
	c.removeFromRecency(k)
	return true
}

// Clear empties the cache without touching its capacities.
func (c *Cache) Clear() {
	c.entries = make(map[ChunkPos]*cacheEntry)
	c.recency = nil
}

// Keys returns every resident key, in recency order (least to most
// recently used).
func (c *Cache) Keys() []ChunkPos {
	out := make([]ChunkPos, len(c.recency))
	copy(out, c.recency)
	return out
}

// LowHitEvictions returns the monotonic count of evictions caused by low
// hit counts (as opposed to explicit Remove calls).
func (c *Cache) LowHitEvictions() int64 { return c.lowHitEv.Load() }

// ResetHitCounts zeroes the hit counter of every entry whose last reset
// is older than hitResetAge, recording the new reset instant. Intended to
// be called periodically so that hit counts reflect recent access
// patterns rather than all-time totals.
func (c *Cache) ResetHitCounts() {
	now := time.Now()
	cutoff := now.Add(-hitResetAge).UnixNano()
	for _, e := range c.entries {
		if e.lastReset.Load() < cutoff {
			e.hits.Store(0)
			e.lastReset.Store(now.UnixNano())
		}
	}
}
