// Package cache provides a small in-process TTL cache for metadata-heavy
// catalog calls. Intended for small payloads (space/asset listings, EDMX
// documents); data samples are never cached.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Stats is a snapshot of cache counters for diagnostics.
type Stats struct {
	Enabled     bool `json:"enabled"`
	TTLSeconds  int  `json:"ttl_seconds"`
	MaxEntries  int  `json:"max_entries"`
	Size        int  `json:"size"`
	Hits        int  `json:"hits"`
	Misses      int  `json:"misses"`
	Sets        int  `json:"sets"`
	Evictions   int  `json:"evictions"`
	Expirations int  `json:"expirations"`
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// TTL is a TTL + LRU cache. Disabled entirely when ttl <= 0 or
// maxEntries <= 0, in which case Get always misses and Set is a no-op.
// Safe for concurrent use.
type TTL struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List // front = most recently used
	entries    map[string]*list.Element

	hits, misses, sets, evictions, expirations int

	now func() time.Time
}

// NewTTL creates a cache holding at most maxEntries values for ttl each.
func NewTTL(ttl time.Duration, maxEntries int) *TTL {
	return &TTL{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    map[string]*list.Element{},
		now:        time.Now,
	}
}

// Enabled reports whether the cache stores anything at all.
func (c *TTL) Enabled() bool {
	return c.ttl > 0 && c.maxEntries > 0
}

// Get returns the cached value for key, or nil and false on a miss. Expired
// entries count as misses and are dropped.
func (c *TTL) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.Enabled() {
		c.misses++
		return nil, false
	}

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	ent := elem.Value.(*entry)
	if c.now().After(ent.expiresAt) {
		c.removeLocked(elem)
		c.misses++
		c.expirations++
		return nil, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return ent.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *TTL) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.Enabled() {
		return
	}

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.expiresAt = c.now().Add(c.ttl)
		c.order.MoveToFront(elem)
		c.sets++
		return
	}

	elem := c.order.PushFront(&entry{
		key:       key,
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[key] = elem
	c.sets++

	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
		c.evictions++
	}
}

// PurgeExpired drops all expired entries and returns how many were removed.
func (c *TTL) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*entry).expiresAt) {
			c.removeLocked(elem)
			removed++
		}
		elem = prev
	}
	c.expirations += removed
	return removed
}

// Clear drops every entry without touching the counters.
func (c *TTL) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = map[string]*list.Element{}
}

// Stats returns a snapshot of the counters.
func (c *TTL) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Enabled:     c.Enabled(),
		TTLSeconds:  int(c.ttl / time.Second),
		MaxEntries:  c.maxEntries,
		Size:        len(c.entries),
		Hits:        c.hits,
		Misses:      c.misses,
		Sets:        c.sets,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

func (c *TTL) removeLocked(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*entry).key)
}
