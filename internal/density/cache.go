package density

import "sync"

// CacheKey identifies one rendered grid. Generation ties entries to the
// dataset snapshot they were computed from, so a reload never serves stale
// counts.
type CacheKey struct {
	Generation uint64
	Filter     Filter
	BinsX      int
	BinsY      int
}

// GridCache is a thread-safe LRU cache of heat-map grids. Dashboards poll the
// same filter on every refresh tick.
type GridCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[CacheKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   CacheKey
	value Grid
	prev  *entry
	next  *entry
}

// NewGridCache creates a cache holding at most maxEntries grids. A
// non-positive size disables caching.
func NewGridCache(maxEntries int) *GridCache {
	return &GridCache{
		maxEntries: maxEntries,
		entries:    make(map[CacheKey]*entry),
	}
}

// Get returns the cached grid for key and promotes it.
func (c *GridCache) Get(key CacheKey) (Grid, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Grid{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *GridCache) Put(key CacheKey, value Grid) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len returns the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *GridCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *GridCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *GridCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *GridCache) evictTail() {
	if c.tail == nil {
		return
	}
	victim := c.tail
	c.remove(victim)
	delete(c.entries, victim.key)
}
