package cache

import (
	"container/list"
	"sync"
)

// MemoryCache is an L1 in-memory cache with LRU eviction bounded by bytes.
type MemoryCache struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu    sync.Mutex
	stats Stats
}

type memoryEntry struct {
	key   string
	value []byte
}

// NewMemoryCache creates a memory cache holding at most capacity bytes.
func NewMemoryCache(capacity int64) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get retrieves a value and marks it most recently used.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*memoryEntry).value, true
}

// Put stores a value, evicting least recently used entries to make room.
func (c *MemoryCache) Put(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := int64(len(value))
	if size > c.capacity {
		return ErrItemTooLarge
	}

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	for c.size+size > c.capacity && c.eviction.Len() > 0 {
		c.removeElement(c.eviction.Back())
		c.stats.Evictions++
	}

	c.items[key] = c.eviction.PushFront(&memoryEntry{key: key, value: value})
	c.size += size
	return nil
}

// Delete removes key if present.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Stats returns a snapshot of the counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Capacity = c.capacity
	s.Size = c.size
	s.Items = len(c.items)
	return s
}

// removeElement must be called with the lock held.
func (c *MemoryCache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*memoryEntry)
	delete(c.items, entry.key)
	c.size -= int64(len(entry.value))
}
