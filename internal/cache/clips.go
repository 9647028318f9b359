package cache

import (
	"github.com/charmbracelet/log"
)

// Clips is a two-level cache: lookups try memory first, then disk, and disk
// hits are promoted to memory. The disk level is optional.
type Clips struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewClips combines a memory cache with an optional disk cache.
func NewClips(memory *MemoryCache, disk *DiskCache) *Clips {
	return &Clips{memory: memory, disk: disk}
}

// Get looks key up in memory, then on disk.
func (c *Clips) Get(key string) ([]byte, bool) {
	if v, ok := c.memory.Get(key); ok {
		return v, true
	}
	if c.disk == nil {
		return nil, false
	}
	v, ok := c.disk.Get(key)
	if !ok {
		return nil, false
	}
	if err := c.memory.Put(key, v); err != nil {
		log.Debug("clip not promoted to memory", "error", err)
	}
	return v, true
}

// Put stores value in every level. It fails only when no level accepted it.
func (c *Clips) Put(key string, value []byte) error {
	memErr := c.memory.Put(key, value)
	if c.disk == nil {
		return memErr
	}
	if err := c.disk.Put(key, value); err != nil {
		log.Debug("clip not written to disk cache", "error", err)
		if memErr != nil {
			return err
		}
	}
	return nil
}

// Stats returns the counters of the memory and disk levels.
func (c *Clips) Stats() (memory, disk Stats) {
	memory = c.memory.Stats()
	if c.disk != nil {
		disk = c.disk.Stats()
	}
	return memory, disk
}

// Close closes the disk level.
func (c *Clips) Close() error {
	if c.disk == nil {
		return nil
	}
	return c.disk.Close()
}
