package cache

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity.
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when a cache file cannot be decoded.
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// Stats holds cache counters.
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d items, %s of %s, %.0f%% hits",
		s.Items,
		humanize.IBytes(uint64(s.Size)),     //nolint:gosec
		humanize.IBytes(uint64(s.Capacity)), //nolint:gosec
		s.HitRate()*100,
	)
}
