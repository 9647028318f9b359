package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const diskExt = ".pcm.zst"

// DiskCache is an L2 cache of zstd-compressed values, one file per key.
// Entries are evicted oldest access first; the access time is the file's
// modification time, so the cache survives restarts without an index.
type DiskCache struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	stats Stats
}

// NewDiskCache opens (creating if needed) a disk cache at basePath holding at
// most capacity compressed bytes.
func NewDiskCache(basePath string, capacity int64) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		encoder:  enc,
		decoder:  dec,
	}
	for _, e := range dc.entries() {
		dc.size += e.size
	}
	return dc, nil
}

// Get reads and decompresses the value stored under key.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	path := dc.filePath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		dc.stats.Misses++
		return nil, false
	}

	value, err := dc.decoder.DecodeAll(data, nil)
	if err != nil {
		log.Warn("dropping corrupt cache file", "path", path, "error", err)
		dc.removeFile(path, int64(len(data)))
		dc.stats.Misses++
		return nil, false
	}

	now := time.Now()
	_ = os.Chtimes(path, now, now)
	dc.stats.Hits++
	return value, true
}

// Put compresses and stores value under key.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	data := dc.encoder.EncodeAll(value, nil)
	size := int64(len(data))
	if size > dc.capacity {
		return ErrItemTooLarge
	}

	path := dc.filePath(key)
	if st, err := os.Stat(path); err == nil {
		dc.removeFile(path, st.Size())
	}
	dc.evictFor(size)

	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	dc.size += size
	return nil
}

// Stats returns a snapshot of the counters.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	s := dc.stats
	s.Capacity = dc.capacity
	s.Size = dc.size
	s.Items = len(dc.entries())
	return s
}

// Close releases the codec resources.
func (dc *DiskCache) Close() error {
	dc.decoder.Close()
	return dc.encoder.Close()
}

type diskEntry struct {
	path    string
	size    int64
	modTime time.Time
}

func (dc *DiskCache) entries() []diskEntry {
	dirEntries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return nil
	}
	out := make([]diskEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), diskExt) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, diskEntry{
			path:    filepath.Join(dc.basePath, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return out
}

// evictFor removes the least recently used files until size more bytes fit.
func (dc *DiskCache) evictFor(size int64) {
	if dc.size+size <= dc.capacity {
		return
	}
	entries := dc.entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].modTime.Before(entries[j].modTime) })
	for _, e := range entries {
		if dc.size+size <= dc.capacity {
			return
		}
		dc.removeFile(e.path, e.size)
		dc.stats.Evictions++
	}
}

func (dc *DiskCache) removeFile(path string, size int64) {
	if err := os.Remove(path); err == nil {
		dc.size -= size
	}
}

func (dc *DiskCache) filePath(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(dc.basePath, hex.EncodeToString(hash[:16])+diskExt)
}

// writeFile writes to a temp file first, then renames it into place.
func writeFile(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}
