package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMemoryCacheLRU(t *testing.T) {
	c := NewMemoryCache(10)

	if err := c.Put("a", []byte("1234")); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("b", []byte("1234")); err != nil {
		t.Fatal(err)
	}
	// touch a so b becomes the eviction candidate
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}
	if err := c.Put("c", []byte("1234")); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}

	s := c.Stats()
	if s.Items != 2 || s.Size != 8 || s.Evictions != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestMemoryCacheReplaceAndDelete(t *testing.T) {
	c := NewMemoryCache(100)
	_ = c.Put("k", []byte("short"))
	_ = c.Put("k", []byte("much longer value"))
	if s := c.Stats(); s.Size != int64(len("much longer value")) || s.Items != 1 {
		t.Errorf("unexpected stats after replace: %+v", s)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("k should be gone")
	}
}

func TestMemoryCacheTooLarge(t *testing.T) {
	c := NewMemoryCache(4)
	if err := c.Put("k", []byte("12345")); err != ErrItemTooLarge {
		t.Errorf("expected ErrItemTooLarge, got %v", err)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close() //nolint:errcheck

	value := bytes.Repeat([]byte{0, 1, 2, 3}, 4096)
	if err := dc.Put("clip", value); err != nil {
		t.Fatal(err)
	}

	got, ok := dc.Get("clip")
	if !ok || !bytes.Equal(got, value) {
		t.Fatal("disk cache returned wrong data")
	}
	if s := dc.Stats(); s.Items != 1 || s.Size <= 0 || s.Size >= int64(len(value)) {
		t.Errorf("expected one compressed entry, got %+v", s)
	}

	// reopening picks up existing files
	dc2, err := NewDiskCache(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	defer dc2.Close() //nolint:errcheck
	if _, ok := dc2.Get("clip"); !ok {
		t.Error("entry lost across reopen")
	}
}

func TestDiskCacheEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close() //nolint:errcheck

	_ = dc.Put("old", []byte(strings.Repeat("a", 100)))
	_ = dc.Put("new", []byte(strings.Repeat("b", 100)))

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(dc.filePath("old"), past, past); err != nil {
		t.Fatal(err)
	}

	dc.capacity = dc.size + 1
	_ = dc.Put("third", []byte(strings.Repeat("c", 100)))

	if _, ok := dc.Get("old"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := dc.Get("third"); !ok {
		t.Error("newest entry should be present")
	}
}

func TestDiskCacheCorruptFile(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close() //nolint:errcheck

	if err := os.WriteFile(dc.filePath("bad"), []byte("not zstd"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := dc.Get("bad"); ok {
		t.Error("corrupt file should be a miss")
	}
	if _, err := os.Stat(dc.filePath("bad")); !os.IsNotExist(err) {
		t.Error("corrupt file should be removed")
	}
}

func TestClipsPromotesDiskHits(t *testing.T) {
	dc, err := NewDiskCache(filepath.Join(t.TempDir(), "clips"), 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	clips := NewClips(NewMemoryCache(1<<20), dc)
	defer clips.Close() //nolint:errcheck

	if err := dc.Put("k", []byte("pcm")); err != nil {
		t.Fatal(err)
	}
	if v, ok := clips.Get("k"); !ok || string(v) != "pcm" {
		t.Fatalf("Get() = %q, %v", v, ok)
	}

	mem, _ := clips.Stats()
	if mem.Items != 1 {
		t.Errorf("disk hit should be promoted to memory, got %+v", mem)
	}
}

func TestClipsMemoryOnly(t *testing.T) {
	clips := NewClips(NewMemoryCache(1024), nil)
	if err := clips.Put("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if _, ok := clips.Get("k"); !ok {
		t.Error("expected hit")
	}
	if _, ok := clips.Get("missing"); ok {
		t.Error("expected miss")
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{Capacity: 2048, Size: 1024, Items: 3, Hits: 1, Misses: 1}
	if got := s.String(); !strings.Contains(got, "3 items") || !strings.Contains(got, "50% hits") {
		t.Errorf("unexpected stats string: %s", got)
	}
}
