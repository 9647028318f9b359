package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/dgnsrekt/shadowdrill/internal/sentence"
	"github.com/dgnsrekt/shadowdrill/internal/settings"
	"github.com/dgnsrekt/shadowdrill/internal/storage"
)

const testTSV = sentence.Header + "\n" +
	"1\t駅はどこですか。\tWhere is the station?\t1.mp3\t1\n" +
	"2\tこれをください。\tThis one, please.\t2.mp3\t1\n" +
	"3\tまた明日。\tSee you tomorrow.\t3.mp3\t2\n" +
	"x\tbroken\n"

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setConfigDefaults(v)
	v.Set("store", t.TempDir()+"/test.db")
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Mode != "repeating" || cfg.SampleRate != 44100 || cfg.Volume != 1.0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.MemoryMB != 64 || cfg.Cache.DiskMB != 512 {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		key     string
		value   any
		wantErr string
	}{
		{"mode", "karaoke", "mode"},
		{"mode", "Shadowing", ""},
		{"volume", 3.5, "volume"},
		{"volume", 1.5, "volume"},
		{"sample_rate", 22050, "sample_rate"},
		{"cache.memory_mb", 0, "cache.memory_mb"},
		{"cache.disk_mb", -1, "cache.disk_mb"},
		{"sentences", "", "sentences"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newTestViper(t)
			v.Set(tt.key, tt.value)

			_, err := loadConfig(v)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadedConfigFitsPlayer(t *testing.T) {
	tests := []struct {
		volume     float64
		sampleRate int
	}{
		{0, 44100},
		{0.5, 48000},
		{1, 44100},
	}
	for _, tt := range tests {
		v := newTestViper(t)
		v.Set("volume", tt.volume)
		v.Set("sample_rate", tt.sampleRate)

		cfg, err := loadConfig(v)
		if err != nil {
			t.Fatalf("loadConfig(volume=%v): %v", tt.volume, err)
		}
		if err := playerConfig(cfg).Validate(); err != nil {
			t.Errorf("volume=%v sample_rate=%d accepted by config but not by the player: %v",
				tt.volume, tt.sampleRate, err)
		}
	}
}

func TestLoadConfigKeepsURLs(t *testing.T) {
	v := newTestViper(t)
	v.Set("sentences", "https://example.com/sentences.tsv")
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Sentences != "https://example.com/sentences.tsv" {
		t.Errorf("sentences = %q", cfg.Sentences)
	}
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	saved := &settings.Settings{SelectedSections: []int{2}}
	if err := printSections(&buf, sentence.Parse(testTSV), saved); err != nil {
		t.Fatalf("printSections: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SECTION", "SENTENCES", "✓", "4 sentences", "1 malformed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "✓") != 1 {
		t.Errorf("only section 2 should be marked:\n%s", out)
	}
}

func TestPrintBookmarks(t *testing.T) {
	var buf bytes.Buffer
	if err := printBookmarks(&buf, sentence.Parse(testTSV), []int{3, 42}, 200); err != nil {
		t.Fatalf("printBookmarks: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "また明日。") {
		t.Errorf("missing bookmarked sentence:\n%s", out)
	}
	if !strings.Contains(out, "#42 (no longer in the list)") {
		t.Errorf("missing stale bookmark note:\n%s", out)
	}
}

func TestPrintMatches(t *testing.T) {
	matches := sentence.Find(sentence.Parse(testTSV), "station")

	var buf bytes.Buffer
	if err := printMatches(&buf, matches, 1, 200); err != nil {
		t.Fatalf("printMatches: %v", err)
	}
	if !strings.Contains(buf.String(), "#1") || strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := printMatches(&buf, nil, 10, 200); err != nil {
		t.Fatalf("printMatches: %v", err)
	}
	if !strings.Contains(buf.String(), "No matches") {
		t.Errorf("unexpected output for no matches: %q", buf.String())
	}
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC)
	days := []storage.DayCount{
		{Day: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), Plays: 1200, Sentences: 30},
		{Day: time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), Plays: 5, Sentences: 5},
	}
	var buf bytes.Buffer
	if err := printHistory(&buf, days, 1205, now); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1,200", "today", "yesterday", "1,205 clips played"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDayLabel(t *testing.T) {
	now := time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), "today"},
		{time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), "yesterday"},
		{time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), "3 days ago"},
	}
	for _, tt := range tests {
		if got := dayLabel(tt.day, now); got != tt.want {
			t.Errorf("dayLabel(%s) = %q, want %q", tt.day.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestOpenClipCacheMemoryOnly(t *testing.T) {
	clips, err := openClipCache(cacheConfig{MemoryMB: 1})
	if err != nil {
		t.Fatalf("openClipCache: %v", err)
	}
	defer clips.Close() //nolint:errcheck
	if _, disk := clips.Stats(); disk.Capacity != 0 {
		t.Errorf("disk level should be disabled, got %+v", disk)
	}
}
