// Package settings persists the drill session as one JSON object stored under
// a fixed key. Writes merge into the stored object so that a caller only
// touches the fields it knows about.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Key is the storage key of the settings blob.
const Key = "shadowdrill.settings"

// JSON field names of the settings blob.
const (
	FieldSelectedSections = "selectedSections"
	FieldPlayQueue        = "playQueue"
	FieldBookmarks        = "bookmarks"
	FieldIsRandom         = "isRandom"
	FieldCurrentPlayIndex = "currentPlayIndex"
)

// KV is a flat string key/value store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Settings is a loaded blob. A nil slice or pointer means the field was
// absent or did not have the expected shape.
type Settings struct {
	SelectedSections []int
	PlayQueue        []int
	Bookmarks        []int
	IsRandom         *bool
	CurrentPlayIndex *int
}

// Update is a partial write. Nil fields are left untouched in the store.
type Update struct {
	SelectedSections *[]int `json:"selectedSections,omitempty"`
	PlayQueue        *[]int `json:"playQueue,omitempty"`
	Bookmarks        *[]int `json:"bookmarks,omitempty"`
	IsRandom         *bool  `json:"isRandom,omitempty"`
	CurrentPlayIndex *int   `json:"currentPlayIndex,omitempty"`
}

// Store reads and writes the settings blob.
type Store struct {
	kv  KV
	key string
}

// NewStore returns a store over kv using the default key.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, key: Key}
}

// Load returns the stored settings, or nil when nothing usable is stored.
// Corrupt JSON is treated like an absent blob.
func (s *Store) Load(ctx context.Context) (*Settings, error) {
	fields, err := s.read(ctx)
	if err != nil || fields == nil {
		return nil, err
	}

	var out Settings
	decodeField(fields, FieldSelectedSections, &out.SelectedSections)
	decodeField(fields, FieldPlayQueue, &out.PlayQueue)
	decodeField(fields, FieldBookmarks, &out.Bookmarks)
	decodeField(fields, FieldIsRandom, &out.IsRandom)
	decodeField(fields, FieldCurrentPlayIndex, &out.CurrentPlayIndex)
	return &out, nil
}

// Save merges u into the stored blob.
func (s *Store) Save(ctx context.Context, u Update) error {
	fields, err := s.read(ctx)
	if err != nil {
		return err
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	b, err := json.Marshal(normalize(u))
	if err != nil {
		return fmt.Errorf("unable to encode settings: %w", err)
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(b, &patch); err != nil {
		return fmt.Errorf("unable to encode settings: %w", err)
	}
	for k, v := range patch {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("unable to encode settings: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, string(merged)); err != nil {
		return fmt.Errorf("unable to save settings: %w", err)
	}
	log.Debug("saved settings", "fields", len(patch))
	return nil
}

// read returns the stored object's raw fields, or nil when absent or corrupt.
func (s *Store) read(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("unable to load settings: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Warn("ignoring corrupt settings", "key", s.key, "error", err)
		return nil, nil
	}
	return fields, nil
}

func decodeField[T any](fields map[string]json.RawMessage, name string, dst *T) {
	raw, ok := fields[name]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Debug("dropping settings field", "field", name, "error", err)
		return
	}
	*dst = v
}

// normalize turns pointers to nil slices into pointers to empty slices so
// they encode as [] rather than null.
func normalize(u Update) Update {
	for _, f := range []**[]int{&u.SelectedSections, &u.PlayQueue, &u.Bookmarks} {
		if *f != nil && **f == nil {
			empty := []int{}
			*f = &empty
		}
	}
	return u
}
