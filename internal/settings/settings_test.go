package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/samber/lo"
)

type memKV struct {
	data map[string]string
	err  error
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func TestLoadAbsent(t *testing.T) {
	s := NewStore(newMemKV())
	got, err := s.Load(context.Background())
	if err != nil || got != nil {
		t.Errorf("Load() = %+v, %v; want nil, nil", got, err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	for _, raw := range []string{"{not json", "[1,2,3]", `"text"`} {
		t.Run(raw, func(t *testing.T) {
			kv := newMemKV()
			kv.data[Key] = raw
			got, err := NewStore(kv).Load(context.Background())
			if err != nil || got != nil {
				t.Errorf("Load() = %+v, %v; want nil, nil", got, err)
			}
		})
	}
}

func TestLoadBackendError(t *testing.T) {
	kv := newMemKV()
	kv.err = errors.New("disk on fire")
	if _, err := NewStore(kv).Load(context.Background()); err == nil {
		t.Error("expected backend error to surface")
	}
}

func TestLoadFieldsIndependently(t *testing.T) {
	kv := newMemKV()
	kv.data[Key] = `{"selectedSections":[1,2],"playQueue":"oops","bookmarks":[5],"isRandom":"yes","currentPlayIndex":3}`

	got, err := NewStore(kv).Load(context.Background())
	if err != nil || got == nil {
		t.Fatalf("Load() = %+v, %v", got, err)
	}
	if fmt.Sprint(got.SelectedSections) != "[1 2]" {
		t.Errorf("SelectedSections = %v", got.SelectedSections)
	}
	if got.PlayQueue != nil {
		t.Errorf("malformed playQueue should be dropped, got %v", got.PlayQueue)
	}
	if fmt.Sprint(got.Bookmarks) != "[5]" {
		t.Errorf("Bookmarks = %v", got.Bookmarks)
	}
	if got.IsRandom != nil {
		t.Errorf("malformed isRandom should be dropped, got %v", *got.IsRandom)
	}
	if got.CurrentPlayIndex == nil || *got.CurrentPlayIndex != 3 {
		t.Errorf("CurrentPlayIndex = %v", got.CurrentPlayIndex)
	}
}

func TestLoadRejectsFractionalIndex(t *testing.T) {
	kv := newMemKV()
	kv.data[Key] = `{"currentPlayIndex":1.5,"isRandom":true}`

	got, err := NewStore(kv).Load(context.Background())
	if err != nil || got == nil {
		t.Fatalf("Load() = %+v, %v", got, err)
	}
	if got.CurrentPlayIndex != nil {
		t.Errorf("fractional index should be dropped, got %d", *got.CurrentPlayIndex)
	}
	if got.IsRandom == nil || !*got.IsRandom {
		t.Error("isRandom should be true")
	}
}

func TestSaveMerges(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewStore(kv)

	if err := s.Save(ctx, Update{SelectedSections: lo.ToPtr([]int{1, 2}), IsRandom: lo.ToPtr(true)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, Update{CurrentPlayIndex: lo.ToPtr(4)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, Update{Bookmarks: lo.ToPtr([]int{7})}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx)
	if err != nil || got == nil {
		t.Fatalf("Load() = %+v, %v", got, err)
	}
	if fmt.Sprint(got.SelectedSections) != "[1 2]" || got.IsRandom == nil || !*got.IsRandom {
		t.Errorf("earlier fields were clobbered: %+v", got)
	}
	if got.CurrentPlayIndex == nil || *got.CurrentPlayIndex != 4 {
		t.Errorf("CurrentPlayIndex = %v", got.CurrentPlayIndex)
	}
	if fmt.Sprint(got.Bookmarks) != "[7]" {
		t.Errorf("Bookmarks = %v", got.Bookmarks)
	}
}

func TestSaveKeepsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.data[Key] = `{"theme":"dark"}`

	if err := NewStore(kv).Save(ctx, Update{IsRandom: lo.ToPtr(false)}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(kv.data[Key], `"theme":"dark"`) {
		t.Errorf("unknown key lost: %s", kv.data[Key])
	}
}

func TestSaveEmptyListIsStored(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewStore(kv)

	if err := s.Save(ctx, Update{Bookmarks: lo.ToPtr([]int{3})}); err != nil {
		t.Fatal(err)
	}
	var none []int
	if err := s.Save(ctx, Update{Bookmarks: &none}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(kv.data[Key], `"bookmarks":[]`) {
		t.Errorf("expected an empty bookmark list, got %s", kv.data[Key])
	}
}

func TestSaveOverCorruptBlob(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.data[Key] = "{broken"

	s := NewStore(kv)
	if err := s.Save(ctx, Update{CurrentPlayIndex: lo.ToPtr(0)}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx)
	if err != nil || got == nil || got.CurrentPlayIndex == nil {
		t.Fatalf("Load() = %+v, %v", got, err)
	}
}
