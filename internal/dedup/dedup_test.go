package dedup

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHashText_Deterministic(t *testing.T) {
	a := HashText("the same text")
	b := HashText("the same text")
	if a != b {
		t.Errorf("identical text must hash identically: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHashText_SingleCharacterMutation(t *testing.T) {
	base := "chunk of perfectly ordinary text"
	mutated := "chunk of perfectly ordinary texT"
	if HashText(base) == HashText(mutated) {
		t.Error("single-character mutation must change the hash")
	}
	if HashText("") == HashText(" ") {
		t.Error("empty and single-space text must not collide")
	}
}

// fakeIndex is a scripted store-side hash index
type fakeIndex struct {
	known   map[string]bool
	err     error
	lookups int
}

func (f *fakeIndex) ExistsHash(hash string) (bool, error) {
	f.lookups++
	if f.err != nil {
		return false, f.err
	}
	return f.known[hash], nil
}

func TestSeen(t *testing.T) {
	h := HashText("text")
	idx := &fakeIndex{known: map[string]bool{h: true}}
	d := New(idx, time.Minute, time.Minute, discardLogger())

	seen, err := d.Seen(h)
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen {
		t.Error("expected hash to be seen")
	}

	seen, err = d.Seen(HashText("other text"))
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if seen {
		t.Error("unknown hash reported as seen")
	}
}

func TestSeen_CachesPositiveLookups(t *testing.T) {
	h := HashText("text")
	idx := &fakeIndex{known: map[string]bool{h: true}}
	d := New(idx, time.Minute, time.Minute, discardLogger())

	for i := 0; i < 3; i++ {
		if seen, err := d.Seen(h); err != nil || !seen {
			t.Fatalf("lookup %d: seen=%v err=%v", i, seen, err)
		}
	}
	if idx.lookups != 1 {
		t.Errorf("expected 1 store lookup, got %d", idx.lookups)
	}
}

func TestSeen_StoreErrorSurfaces(t *testing.T) {
	idx := &fakeIndex{err: errors.New("disk on fire")}
	d := New(idx, time.Minute, time.Minute, discardLogger())

	if _, err := d.Seen(HashText("text")); err == nil {
		t.Error("expected store error to surface")
	}
}

func TestRemember_SkipsStore(t *testing.T) {
	idx := &fakeIndex{known: map[string]bool{}}
	d := New(idx, time.Minute, time.Minute, discardLogger())

	h := HashText("freshly saved")
	d.Remember(h)

	seen, err := d.Seen(h)
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen {
		t.Error("remembered hash must be seen")
	}
	if idx.lookups != 0 {
		t.Errorf("remembered hash should not hit the store, got %d lookups", idx.lookups)
	}
}
