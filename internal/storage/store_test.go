package storage

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vmarkel/textcheck/internal/dedup"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "checks.db"), time.Second, discardLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestSaveAndGetByUID(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveCheck("u1", "first text", 1.5, `[]`, dedup.HashText("first text")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveCheck("u1", "second text", 2.5, `[]`, dedup.HashText("second text")); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec, err := store.GetCheckByUID("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	// Append-only: both rows exist, the latest wins for lookup
	if rec.Text != "second text" || rec.Score != 2.5 {
		t.Errorf("expected latest row, got %+v", rec)
	}

	rows, err := store.QueryChecks(nil, nil, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("re-scoring a uid must append, expected 2 rows, got %d", len(rows))
	}

	missing, err := store.GetCheckByUID("nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown uid, got %+v", missing)
	}
}

func TestSaveCheck_ComputesMissingHash(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveCheck("u1", "some text", 1, `[]`, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	exists, err := store.ExistsHash(dedup.HashText("some text"))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("hash should have been computed on save")
	}
}

func TestExistsHash(t *testing.T) {
	store := newTestStore(t)
	h := dedup.HashText("the chunk")

	exists, err := store.ExistsHash(h)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("hash should not exist yet")
	}

	if err := store.SaveCheck("u1", "the chunk", 0, `[]`, h); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err = store.ExistsHash(h)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("hash should exist after save")
	}
}

func TestQueryChecks_ScoreBoundsInclusiveNewestFirst(t *testing.T) {
	store := newTestStore(t)
	scores := []float64{1, 5, 7.5, 10, 12}
	for i, s := range scores {
		uid := string(rune('a' + i))
		if err := store.SaveCheck(uid, "text "+uid, s, `[]`, ""); err != nil {
			t.Fatalf("save %s: %v", uid, err)
		}
	}

	minScore, maxScore := 5.0, 10.0
	rows, err := store.QueryChecks(&minScore, &maxScore, 100)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows in [5,10], got %d", len(rows))
	}
	for _, r := range rows {
		if r.Score < 5 || r.Score > 10 {
			t.Errorf("row %s score %v outside inclusive bounds", r.UID, r.Score)
		}
	}
	// Newest-first: descending insertion order
	for i := 1; i < len(rows); i++ {
		if rows[i-1].ID < rows[i].ID {
			t.Errorf("rows not newest-first: %v before %v", rows[i-1].ID, rows[i].ID)
		}
	}
}

func TestQueryChecks_Limit(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 10; i++ {
		if err := store.SaveCheck("u", "text", float64(i), `[]`, ""); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	rows, err := store.QueryChecks(nil, nil, 4)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("expected 4 rows, got %d", len(rows))
	}
}

func TestDeleteCheck(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveCheck("gone", "a", 1, `[]`, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveCheck("gone", "b", 2, `[]`, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveCheck("kept", "c", 3, `[]`, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	deleted, err := store.DeleteCheck("gone")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report rows removed")
	}

	rows, err := store.QueryChecks(nil, nil, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].UID != "kept" {
		t.Errorf("expected only the kept row, got %v", rows)
	}

	deleted, err = store.DeleteCheck("gone")
	if err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if deleted {
		t.Error("second delete should report nothing removed")
	}
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 5; i++ {
		if err := store.SaveCheck("u", "text", 1, `[]`, ""); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := store.ClearAll(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	rows, err := store.QueryChecks(nil, nil, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty store, got %d rows", len(rows))
	}
}

func TestMigration_AddsHashColumnToLegacyDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Build a pre-hash database by hand
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE checks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT, text TEXT, score REAL, details TEXT,
		ts DATETIME DEFAULT CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO checks (uid, text, score, details) VALUES ('old', 'legacy row', 1, '[]')`); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw: %v", err)
	}

	store, err := New(path, time.Second, discardLogger())
	if err != nil {
		t.Fatalf("open over legacy db: %v", err)
	}

	// Legacy row survives with an empty hash
	rec, err := store.GetCheckByUID("old")
	if err != nil {
		t.Fatalf("get legacy: %v", err)
	}
	if rec == nil || rec.TextHash != "" {
		t.Errorf("expected legacy row with empty hash, got %+v", rec)
	}

	// New rows use the migrated column
	if err := store.SaveCheck("new", "fresh row", 2, `[]`, ""); err != nil {
		t.Fatalf("save after migration: %v", err)
	}
	exists, err := store.ExistsHash(dedup.HashText("fresh row"))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("hash lookups should work after migration")
	}

	// Re-opening is a no-op, not an error
	if _, err := New(path, time.Second, discardLogger()); err != nil {
		t.Fatalf("reopen migrated db: %v", err)
	}
}

func TestConcurrentSaves(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uid := string(rune('a' + i%26))
			if err := store.SaveCheck(uid, "concurrent text", float64(i), `[]`, ""); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent save failed: %v", err)
	}

	rows, err := store.QueryChecks(nil, nil, 100)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 20 {
		t.Errorf("expected 20 rows, got %d", len(rows))
	}
}
