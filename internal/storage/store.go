// Package storage persists scored chunks in an append-only SQLite
// table. Every operation opens and closes its own connection, so the
// store is safe to call from any number of scoring workers without a
// shared mutable connection.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vmarkel/textcheck/internal/dedup"
	"github.com/vmarkel/textcheck/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS checks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid TEXT,
    text TEXT,
    score REAL,
    details TEXT,
    ts DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_checks_uid ON checks(uid);
CREATE INDEX IF NOT EXISTS idx_checks_score ON checks(score);
`

// Store is an append-only record store for check results. There is no
// update operation: re-scoring a uid appends a new row.
type Store struct {
	path        string
	busyTimeout time.Duration
	log         *slog.Logger
}

// New opens (creating if needed) the store at path and ensures the
// schema. Opening a pre-existing database that lacks the text_hash
// column adds it — the migration is additive and idempotent.
func New(path string, busyTimeout time.Duration, log *slog.Logger) (*Store, error) {
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	s := &Store{path: path, busyTimeout: busyTimeout, log: log}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := s.migrateTextHash(db); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_checks_hash ON checks(text_hash)`); err != nil {
		return nil, fmt.Errorf("create hash index: %w", err)
	}

	log.Debug("store initialized", "path", path)
	return s, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// open returns a fresh connection; callers must close it
func (s *Store) open() (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", s.path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// migrateTextHash adds the text_hash column if it is missing
func (s *Store) migrateTextHash(db *sql.DB) error {
	rows, err := db.Query(`PRAGMA table_info(checks)`)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	defer rows.Close()

	hasHash := false
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scan schema row: %w", err)
		}
		if name == "text_hash" {
			hasHash = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read schema rows: %w", err)
	}
	if hasHash {
		return nil
	}

	if _, err := db.Exec(`ALTER TABLE checks ADD COLUMN text_hash TEXT`); err != nil {
		return fmt.Errorf("add text_hash column: %w", err)
	}
	s.log.Warn("added missing text_hash column to checks table")
	return nil
}

// SaveCheck inserts one row. The id and ts columns are store-assigned.
// An empty textHash is computed from text so legacy callers still get
// deduplicatable rows.
func (s *Store) SaveCheck(uid, text string, score float64, detailsJSON, textHash string) error {
	if textHash == "" {
		textHash = dedup.HashText(text)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(
		`INSERT INTO checks (uid, text, score, details, text_hash) VALUES (?, ?, ?, ?, ?)`,
		uid, text, score, detailsJSON, textHash,
	)
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	s.log.Debug("saved check", "uid", uid, "score", score)
	return nil
}

// ExistsHash reports whether any row carries the given content hash
func (s *Store) ExistsHash(hash string) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	var one int
	err = db.QueryRow(`SELECT 1 FROM checks WHERE text_hash = ? LIMIT 1`, hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query hash: %w", err)
	}
	return true, nil
}

// QueryChecks returns up to limit rows newest-first, optionally
// filtered by inclusive score bounds. Nil bounds are open.
func (s *Store) QueryChecks(minScore, maxScore *float64, limit int) ([]model.StoredCheck, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, uid, text, score, details, ts, text_hash FROM checks WHERE 1=1`
	var args []any
	if minScore != nil {
		q += ` AND score >= ?`
		args = append(args, *minScore)
	}
	if maxScore != nil {
		q += ` AND score <= ?`
		args = append(args, *maxScore)
	}
	q += ` ORDER BY ts DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var results []model.StoredCheck
	for rows.Next() {
		rec, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read check rows: %w", err)
	}
	return results, nil
}

// GetCheckByUID returns the most recent row for uid, or nil
func (s *Store) GetCheckByUID(uid string) (*model.StoredCheck, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		`SELECT id, uid, text, score, details, ts, text_hash
		 FROM checks WHERE uid = ? ORDER BY ts DESC, id DESC LIMIT 1`, uid)
	if err != nil {
		return nil, fmt.Errorf("query check by uid: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("read check row: %w", err)
		}
		return nil, nil
	}
	rec, err := scanCheck(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteCheck removes all rows for uid, reporting whether any existed
func (s *Store) DeleteCheck(uid string) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	res, err := db.Exec(`DELETE FROM checks WHERE uid = ?`, uid)
	if err != nil {
		return false, fmt.Errorf("delete check: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ClearAll removes every row
func (s *Store) ClearAll() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`DELETE FROM checks`); err != nil {
		return fmt.Errorf("clear checks: %w", err)
	}
	s.log.Warn("cleared all checks")
	return nil
}

func scanCheck(rows *sql.Rows) (model.StoredCheck, error) {
	var (
		rec  model.StoredCheck
		hash sql.NullString
	)
	if err := rows.Scan(&rec.ID, &rec.UID, &rec.Text, &rec.Score, &rec.Details, &rec.TS, &hash); err != nil {
		return model.StoredCheck{}, fmt.Errorf("scan check row: %w", err)
	}
	rec.TextHash = hash.String
	return rec, nil
}
