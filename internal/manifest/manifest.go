// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists per-document conversion outcomes in a SQLite
// ledger next to the Markdown artifacts. The ledger survives across runs and
// backs the status subcommand.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "textmify.db"

// Record is one conversion outcome.
type Record struct {
	// Source is the path of the original document; it keys the ledger.
	Source string `json:"source"`

	// Output is the path of the Markdown artifact, empty on failure.
	Output string `json:"output,omitempty"`

	// Status is the conversion status string (converted, partial, failed, none).
	Status string `json:"status"`

	// Words is the artifact word count.
	Words int `json:"words"`

	// Attempts is how many engine invocations the document took.
	Attempts int `json:"attempts"`

	// ConvertedAt is when the outcome was recorded.
	ConvertedAt time.Time `json:"converted_at"`
}

// Store manages the conversion ledger database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the ledger at dir/textmify.db, creating dir and the
// schema as needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS conversions (
		source TEXT PRIMARY KEY,
		output TEXT,
		status TEXT NOT NULL,
		words INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		converted_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Put upserts one record, keyed by source path.
func (s *Store) Put(ctx context.Context, rec Record) error {
	if rec.ConvertedAt.IsZero() {
		rec.ConvertedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (source, output, status, words, attempts, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET
			output=excluded.output, status=excluded.status, words=excluded.words,
			attempts=excluded.attempts, converted_at=excluded.converted_at`,
		rec.Source, rec.Output, rec.Status, rec.Words, rec.Attempts,
		rec.ConvertedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.Source, err)
	}
	return nil
}

// Get returns the record for source, reporting whether one exists.
func (s *Store) Get(ctx context.Context, source string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT source, output, status, words, attempts, converted_at
		 FROM conversions WHERE source = ?`, source)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("reading ledger entry for %s: %w", source, err)
	}
	return rec, true, nil
}

// List returns all records ordered by source path.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, output, status, words, attempts, converted_at
		 FROM conversions ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("listing ledger: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var converted string
	if err := scan(&rec.Source, &rec.Output, &rec.Status, &rec.Words, &rec.Attempts, &converted); err != nil {
		return Record{}, err
	}
	if ts, err := time.Parse(time.RFC3339Nano, converted); err == nil {
		rec.ConvertedAt = ts
	}
	return rec, nil
}
