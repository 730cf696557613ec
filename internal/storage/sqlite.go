package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pfrederiksen/bee-archive/internal/puzzle"
)

// DB is a SQLite result table.
type DB struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &DB{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS puzzles (
	puzzle_date TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	url TEXT,
	num_pangram INTEGER,
	max_score INTEGER,
	max_words INTEGER,
	min_genius INTEGER,
	letters TEXT,
	required_letter TEXT,
	complete INTEGER
);`

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Replace swaps the table contents for records in one transaction.
func (d *DB) Replace(ctx context.Context, records []puzzle.Record) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM puzzles"); err != nil {
		return fmt.Errorf("clearing puzzles: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO puzzles
		(puzzle_date, date, url, num_pangram, max_score, max_words, min_genius, letters, required_letter, complete)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Key(), r.Date, r.URL, r.NumPangram, r.MaxScore, r.MaxWords, r.MinGenius,
			r.Letters, r.RequiredLetter, r.Complete,
		); err != nil {
			return fmt.Errorf("inserting %s: %w", r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Records returns every stored puzzle, newest first.
func (d *DB) Records(ctx context.Context) ([]puzzle.Record, error) {
	rows, err := d.db.QueryContext(ctx, `
	SELECT puzzle_date, date, url, num_pangram, max_score, max_words, min_genius, letters, required_letter, complete
	FROM puzzles ORDER BY puzzle_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying puzzles: %w", err)
	}
	defer rows.Close()

	var records []puzzle.Record
	for rows.Next() {
		var r puzzle.Record
		var key string
		if err := rows.Scan(&key, &r.Date, &r.URL, &r.NumPangram, &r.MaxScore, &r.MaxWords,
			&r.MinGenius, &r.Letters, &r.RequiredLetter, &r.Complete); err != nil {
			return nil, fmt.Errorf("scanning puzzle: %w", err)
		}
		day, err := puzzle.ParseKey(key)
		if err != nil {
			return nil, err
		}
		r.PuzzleDate = day
		records = append(records, r)
	}
	return records, rows.Err()
}
