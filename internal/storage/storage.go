package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/bee-archive/internal/puzzle"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Storage writes result tables to one output path.
type Storage struct {
	path   string
	format string
}

// New creates a Storage for path. A leading ~/ is expanded to the home
// directory and missing parent directories are created.
func New(path, format string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	switch format {
	case "":
		format = FormatCSV
	case FormatCSV, FormatJSON, FormatSQLite:
	default:
		return nil, fmt.Errorf("unknown output format: %q", format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{path: path, format: format}, nil
}

// Path returns the resolved output path.
func (s *Storage) Path() string {
	return s.path
}

// Format returns the output format.
func (s *Storage) Format() string {
	return s.format
}

// Save writes records, replacing any previous output.
func (s *Storage) Save(ctx context.Context, records []puzzle.Record) error {
	if s.format == FormatSQLite {
		db, err := OpenSQLite(s.path)
		if err != nil {
			return err
		}
		if err := db.Replace(ctx, records); err != nil {
			db.Close()
			return err
		}
		return db.Close()
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if s.format == FormatJSON {
		err = WriteJSON(f, records)
	} else {
		err = WriteCSV(f, records)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []puzzle.Record) error {
	if records == nil {
		records = []puzzle.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}
