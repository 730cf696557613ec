// Package storage writes the result table of a scrape run.
//
// The table is written once, at the end of a run, and replaces whatever the
// output path held before. Three formats are supported: CSV (the default,
// one row per puzzle day), an indented JSON array, and a SQLite database
// with a single puzzles table keyed by puzzle date.
package storage
