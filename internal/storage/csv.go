package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pfrederiksen/bee-archive/internal/puzzle"
)

// Header is the CSV column order.
var Header = []string{
	"date", "num_pangram", "max_score", "max_words", "min_genius", "letters", "required_letter",
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []puzzle.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date,
			strconv.Itoa(r.NumPangram),
			strconv.Itoa(r.MaxScore),
			strconv.Itoa(r.MaxWords),
			strconv.Itoa(r.MinGenius),
			r.Letters,
			r.RequiredLetter,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", r.Key(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
