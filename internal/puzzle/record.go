package puzzle

import (
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/bee-archive/internal/glyph"
	"github.com/pfrederiksen/bee-archive/internal/page"
)

// DefaultRequiredIndex is the position of the center letter in discovery
// order.
const DefaultRequiredIndex = 3

// ErrNoRequiredLetter is returned when too few letters were recovered to
// pick the required one.
var ErrNoRequiredLetter = errors.New("no required letter")

// Record is one puzzle day.
type Record struct {
	// Date is the display date printed on the page.
	Date string `json:"date"`
	// PuzzleDate is the date the page URL was built from.
	PuzzleDate     time.Time `json:"puzzle_date"`
	URL            string    `json:"url"`
	NumPangram     int       `json:"num_pangram"`
	MaxScore       int       `json:"max_score"`
	MaxWords       int       `json:"max_words"`
	MinGenius      int       `json:"min_genius"`
	Letters        string    `json:"letters"`
	RequiredLetter string    `json:"required_letter"`
	Complete       bool      `json:"complete"`
}

// Key returns the record's puzzle date as YYYYMMDD.
func (r Record) Key() string {
	return r.PuzzleDate.Format(KeyLayout)
}

// Assemble builds the record for one day. The required letter is the
// recovered letter at requiredIndex. When there are not enough letters the
// record is still returned, without a required letter, together with
// ErrNoRequiredLetter.
func Assemble(day time.Time, url string, fields page.Fields, rec *glyph.Recovery, requiredIndex int) (Record, error) {
	r := Record{
		Date:       fields.Date,
		PuzzleDate: day,
		URL:        url,
		NumPangram: fields.NumPangram,
		MaxScore:   fields.MaxScore,
		MaxWords:   fields.MaxWords,
		MinGenius:  fields.MinGenius,
	}
	if rec == nil {
		return r, fmt.Errorf("%s: %w: no recovery", r.Key(), ErrNoRequiredLetter)
	}

	r.Letters = rec.Text()
	r.Complete = rec.Complete()

	if requiredIndex < 0 || requiredIndex >= len(rec.Letters) {
		return r, fmt.Errorf("%s: %w: %d letters recovered", r.Key(), ErrNoRequiredLetter, len(rec.Letters))
	}
	r.RequiredLetter = string(rec.Letters[requiredIndex])
	return r, nil
}
