package page

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageSelector finds the honeycomb image on a puzzle page.
const ImageSelector = "#bee-pic img"

var (
	// ErrMissingField is returned when an expected heading or element is absent.
	ErrMissingField = errors.New("missing field")

	// ErrMalformedField is returned when a heading is not "label: integer".
	ErrMalformedField = errors.New("malformed field")
)

// FieldError names the heading that could not be extracted.
type FieldError struct {
	Field string
	Text  string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %q", e.Field, e.Err, e.Text)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Fields are the puzzle statistics listed in the page headings.
type Fields struct {
	Date       string `json:"date"`
	NumPangram int    `json:"num_pangram"`
	MaxScore   int    `json:"max_score"`
	MaxWords   int    `json:"max_words"`
	MinGenius  int    `json:"min_genius"`
}

// statFields lists the first four <h3> headings in page order.
var statFields = []string{"num_pangram", "max_score", "max_words", "min_genius"}

// ExtractFields reads the four statistics from the first four <h3>
// headings and the display date from the second <h2>.
func ExtractFields(doc *goquery.Document) (Fields, error) {
	var fields Fields

	headings := doc.Find("h3")
	if headings.Length() < len(statFields) {
		return fields, &FieldError{
			Field: statFields[headings.Length()],
			Err:   ErrMissingField,
		}
	}

	values := make([]int, len(statFields))
	for i, name := range statFields {
		text := headings.Eq(i).Text()
		v, err := ParseColon(text)
		if err != nil {
			return fields, &FieldError{Field: name, Text: text, Err: err}
		}
		values[i] = v
	}
	fields.NumPangram = values[0]
	fields.MaxScore = values[1]
	fields.MaxWords = values[2]
	fields.MinGenius = values[3]

	dates := doc.Find("h2")
	if dates.Length() < 2 {
		return fields, &FieldError{Field: "date", Err: ErrMissingField}
	}
	fields.Date = strings.TrimSpace(dates.Eq(1).Text())

	return fields, nil
}

// ParseColon parses the integer after the first colon of "label: value".
func ParseColon(text string) (int, error) {
	_, value, ok := strings.Cut(text, ":")
	if !ok {
		return 0, ErrMalformedField
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedField, err)
	}
	return n, nil
}

// ImageSource returns the src attribute of the honeycomb image.
func ImageSource(doc *goquery.Document) (string, error) {
	src, ok := doc.Find(ImageSelector).First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", &FieldError{Field: "image", Err: ErrMissingField}
	}
	return strings.TrimSpace(src), nil
}

// ResolveImageURL resolves src against the host prefix. Absolute sources
// are returned unchanged.
func ResolveImageURL(host, src string) (string, error) {
	base, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("parsing host: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing image source: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}
