package glyph

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/pfrederiksen/bee-archive/internal/logger"
)

// Recognizer reads a single character from a glyph crop. Implementations
// return the raw recognizer text; the engine cleans it.
type Recognizer interface {
	Recognize(glyph *image.Gray) (string, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(glyph *image.Gray) (string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(glyph *image.Gray) (string, error) {
	return f(glyph)
}

// Order decides the sequence in which glyph candidates are read.
type Order int

const (
	// OrderDiscovery keeps contour discovery order. For the site's honeycomb
	// layout this is row-major by each glyph's top edge, which places the
	// center letter fourth.
	OrderDiscovery Order = iota
	// OrderLeftToRight sorts candidates by bounding box x, then y.
	OrderLeftToRight
)

// ParseOrder converts "discovery" or "left-to-right" into an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "discovery", "":
		return OrderDiscovery, nil
	case "left-to-right":
		return OrderLeftToRight, nil
	default:
		return 0, fmt.Errorf("unknown glyph order: %q", s)
	}
}

// Source records how a letter was resolved.
type Source string

const (
	SourceTemplate Source = "template"
	SourceOCR      Source = "ocr"
)

// Region is one classified contour.
type Region struct {
	Contour Contour
	Area    float64
	Box     image.Rectangle
	Class   Class
}

// Glyph is one letter candidate and what it resolved to. Letter is zero
// when the recognizer output held no capital.
type Glyph struct {
	Box    image.Rectangle
	Area   float64
	Crop   *image.Gray
	Letter rune
	Source Source
	Raw    string
}

// Status tells whether a recovery produced the expected letter count.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
)

// PartialError reports a recovery with the wrong number of letters.
type PartialError struct {
	Got     int
	Want    int
	Letters string
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("recovered %d letters, want %d: %q", e.Got, e.Want, e.Letters)
}

// Recovery is the result of reading one honeycomb image.
type Recovery struct {
	// Regions lists every contour in discovery order with its class.
	Regions []Region
	// Glyphs lists letter candidates in reading order.
	Glyphs   []Glyph
	Letters  []rune
	Expected int
	Status   Status
}

// Text returns the recovered letters as a string.
func (r *Recovery) Text() string {
	return string(r.Letters)
}

// Complete reports whether exactly the expected number of letters was read.
func (r *Recovery) Complete() bool {
	return r.Status == StatusComplete
}

// Err returns a *PartialError for partial recoveries and nil otherwise.
func (r *Recovery) Err() error {
	if r.Complete() {
		return nil
	}
	return &PartialError{Got: len(r.Letters), Want: r.Expected, Letters: r.Text()}
}

// Structures returns the regions classified as honeycomb outlines.
func (r *Recovery) Structures() []Region {
	var out []Region
	for _, reg := range r.Regions {
		if reg.Class == ClassStructure {
			out = append(out, reg)
		}
	}
	return out
}

// CountSource returns how many letters came from src.
func (r *Recovery) CountSource(src Source) int {
	n := 0
	for _, g := range r.Glyphs {
		if g.Letter != 0 && g.Source == src {
			n++
		}
	}
	return n
}

// Options tunes an Engine.
type Options struct {
	Thresholds      Thresholds
	ExpectedLetters int
	Order           Order
}

// DefaultOptions returns the site defaults: 50/300/400 bands, seven
// letters, discovery order.
func DefaultOptions() Options {
	return Options{
		Thresholds:      DefaultThresholds(),
		ExpectedLetters: 7,
		Order:           OrderDiscovery,
	}
}

// Engine recovers puzzle letters from honeycomb images. It is safe for
// concurrent use when its Recognizer is.
type Engine struct {
	templates *TemplateSet
	ocr       Recognizer
	opts      Options
}

// NewEngine creates an engine. templates may be nil, in which case every
// glyph goes to the recognizer.
func NewEngine(templates *TemplateSet, ocr Recognizer, opts Options) *Engine {
	if opts.ExpectedLetters <= 0 {
		opts.ExpectedLetters = 7
	}
	return &Engine{templates: templates, ocr: ocr, opts: opts}
}

// Recover converts img to grayscale and reads its letters.
func (e *Engine) Recover(img image.Image) (*Recovery, error) {
	return e.RecoverGray(Grayscale(img))
}

// RecoverGray reads the letters of an already single-channel image.
func (e *Engine) RecoverGray(gray *image.Gray) (*Recovery, error) {
	rec := &Recovery{Expected: e.opts.ExpectedLetters}

	var candidates []Glyph
	for _, c := range FindContours(gray) {
		reg := Region{Contour: c, Area: c.Area(), Box: c.Bounds()}
		reg.Class = e.opts.Thresholds.Classify(reg.Area)
		rec.Regions = append(rec.Regions, reg)

		if reg.Class == ClassGlyph {
			candidates = append(candidates, Glyph{
				Box:  reg.Box,
				Area: reg.Area,
				Crop: Crop(gray, reg.Box),
			})
		}
	}

	if e.opts.Order == OrderLeftToRight {
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i].Box.Min, candidates[j].Box.Min
			if a.X != b.X {
				return a.X < b.X
			}
			return a.Y < b.Y
		})
	}

	sizeHit := false
	for i := range candidates {
		g := &candidates[i]
		if e.templates.SizeMatches(g.Crop) {
			sizeHit = true
		}

		if letter, ok := e.templates.Match(g.Crop); ok {
			g.Letter, g.Source = letter, SourceTemplate
			rec.Letters = append(rec.Letters, letter)
			continue
		}

		if e.ocr == nil {
			return nil, fmt.Errorf("glyph at %v: no recognizer configured", g.Box)
		}
		raw, err := e.ocr.Recognize(g.Crop)
		if err != nil {
			return nil, fmt.Errorf("recognizing glyph at %v: %w", g.Box, err)
		}
		g.Raw, g.Source = raw, SourceOCR
		if letter, ok := CleanOCR(raw); ok {
			g.Letter = letter
			rec.Letters = append(rec.Letters, letter)
		}
	}
	rec.Glyphs = candidates

	if e.templates.Loaded() > 0 && len(candidates) > 0 && !sizeHit {
		logger.Debug("no glyph has the size of a reference template", logger.Fields{
			"glyphs": len(candidates),
		})
	}

	rec.Status = StatusPartial
	if len(rec.Letters) == rec.Expected {
		rec.Status = StatusComplete
	}
	return rec, nil
}

// Describe renders one line per region, for the recover command.
func (r *Recovery) Describe() string {
	var sb strings.Builder
	for i, reg := range r.Regions {
		fmt.Fprintf(&sb, "%3d %-9s area=%7.1f box=%v\n", i, reg.Class, reg.Area, reg.Box)
	}
	return sb.String()
}
