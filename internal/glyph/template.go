package glyph

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// TemplateSet holds the reference crops of the two letters the recognizer
// confuses, O and Q. A nil template never matches. The set is immutable
// once built.
type TemplateSet struct {
	o *image.Gray
	q *image.Gray
}

// NewTemplateSet builds a set from in-memory crops. Either may be nil.
func NewTemplateSet(o, q *image.Gray) *TemplateSet {
	ts := &TemplateSet{}
	if o != nil {
		ts.o = Grayscale(o)
	}
	if q != nil {
		ts.q = Grayscale(q)
	}
	return ts
}

// LoadTemplates reads the O and Q reference crops from PNG files. An empty
// path leaves that template unset.
func LoadTemplates(oPath, qPath string) (*TemplateSet, error) {
	o, err := loadTemplate(oPath)
	if err != nil {
		return nil, fmt.Errorf("loading O template: %w", err)
	}
	q, err := loadTemplate(qPath)
	if err != nil {
		return nil, fmt.Errorf("loading Q template: %w", err)
	}
	return &TemplateSet{o: o, q: q}, nil
}

func loadTemplate(path string) (*image.Gray, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path) //nolint:gosec // configured asset path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return Grayscale(img), nil
}

// Match returns 'O' or 'Q' when crop is pixel-identical to that template.
// O is checked first.
func (ts *TemplateSet) Match(crop *image.Gray) (rune, bool) {
	if ts == nil {
		return 0, false
	}
	if Equal(crop, ts.o) {
		return 'O', true
	}
	if Equal(crop, ts.q) {
		return 'Q', true
	}
	return 0, false
}

// Loaded reports how many templates are set.
func (ts *TemplateSet) Loaded() int {
	if ts == nil {
		return 0
	}
	n := 0
	if ts.o != nil {
		n++
	}
	if ts.q != nil {
		n++
	}
	return n
}

// SizeMatches reports whether crop has the dimensions of any loaded template.
func (ts *TemplateSet) SizeMatches(crop *image.Gray) bool {
	if ts == nil || crop == nil {
		return false
	}
	size := crop.Bounds().Size()
	for _, t := range []*image.Gray{ts.o, ts.q} {
		if t != nil && t.Bounds().Size() == size {
			return true
		}
	}
	return false
}

// WritePNG stores a crop as an 8-bit grayscale PNG, creating parent
// directories. Crops written here load back byte-identical as templates.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // caller-chosen output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
