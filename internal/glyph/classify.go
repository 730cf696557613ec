package glyph

// Class is the role a contour plays in the honeycomb image.
type Class int

const (
	// ClassIgnored contours are neither letters nor honeycomb outlines.
	ClassIgnored Class = iota
	// ClassGlyph contours outline a single letter.
	ClassGlyph
	// ClassStructure contours outline a hexagon or the whole honeycomb.
	ClassStructure
)

func (c Class) String() string {
	switch c {
	case ClassGlyph:
		return "glyph"
	case ClassStructure:
		return "structure"
	default:
		return "ignored"
	}
}

// Thresholds are the contour area bands. The defaults are tuned to the
// site's rendering size; other image sizes need other values.
type Thresholds struct {
	GlyphMin  float64
	GlyphMax  float64
	Structure float64
}

// DefaultThresholds returns the 50/300/400 bands.
func DefaultThresholds() Thresholds {
	return Thresholds{GlyphMin: 50, GlyphMax: 300, Structure: 400}
}

// Classify assigns area to a band: strictly above Structure is structure,
// strictly between GlyphMin and GlyphMax is a glyph, anything else
// (including the band edges themselves) is ignored.
func (t Thresholds) Classify(area float64) Class {
	switch {
	case area > t.Structure:
		return ClassStructure
	case area > t.GlyphMin && area < t.GlyphMax:
		return ClassGlyph
	default:
		return ClassIgnored
	}
}
