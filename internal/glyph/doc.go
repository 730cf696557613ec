// Package glyph recovers the seven puzzle letters from a honeycomb image.
//
// The image is reduced to grayscale and every border of non-zero pixels is
// traced. Each contour's enclosed area sorts it into one of three bands:
// honeycomb outlines (large), letter glyphs (small), or noise. Each glyph is
// cropped by its bounding box and resolved in two steps. A crop that is
// pixel-identical to the O or Q reference template is read directly, since
// those two letters defeat OCR at this size. Every other crop goes to a
// single-character Recognizer whose output is reduced to one capital letter.
//
// A Recovery reports whether the expected letter count was reached so the
// caller decides what a partial read means for its record.
package glyph
