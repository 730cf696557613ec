// Package ocr adapts the Tesseract engine to glyph.Recognizer.
//
// Each glyph crop is encoded as PNG and read in single-character page
// segmentation mode. The package links against libtesseract through cgo;
// everything else in the module depends only on the glyph.Recognizer
// interface, so it builds and tests without Tesseract installed.
package ocr
