package glyph

import (
	"bytes"
	"image"

	"github.com/up-zero/gotool/imageutil"
	"golang.org/x/image/draw"
)

// Grayscale converts img to a single-channel image whose bounds start at the
// origin. Gray input is copied unchanged.
func Grayscale(img image.Image) *image.Gray {
	var conv image.Image
	if g, ok := img.(*image.Gray); ok {
		conv = g
	} else {
		conv = imageutil.Grayscale(img)
	}

	b := conv.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := conv.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], g.Pix[y*g.Stride:y*g.Stride+b.Dx()])
		}
		return out
	}
	draw.Draw(out, out.Bounds(), conv, b.Min, draw.Src)
	return out
}

// Crop copies the pixels inside r into a new image with origin (0, 0).
func Crop(gray *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(gray.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := gray.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], gray.Pix[src:src+r.Dx()])
	}
	return out
}

// Equal reports whether a and b have the same size and identical pixels.
func Equal(a, b *image.Gray) bool {
	if a == nil || b == nil {
		return false
	}
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	if w != b.Bounds().Dx() || h != b.Bounds().Dy() {
		return false
	}
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+w]
		rb := b.Pix[y*b.Stride : y*b.Stride+w]
		if !bytes.Equal(ra, rb) {
			return false
		}
	}
	return true
}
