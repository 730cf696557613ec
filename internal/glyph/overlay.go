package glyph

import (
	"image"
	"image/color"

	"github.com/up-zero/gotool/imageutil"
	"golang.org/x/image/draw"
)

var (
	structureColor = color.RGBA{R: 255, B: 255, A: 255}
	glyphColor     = color.RGBA{G: 255, A: 255}
)

// Overlay draws the recovery on a copy of src: simplified honeycomb outlines
// in magenta and glyph boxes in green. Used to check the area bands against
// a new rendering size.
func Overlay(src image.Image, rec *Recovery) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)

	for _, reg := range rec.Structures() {
		pts := reg.Contour.Points
		approx := ApproxPolyDP(pts, OverlayEpsilon*ArcLength(pts, true), true)
		drawPolygon(out, approx, structureColor, 2)
	}

	for _, g := range rec.Glyphs {
		imageutil.DrawThickRectOutline(out, g.Box, glyphColor, 1)
	}
	return out
}

// drawPolygon strokes the closed polygon with square brushes of the given
// half-width.
func drawPolygon(img *image.RGBA, pts []image.Point, c color.RGBA, half int) {
	for i := range pts {
		drawLine(img, pts[i], pts[(i+1)%len(pts)], c, half)
	}
}

func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA, half int) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	for {
		stamp(img, a, c, half)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			if a.X == b.X {
				return
			}
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			if a.Y == b.Y {
				return
			}
			e += dx
			a.Y += sy
		}
	}
}

func stamp(img *image.RGBA, p image.Point, c color.RGBA, half int) {
	r := image.Rect(p.X-half, p.Y-half, p.X+half+1, p.Y+half+1).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
