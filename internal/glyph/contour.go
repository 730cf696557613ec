package glyph

import (
	"image"
	"math"
)

// Contour is the border of one connected region of non-zero pixels (an
// outer border) or of a zero-valued region enclosed by one (a hole border).
type Contour struct {
	// Points is the border chain with straight runs reduced to their end
	// points, in image coordinates.
	Points []image.Point
	// Hole reports whether this is a hole border.
	Hole bool
	// Parent is the index of the enclosing contour, or -1 at the top level.
	Parent int
}

// Area returns the polygon area enclosed by the contour's points.
func (c Contour) Area() float64 {
	return PolygonArea(c.Points)
}

// Bounds returns the smallest rectangle containing every point.
func (c Contour) Bounds() image.Rectangle {
	return BoundingRect(c.Points)
}

// neighbor offsets, counterclockwise on screen starting east.
var (
	dirX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	dirY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

const (
	dirEast = 0
	dirWest = 4
)

type borderInfo struct {
	hole   bool
	parent int
}

// FindContours traces every border in gray. Pixels with a non-zero value
// are foreground and 8-connected; pixels outside the image are background.
// Contours are returned in discovery order (raster order of each border's
// first pixel) with the full containment hierarchy in Contour.Parent.
func FindContours(gray *image.Gray) []Contour {
	b := gray.Bounds()
	w, h := b.Dx()+2, b.Dy()+2

	// labels holds the working image of the border following: 0 background,
	// 1 unvisited foreground, +/-n visited by border n.
	labels := make([]int, w*h)
	for y := 0; y < b.Dy(); y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x, v := range row {
			if v != 0 {
				labels[(y+1)*w+x+1] = 1
			}
		}
	}

	var offsets [8]int
	for d := range offsets {
		offsets[d] = dirY[d]*w + dirX[d]
	}

	t := &tracer{labels: labels, w: w, offsets: offsets}

	// border 1 is the image frame, a hole border with no parent.
	borders := []borderInfo{{}, {hole: true, parent: 0}}
	var contours []Contour
	nbd := 1

	for y := 1; y < h-1; y++ {
		lnbd := 1
		for x := 1; x < w-1; x++ {
			p := y*w + x
			fp := labels[p]
			if fp == 0 {
				continue
			}

			from := -1
			hole := false
			switch {
			case fp == 1 && labels[p-1] == 0:
				from = dirWest
			case fp >= 1 && labels[p+1] == 0:
				from = dirEast
				hole = true
				if fp > 1 {
					lnbd = fp
				}
			}

			if from >= 0 {
				nbd++
				parent := lnbd
				if borders[lnbd].hole == hole {
					parent = borders[lnbd].parent
				}
				borders = append(borders, borderInfo{hole: hole, parent: parent})

				chain := t.follow(p, from, nbd)
				points := make([]image.Point, len(chain))
				for i, q := range chain {
					points[i] = image.Point{
						X: q%w - 1 + b.Min.X,
						Y: q/w - 1 + b.Min.Y,
					}
				}

				parentIdx := -1
				if parent >= 2 {
					parentIdx = parent - 2
				}
				contours = append(contours, Contour{
					Points: compressChain(points),
					Hole:   hole,
					Parent: parentIdx,
				})
			}

			if v := labels[p]; v != 1 {
				lnbd = abs(v)
			}
		}
	}

	return contours
}

type tracer struct {
	labels  []int
	w       int
	offsets [8]int
}

// direction returns the neighbor index leading from p to q.
func (t *tracer) direction(p, q int) int {
	for d, off := range t.offsets {
		if p+off == q {
			return d
		}
	}
	return -1
}

// follow traces the border starting at p0, whose background neighbor lies in
// direction from, marking visited pixels with nbd. It returns the border
// pixels in traversal order.
func (t *tracer) follow(p0, from, nbd int) []int {
	labels := t.labels

	// Clockwise from the background neighbor for the first foreground pixel.
	p1 := -1
	for k := 0; k < 8; k++ {
		d := (from - k + 8) % 8
		if q := p0 + t.offsets[d]; labels[q] != 0 {
			p1 = q
			break
		}
	}
	if p1 < 0 {
		labels[p0] = -nbd
		return []int{p0}
	}

	var chain []int
	p2, p3 := p1, p0
	for {
		d2 := t.direction(p3, p2)
		eastZero := false
		p4 := -1
		for k := 1; k <= 8; k++ {
			d := (d2 + k) % 8
			q := p3 + t.offsets[d]
			if labels[q] != 0 {
				p4 = q
				break
			}
			if d == dirEast {
				eastZero = true
			}
		}

		if eastZero {
			labels[p3] = -nbd
		} else if labels[p3] == 1 {
			labels[p3] = nbd
		}
		chain = append(chain, p3)

		if p4 == p0 && p3 == p1 {
			return chain
		}
		p2, p3 = p3, p4
	}
}

// compressChain drops points lying inside horizontal, vertical or diagonal
// runs, keeping only the points where the step direction changes.
func compressChain(points []image.Point) []image.Point {
	n := len(points)
	if n <= 2 {
		return points
	}

	step := func(a, b image.Point) image.Point { return b.Sub(a) }

	out := make([]image.Point, 0, n)
	for i := 0; i < n; i++ {
		prev := points[(i-1+n)%n]
		next := points[(i+1)%n]
		if step(prev, points[i]) != step(points[i], next) {
			out = append(out, points[i])
		}
	}
	if len(out) == 0 {
		return points[:1]
	}
	return out
}

// PolygonArea returns the absolute shoelace area of the closed polygon.
func PolygonArea(points []image.Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(float64(sum)) / 2
}

// BoundingRect returns the smallest rectangle containing every point. Each
// point covers one pixel, so a single point yields a 1x1 rectangle.
func BoundingRect(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Point{X: 1, Y: 1})
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
