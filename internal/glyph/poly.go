package glyph

import (
	"image"
	"math"
)

// OverlayEpsilon is the simplification tolerance for outline overlays, as a
// fraction of the outline's perimeter.
const OverlayEpsilon = 0.009

// ArcLength returns the length of the polyline through points, including the
// closing segment when closed is set.
func ArcLength(points []image.Point, closed bool) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 1; i < n; i++ {
		total += dist(points[i-1], points[i])
	}
	if closed {
		total += dist(points[n-1], points[0])
	}
	return total
}

// ApproxPolyDP simplifies a polyline with the Douglas-Peucker algorithm:
// no dropped point lies farther than epsilon from the result. A closed
// curve is split at the point farthest from its first point and each half
// is simplified separately.
func ApproxPolyDP(points []image.Point, epsilon float64, closed bool) []image.Point {
	n := len(points)
	if n <= 2 {
		return append([]image.Point(nil), points...)
	}
	if !closed {
		return douglasPeucker(points, epsilon)
	}

	far, farDist := 0, -1.0
	for i, p := range points {
		if d := dist(points[0], p); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		return []image.Point{points[0]}
	}

	first := douglasPeucker(points[:far+1], epsilon)
	ring := append(append([]image.Point(nil), points[far:]...), points[0])
	second := douglasPeucker(ring, epsilon)

	out := append([]image.Point(nil), first[:len(first)-1]...)
	return append(out, second[:len(second)-1]...)
}

func douglasPeucker(points []image.Point, epsilon float64) []image.Point {
	n := len(points)
	if n <= 2 {
		return append([]image.Point(nil), points...)
	}

	a, b := points[0], points[n-1]
	idx, maxDist := 0, -1.0
	for i := 1; i < n-1; i++ {
		if d := lineDist(points[i], a, b); d > maxDist {
			idx, maxDist = i, d
		}
	}

	if maxDist <= epsilon {
		return []image.Point{a, b}
	}

	left := douglasPeucker(points[:idx+1], epsilon)
	right := douglasPeucker(points[idx:], epsilon)
	return append(left[:len(left)-1], right...)
}

// lineDist is the distance from p to the line through a and b, or to a when
// the two coincide.
func lineDist(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return dist(p, a)
	}
	return math.Abs(dy*float64(p.X-a.X)-dx*float64(p.Y-a.Y)) / length
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}
