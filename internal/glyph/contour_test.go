package glyph

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fillRect paints r with value v.
func fillRect(img *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

// ring paints a square outline of the given thickness inside r.
func ring(img *image.Gray, r image.Rectangle, thickness int, v uint8) {
	fillRect(img, r, v)
	fillRect(img, r.Inset(thickness), 0)
}

func TestFindContours_FilledRect(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	rect := image.Rect(5, 7, 17, 21) // 12x14
	fillRect(img, rect, 255)

	contours := FindContours(img)
	if len(contours) != 1 {
		t.Fatalf("found %d contours, want 1", len(contours))
	}

	c := contours[0]
	if c.Hole {
		t.Error("filled rectangle should have an outer border")
	}
	if c.Parent != -1 {
		t.Errorf("Parent = %d, want -1", c.Parent)
	}
	if got := c.Bounds(); got != rect {
		t.Errorf("Bounds() = %v, want %v", got, rect)
	}
	if got := c.Area(); got != 11*13 {
		t.Errorf("Area() = %v, want %v", got, 11*13)
	}

	wantCorners := map[image.Point]bool{
		{5, 7}: true, {16, 7}: true, {5, 20}: true, {16, 20}: true,
	}
	if len(c.Points) != 4 {
		t.Fatalf("compressed chain has %d points, want 4: %v", len(c.Points), c.Points)
	}
	for _, p := range c.Points {
		if !wantCorners[p] {
			t.Errorf("unexpected chain point %v", p)
		}
	}
}

func TestFindContours_SinglePixelAndLine(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	img.SetGray(2, 2, color.Gray{Y: 9})
	fillRect(img, image.Rect(5, 6, 9, 7), 9) // 4x1 line

	contours := FindContours(img)
	if len(contours) != 2 {
		t.Fatalf("found %d contours, want 2", len(contours))
	}

	dot := contours[0]
	if diff := cmp.Diff([]image.Point{{2, 2}}, dot.Points); diff != "" {
		t.Errorf("dot points mismatch (-want +got):\n%s", diff)
	}
	if dot.Area() != 0 {
		t.Errorf("dot area = %v, want 0", dot.Area())
	}
	if dot.Bounds() != image.Rect(2, 2, 3, 3) {
		t.Errorf("dot bounds = %v", dot.Bounds())
	}

	line := contours[1]
	if line.Area() != 0 {
		t.Errorf("line area = %v, want 0", line.Area())
	}
	if line.Bounds() != image.Rect(5, 6, 9, 7) {
		t.Errorf("line bounds = %v", line.Bounds())
	}
}

func TestFindContours_Hierarchy(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	ring(img, image.Rect(2, 2, 16, 16), 2, 255) // hole spans 4..13
	fillRect(img, image.Rect(7, 7, 9, 9), 255)  // island inside the hole

	contours := FindContours(img)
	if len(contours) != 3 {
		t.Fatalf("found %d contours, want 3", len(contours))
	}

	outer, hole, island := contours[0], contours[1], contours[2]
	if outer.Hole || outer.Parent != -1 {
		t.Errorf("outer = hole:%v parent:%d, want outer at top level", outer.Hole, outer.Parent)
	}
	if !hole.Hole || hole.Parent != 0 {
		t.Errorf("hole = hole:%v parent:%d, want hole inside contour 0", hole.Hole, hole.Parent)
	}
	if island.Hole || island.Parent != 1 {
		t.Errorf("island = hole:%v parent:%d, want outer inside contour 1", island.Hole, island.Parent)
	}
	if outer.Bounds() != image.Rect(2, 2, 16, 16) {
		t.Errorf("outer bounds = %v", outer.Bounds())
	}
	if outer.Area() != 169 {
		t.Errorf("outer area = %v, want 169", outer.Area())
	}
	if island.Bounds() != image.Rect(7, 7, 9, 9) {
		t.Errorf("island bounds = %v", island.Bounds())
	}
}

func TestFindContours_DiscoveryOrder(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	rects := []image.Rectangle{
		image.Rect(20, 20, 24, 24),
		image.Rect(2, 30, 6, 34),
		image.Rect(30, 2, 34, 6),
		image.Rect(2, 20, 6, 24),
	}
	for _, r := range rects {
		fillRect(img, r, 128)
	}

	var got []image.Rectangle
	for _, c := range FindContours(img) {
		got = append(got, c.Bounds())
	}

	// Raster order of each region's top-left pixel.
	want := []image.Rectangle{rects[2], rects[3], rects[0], rects[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("discovery order mismatch (-want +got):\n%s", diff)
	}
}

func TestFindContours_TouchingFrame(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 6))
	fillRect(img, img.Bounds(), 1)

	contours := FindContours(img)
	if len(contours) != 1 {
		t.Fatalf("found %d contours, want 1", len(contours))
	}
	if contours[0].Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", contours[0].Bounds(), img.Bounds())
	}
	if contours[0].Area() != 25 {
		t.Errorf("area = %v, want 25", contours[0].Area())
	}
}

func TestFindContours_SubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	fillRect(img, image.Rect(12, 12, 16, 16), 255)
	sub := img.SubImage(image.Rect(10, 10, 30, 30)).(*image.Gray)

	contours := FindContours(sub)
	if len(contours) != 1 {
		t.Fatalf("found %d contours, want 1", len(contours))
	}
	if got := contours[0].Bounds(); got != image.Rect(12, 12, 16, 16) {
		t.Errorf("bounds = %v, want coordinates of the parent image", got)
	}
}

func TestFindContours_Empty(t *testing.T) {
	if got := FindContours(image.NewGray(image.Rect(0, 0, 8, 8))); len(got) != 0 {
		t.Errorf("blank image produced %d contours", len(got))
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name   string
		points []image.Point
		want   float64
	}{
		{"empty", nil, 0},
		{"segment", []image.Point{{0, 0}, {5, 0}}, 0},
		{"square ccw", []image.Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}}, 16},
		{"square cw", []image.Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}, 16},
		{"triangle", []image.Point{{0, 0}, {4, 0}, {0, 3}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.points); got != tt.want {
				t.Errorf("PolygonArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingRect(t *testing.T) {
	if got := BoundingRect(nil); got != (image.Rectangle{}) {
		t.Errorf("BoundingRect(nil) = %v", got)
	}
	pts := []image.Point{{3, 9}, {7, 2}, {5, 5}}
	if got := BoundingRect(pts); got != image.Rect(3, 2, 8, 10) {
		t.Errorf("BoundingRect() = %v, want (3,2)-(8,10)", got)
	}
}
