package mask

import (
	"image"
	"testing"
)

// buildMap renders ascii rows into an index map, '.' is background 255
// and digits are body indexes
func buildMap(rows []string) ([]byte, int, int) {

	height := len(rows)
	width := len(rows[0])
	m := make([]byte, width*height)

	for y, row := range rows {
		for x := 0; x < width; x++ {
			if row[x] == '.' {
				m[y*width+x] = 255
			} else {
				m[y*width+x] = row[x] - '0'
			}
		}
	}

	return m, width, height
}

func TestOutlinesRectangle(t *testing.T) {

	m, w, h := buildMap([]string{
		"........",
		".0000...",
		".0000...",
		".0000...",
		"........",
	})

	outlines := Outlines(m, w, h, 0)

	if len(outlines) != 1 {
		t.Fatalf("got %d outlines, want 1", len(outlines))
	}

	outline := outlines[0]

	// a 4x3 rectangle has 10 boundary pixels
	if len(outline) != 10 {
		t.Errorf("outline has %d points, want 10", len(outline))
	}

	// the traced contour runs through pixel centers, for a w x h block
	// it encloses (w-1)*(h-1)
	if got := Area(outline); got != 6 {
		t.Errorf("outline area = %f, want 6", got)
	}

	// every outline point lies on the component
	for _, pt := range outline {
		if m[pt.Y*w+pt.X] != 0 {
			t.Errorf("outline point %v is not on the body", pt)
		}
	}
}

func TestOutlinesSeparateComponents(t *testing.T) {

	m, w, h := buildMap([]string{
		"00...11",
		"00...11",
		".......",
		"..00...",
		"..00...",
	})

	// two components of body 0
	outlines := Outlines(m, w, h, 0)

	if len(outlines) != 2 {
		t.Fatalf("got %d outlines for body 0, want 2", len(outlines))
	}

	// one component of body 1
	outlines = Outlines(m, w, h, 1)

	if len(outlines) != 1 {
		t.Fatalf("got %d outlines for body 1, want 1", len(outlines))
	}

	// absent body
	if outlines := Outlines(m, w, h, 5); outlines != nil {
		t.Errorf("got %d outlines for absent body, want none", len(outlines))
	}
}

func TestOutlinesSinglePixel(t *testing.T) {

	m, w, h := buildMap([]string{
		"...",
		".0.",
		"...",
	})

	outlines := Outlines(m, w, h, 0)

	if len(outlines) != 1 {
		t.Fatalf("got %d outlines, want 1", len(outlines))
	}

	if len(outlines[0]) != 1 || outlines[0][0] != image.Pt(1, 1) {
		t.Errorf("unexpected single pixel outline %v", outlines[0])
	}
}

func TestOutlinesTouchingEdge(t *testing.T) {

	// component flush against the map border must trace without walking
	// out of bounds
	m, w, h := buildMap([]string{
		"000",
		"000",
	})

	outlines := Outlines(m, w, h, 0)

	if len(outlines) != 1 {
		t.Fatalf("got %d outlines, want 1", len(outlines))
	}

	for _, pt := range outlines[0] {
		if pt.X < 0 || pt.X >= w || pt.Y < 0 || pt.Y >= h {
			t.Fatalf("outline point %v out of bounds", pt)
		}
	}
}

func TestOutlinesBackground(t *testing.T) {

	m, w, h := buildMap([]string{
		"000",
		"0.0",
		"000",
	})

	// the untracked background is traceable like any body value
	outlines := Outlines(m, w, h, 255)

	if len(outlines) != 1 {
		t.Fatalf("got %d background outlines, want 1", len(outlines))
	}

	if outlines[0][0] != image.Pt(1, 1) {
		t.Errorf("unexpected background outline %v", outlines[0])
	}
}

func TestOutlinesBadInput(t *testing.T) {

	if got := Outlines(nil, 4, 4, 0); got != nil {
		t.Error("expected no outlines for nil map")
	}

	if got := Outlines(make([]byte, 16), 0, 4, 0); got != nil {
		t.Error("expected no outlines for zero width")
	}

	// buffer shorter than width*height
	if got := Outlines(make([]byte, 8), 4, 4, 0); got != nil {
		t.Error("expected no outlines for short buffer")
	}
}

func TestExpand(t *testing.T) {

	square := Polygon{
		image.Pt(10, 10), image.Pt(20, 10),
		image.Pt(20, 20), image.Pt(10, 20),
	}

	grown := Expand(square, 3)

	if len(grown) < 4 {
		t.Fatalf("expanded polygon has only %d points", len(grown))
	}

	if Area(grown) <= Area(square) {
		t.Errorf("expanded area %f not larger than original %f",
			Area(grown), Area(square))
	}

	shrunk := Expand(square, -2)

	if Area(shrunk) >= Area(square) {
		t.Errorf("shrunk area %f not smaller than original %f",
			Area(shrunk), Area(square))
	}

	if got := Expand(nil, 5); got != nil {
		t.Error("expected nil result for empty polygon")
	}
}

func TestArea(t *testing.T) {

	square := Polygon{
		image.Pt(0, 0), image.Pt(10, 0),
		image.Pt(10, 10), image.Pt(0, 10),
	}

	if got := Area(square); got != 100 {
		t.Errorf("square area = %f, want 100", got)
	}

	// winding order must not matter
	reversed := Polygon{
		image.Pt(0, 10), image.Pt(10, 10),
		image.Pt(10, 0), image.Pt(0, 0),
	}

	if got := Area(reversed); got != 100 {
		t.Errorf("reversed square area = %f, want 100", got)
	}

	if got := Area(Polygon{image.Pt(0, 0), image.Pt(1, 1)}); got != 0 {
		t.Errorf("degenerate polygon area = %f, want 0", got)
	}
}
