// Package mask post-processes body index maps, tracing per body outline
// polygons and expanding them for overlay rendering.
package mask

import (
	"image"

	clipper "github.com/ctessum/go.clipper"
)

// Polygon is a closed outline as a series of pixel coordinates
type Polygon []image.Point

// mooreOffsets are the 8 neighbour offsets in clockwise order starting
// from west
var mooreOffsets = [8]image.Point{
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
}

// Outlines traces the outer boundary polygon of every connected region
// belonging to the given body index in a body index map.  The index map
// is the buffer of the frame's IndexMap image, row major with the given
// dimensions.  Pass k4abt.BackgroundIndex to outline the untracked
// background instead of a body
func Outlines(indexMap []byte, width, height int, body uint8) []Polygon {

	if len(indexMap) < width*height || width <= 0 || height <= 0 {
		return nil
	}

	visited := make([]bool, width*height)
	var outlines []Polygon

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {

			idx := y*width + x

			if visited[idx] || indexMap[idx] != body {
				continue
			}

			// mark the whole connected component as handled, then trace
			// its boundary from this topmost leftmost pixel
			floodFill(indexMap, visited, width, height, x, y, body)

			outline := traceBoundary(indexMap, width, height, x, y, body)

			if len(outline) > 0 {
				outlines = append(outlines, outline)
			}
		}
	}

	return outlines
}

// floodFill marks all pixels 4-connected to x,y holding the body value
func floodFill(indexMap []byte, visited []bool, width, height, x, y int, body uint8) {

	stack := []image.Point{{X: x, Y: y}}
	visited[y*width+x] = true

	for len(stack) > 0 {

		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {

			nx, ny := p.X+d.X, p.Y+d.Y

			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}

			nIdx := ny*width + nx

			if visited[nIdx] || indexMap[nIdx] != body {
				continue
			}

			visited[nIdx] = true
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}
}

// traceBoundary walks the outer contour of a connected component using
// Moore neighbour tracing.  start must be the topmost leftmost pixel of
// the component so its west neighbour is guaranteed outside
func traceBoundary(indexMap []byte, width, height, startX, startY int, body uint8) Polygon {

	inside := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}

		return indexMap[y*width+x] == body
	}

	start := image.Point{X: startX, Y: startY}
	contour := Polygon{start}

	// single pixel component
	single := true

	for _, d := range mooreOffsets {
		if inside(start.X+d.X, start.Y+d.Y) {
			single = false
			break
		}
	}

	if single {
		return contour
	}

	cur := start
	// entered from the west
	backtrack := 0

	// bound the walk, a contour can never exceed the pixel count
	for step := 0; step < 4*width*height; step++ {

		found := false
		var next image.Point
		var nextBacktrack int

		// scan neighbours clockwise starting just after the backtrack
		// direction
		for i := 1; i <= 8; i++ {

			dir := (backtrack + i) % 8
			n := image.Point{X: cur.X + mooreOffsets[dir].X, Y: cur.Y + mooreOffsets[dir].Y}

			if inside(n.X, n.Y) {
				next = n
				// the new backtrack points from next towards the last
				// empty neighbour before it
				nextBacktrack = (dir + 4 + 1) % 8
				found = true
				break
			}
		}

		if !found {
			break
		}

		if next == start {
			break
		}

		contour = append(contour, next)
		cur = next
		backtrack = nextBacktrack
	}

	return contour
}

// Expand grows a closed polygon outward by the given distance in pixels
// using a rounded polygon offset, for drawing outlines that sit clear of
// the body silhouette.  A negative distance shrinks the polygon
func Expand(p Polygon, distance float64) Polygon {

	if len(p) == 0 {
		return nil
	}

	var path clipper.Path

	for _, pt := range p {
		path = append(path, &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)})
	}

	// create a ClipperOffset object and add the path
	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtRound, clipper.EtClosedPolygon)

	// execute the offset operation
	solution := co.Execute(distance)

	if len(solution) == 0 {
		return nil
	}

	// keep the largest resulting path
	best := solution[0]

	for _, sol := range solution[1:] {
		if len(sol) > len(best) {
			best = sol
		}
	}

	out := make(Polygon, 0, len(best))

	for _, pt := range best {
		out = append(out, image.Point{X: int(pt.X), Y: int(pt.Y)})
	}

	return out
}

// Area returns the enclosed area of a closed polygon in square pixels
func Area(p Polygon) float64 {

	if len(p) < 3 {
		return 0
	}

	sum := 0.0

	for i := 0; i < len(p); i++ {
		j := (i + 1) % len(p)
		sum += float64(p[i].X)*float64(p[j].Y) - float64(p[j].X)*float64(p[i].Y)
	}

	if sum < 0 {
		sum = -sum
	}

	return sum / 2
}
