// Package track provides client side helpers layered on top of the
// engine's body tracking results, a positional trail history per body
// and a Kalman smoother over joint positions.
package track

import (
	"image"
	"sync"
)

// body represents one body's track history
type body struct {
	points []image.Point
}

// Trail keeps a history of projected body positions keyed by the
// engine's stable body identifier, used for drawing a movement trail
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// history of tracked points per body id
	history map[uint32]*body
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size specifies the
// maximum length of trail to maintain per body
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[uint32]*body),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[uint32]*body)
}

// Add records a body's position for the current frame, typically the
// pelvis joint projected onto the image being rendered
func (t *Trail) Add(id uint32, pt image.Point) {
	t.Lock()
	defer t.Unlock()

	// init map if no history exists yet for body id
	if _, exists := t.history[id]; !exists {
		t.history[id] = &body{}
	}

	b := t.history[id]
	b.points = append(b.points, pt)

	// check if history is exceeded and drop oldest point
	if len(b.points) > t.size {
		b.points = b.points[1:]
	}
}

// Drop discards the history for a body no longer being tracked
func (t *Trail) Drop(id uint32) {
	t.Lock()
	defer t.Unlock()

	delete(t.history, id)
}

// GetPoints gets the point history for a specific body id
func (t *Trail) GetPoints(id uint32) []image.Point {
	t.Lock()
	defer t.Unlock()

	if _, exists := t.history[id]; exists {
		return t.history[id].points
	}

	// no history yet
	return nil
}
