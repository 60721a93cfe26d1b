package k4abt

/*
#include <k4abt.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"time"
	"unsafe"
)

// Frame is one body tracking result popped from the tracker's output
// queue.  It holds the detected bodies, the body index map labeling
// which body owns each depth pixel, and a reference to the capture the
// result was computed from.  Frames are reference counted like captures
// and images
type Frame struct {
	mu sync.Mutex
	// h is the native frame handle, nil once closed
	h handle
	// closed guards against a double release
	closed bool
}

// newFrame wraps an already referenced native frame handle
func newFrame(h handle) *Frame {
	f := &Frame{h: h}
	registerResource(f)

	return f
}

// Reference increments the native reference count and returns a second
// independent handle to the same frame
func (f *Frame) Reference() (*Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}

	engine.frameReference(f.h)

	return newFrame(f.h), nil
}

// Close releases this handle's native reference.  Close is idempotent
// and never fails
func (f *Frame) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	engine.frameRelease(f.h)
	f.h = nil
	f.closed = true
	deregisterResource(f)

	return nil
}

// BodyCount returns the number of bodies detected in this frame
func (f *Frame) BodyCount() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ErrClosed
	}

	return engine.frameBodyCount(f.h), nil
}

// Body returns the body at the given index, 0 <= index < BodyCount
func (f *Frame) Body(index int) (Body, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return Body{}, ErrClosed
	}

	count := engine.frameBodyCount(f.h)

	if index < 0 || index >= count {
		return Body{}, fmt.Errorf("body index %d out of range [0-%d)", index, count)
	}

	var cSkeleton C.k4abt_skeleton_t

	ret := C.k4abt_frame_get_body_skeleton(C.k4abt_frame_t(f.h),
		C.uint32_t(index), &cSkeleton)

	if StatusCode(ret) != StatusSucceeded {
		return Body{}, nativeErr("k4abt_frame_get_body_skeleton", StatusCode(ret))
	}

	id := uint32(C.k4abt_frame_get_body_id(C.k4abt_frame_t(f.h), C.uint32_t(index)))

	return Body{
		ID:       id,
		Skeleton: convertSkeleton(&cSkeleton),
	}, nil
}

// Bodies returns all bodies detected in this frame
func (f *Frame) Bodies() ([]Body, error) {

	count, err := f.BodyCount()

	if err != nil {
		return nil, err
	}

	bodies := make([]Body, 0, count)

	for i := 0; i < count; i++ {

		body, err := f.Body(i)

		if err != nil {
			return nil, err
		}

		bodies = append(bodies, body)
	}

	return bodies, nil
}

// IndexMap returns the body index map image, a single channel 8bit image
// in depth camera geometry where each pixel holds the index of the body
// covering it, or BackgroundIndex for no body.  The caller owns the
// returned image and must Close it
func (f *Frame) IndexMap() (*Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}

	ih := C.k4abt_frame_get_body_index_map(C.k4abt_frame_t(f.h))

	if ih == nil {
		return nil, nativeErr("k4abt_frame_get_body_index_map", StatusFailed)
	}

	return newImage(handle(ih)), nil
}

// Capture returns the original capture this frame was computed from.
// The caller owns the returned capture and must Close it
func (f *Frame) Capture() (*Capture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}

	ch := C.k4abt_frame_get_capture(C.k4abt_frame_t(f.h))

	if ch == nil {
		return nil, nativeErr("k4abt_frame_get_capture", StatusFailed)
	}

	return newCapture(handle(ch)), nil
}

// DeviceTimestamp returns the device clock timestamp of the capture this
// frame was computed from
func (f *Frame) DeviceTimestamp() (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ErrClosed
	}

	usec := C.k4abt_frame_get_device_timestamp_usec(C.k4abt_frame_t(f.h))

	return time.Duration(usec) * time.Microsecond, nil
}

// convertSkeleton unpacks the C skeleton struct into the Go Skeleton.
// The position and orientation fields are C unions, cgo exposes them as
// byte arrays so the float members are read through pointer casts
func convertSkeleton(cs *C.k4abt_skeleton_t) Skeleton {

	var s Skeleton

	for j := 0; j < JointCount; j++ {

		cj := &cs.joints[j]

		pos := (*[3]C.float)(unsafe.Pointer(&cj.position))
		orient := (*[4]C.float)(unsafe.Pointer(&cj.orientation))

		s.Joints[j] = Joint{
			Position: Float3{
				X: float32(pos[0]),
				Y: float32(pos[1]),
				Z: float32(pos[2]),
			},
			// quaternion union member order is w, x, y, z
			Orientation: Quaternion{
				W: float32(orient[0]),
				X: float32(orient[1]),
				Y: float32(orient[2]),
				Z: float32(orient[3]),
			},
			Confidence: ConfidenceLevel(cj.confidence_level),
		}
	}

	return s
}
