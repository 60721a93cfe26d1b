package k4abt

/*
#include <k4a/k4a.h>
*/
import "C"
import "sync"

// Transformation wraps the native transformation engine which converts
// images between the depth and color camera geometries of one
// calibration
type Transformation struct {
	mu sync.Mutex
	// h is the native transformation handle, nil once closed
	h handle
	// closed guards against a double release
	closed bool
}

// NewTransformation creates a transformation engine for the given
// calibration
func NewTransformation(cal *Calibration) (*Transformation, error) {

	if cal == nil {
		return nil, ErrInvalidArgument
	}

	ch := C.k4a_transformation_create(&cal.c)

	if ch == nil {
		return nil, nativeErr("k4a_transformation_create", StatusFailed)
	}

	t := &Transformation{h: handle(ch)}
	registerResource(t)

	return t, nil
}

// Close destroys the native transformation engine.  Close is idempotent
// and never fails
func (t *Transformation) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	C.k4a_transformation_destroy(C.k4a_transformation_t(t.h))
	t.h = nil
	t.closed = true
	deregisterResource(t)

	return nil
}

// DepthToPointCloud converts a depth image into a 3 channel XYZ point
// cloud image in depth camera geometry.  Each pixel holds three
// little-endian int16 values in millimeters, invalid depth pixels
// produce 0,0,0.  The caller owns the returned image and must Close it
func (t *Transformation) DepthToPointCloud(depth *Image) (*Image, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrClosed
	}

	if depth == nil {
		return nil, ErrInvalidArgument
	}

	dh := depth.nativeHandle()

	if dh == nil {
		return nil, ErrInvalidArgument
	}

	width, err := depth.Width()

	if err != nil {
		return nil, err
	}

	height, err := depth.Height()

	if err != nil {
		return nil, err
	}

	// 3 int16 values per pixel
	xyz, err := NewImage(FormatCustom, width, height, width*6)

	if err != nil {
		return nil, err
	}

	ret := C.k4a_transformation_depth_image_to_point_cloud(
		C.k4a_transformation_t(t.h),
		C.k4a_image_t(dh),
		C.K4A_CALIBRATION_TYPE_DEPTH,
		C.k4a_image_t(xyz.nativeHandle()),
	)

	if StatusCode(ret) != StatusSucceeded {
		_ = xyz.Close()
		return nil, nativeErr("k4a_transformation_depth_image_to_point_cloud", StatusCode(ret))
	}

	return xyz, nil
}
