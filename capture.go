package k4abt

/*
#include <k4a/k4a.h>
*/
import "C"
import "sync"

// Capture is one synchronized bundle of camera images (color, depth,
// infrared) plus the sensor temperature at capture time.  Captures are
// reference counted by the native SDK, Reference yields an independent
// second handle to the same underlying capture and each handle must be
// released exactly once with Close.
//
// A Capture is safe to share read-only across goroutines via Reference
type Capture struct {
	mu sync.Mutex
	// h is the native capture handle, nil once closed
	h handle
	// closed guards against a double release
	closed bool
}

// newCapture wraps an already referenced native capture handle
func newCapture(h handle) *Capture {
	c := &Capture{h: h}
	registerResource(c)

	return c
}

// NewCapture creates an empty capture for callers assembling their own
// image bundles, for example when feeding recorded data to a tracker
func NewCapture() (*Capture, error) {

	h, ret := engine.captureCreate()

	if ret != StatusSucceeded {
		return nil, nativeErr("k4a_capture_create", ret)
	}

	if h == nil {
		return nil, nativeErr("k4a_capture_create", StatusFailed)
	}

	return newCapture(h), nil
}

// nativeHandle returns the native handle, or nil when the capture has
// been closed
func (c *Capture) nativeHandle() handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	return c.h
}

// Reference increments the native reference count and returns a second
// independent handle to the same capture.  Closing one handle never
// invalidates the other
func (c *Capture) Reference() (*Capture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	engine.captureReference(c.h)

	return newCapture(c.h), nil
}

// Close releases this handle's native reference.  The underlying capture
// is freed by the SDK once all references are released.  Close is
// idempotent and never fails
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	engine.captureRelease(c.h)
	c.h = nil
	c.closed = true
	deregisterResource(c)

	return nil
}

// image fetches one of the capture's images by getter.  The SDK returns
// an already referenced image handle, or null when the capture holds no
// such image
func (c *Capture) image(get func(C.k4a_capture_t) C.k4a_image_t) (*Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	ih := get(C.k4a_capture_t(c.h))

	if ih == nil {
		return nil, nil
	}

	return newImage(handle(ih)), nil
}

// ColorImage returns the capture's color image, or nil when the capture
// holds none.  The caller owns the returned image and must Close it
func (c *Capture) ColorImage() (*Image, error) {
	return c.image(func(h C.k4a_capture_t) C.k4a_image_t {
		return C.k4a_capture_get_color_image(h)
	})
}

// DepthImage returns the capture's depth image, or nil when the capture
// holds none.  The caller owns the returned image and must Close it
func (c *Capture) DepthImage() (*Image, error) {
	return c.image(func(h C.k4a_capture_t) C.k4a_image_t {
		return C.k4a_capture_get_depth_image(h)
	})
}

// IRImage returns the capture's infrared image, or nil when the capture
// holds none.  The caller owns the returned image and must Close it
func (c *Capture) IRImage() (*Image, error) {
	return c.image(func(h C.k4a_capture_t) C.k4a_image_t {
		return C.k4a_capture_get_ir_image(h)
	})
}

// SetColorImage attaches a color image to the capture, replacing any
// existing one
func (c *Capture) SetColorImage(img *Image) error {
	return c.setImage(img, func(h C.k4a_capture_t, ih C.k4a_image_t) {
		C.k4a_capture_set_color_image(h, ih)
	})
}

// SetDepthImage attaches a depth image to the capture, replacing any
// existing one
func (c *Capture) SetDepthImage(img *Image) error {
	return c.setImage(img, func(h C.k4a_capture_t, ih C.k4a_image_t) {
		C.k4a_capture_set_depth_image(h, ih)
	})
}

// SetIRImage attaches an infrared image to the capture, replacing any
// existing one
func (c *Capture) SetIRImage(img *Image) error {
	return c.setImage(img, func(h C.k4a_capture_t, ih C.k4a_image_t) {
		C.k4a_capture_set_ir_image(h, ih)
	})
}

// setImage attaches an image to the capture, the SDK takes its own
// reference
func (c *Capture) setImage(img *Image, set func(C.k4a_capture_t, C.k4a_image_t)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if img == nil {
		return ErrInvalidArgument
	}

	ih := img.nativeHandle()

	if ih == nil {
		return ErrInvalidArgument
	}

	set(C.k4a_capture_t(c.h), C.k4a_image_t(ih))

	return nil
}

// Temperature returns the sensor temperature in degrees celsius at
// capture time
func (c *Capture) Temperature() (float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}

	return float32(C.k4a_capture_get_temperature_c(C.k4a_capture_t(c.h))), nil
}

// SetTemperature sets the capture's temperature reading in degrees
// celsius
func (c *Capture) SetTemperature(temp float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	C.k4a_capture_set_temperature_c(C.k4a_capture_t(c.h), C.float(temp))

	return nil
}
