package k4abt

/*
#include <k4a/k4a.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"gocv.io/x/gocv"
)

// ImageFormat wraps C.k4a_image_format_t
type ImageFormat int

// image format values used by the C API
const (
	FormatColorMJPG ImageFormat = C.K4A_IMAGE_FORMAT_COLOR_MJPG
	FormatColorNV12 ImageFormat = C.K4A_IMAGE_FORMAT_COLOR_NV12
	FormatColorYUY2 ImageFormat = C.K4A_IMAGE_FORMAT_COLOR_YUY2
	FormatColorBGRA ImageFormat = C.K4A_IMAGE_FORMAT_COLOR_BGRA32
	FormatDepth16   ImageFormat = C.K4A_IMAGE_FORMAT_DEPTH16
	FormatIR16      ImageFormat = C.K4A_IMAGE_FORMAT_IR16
	FormatCustom8   ImageFormat = C.K4A_IMAGE_FORMAT_CUSTOM8
	FormatCustom16  ImageFormat = C.K4A_IMAGE_FORMAT_CUSTOM16
	FormatCustom    ImageFormat = C.K4A_IMAGE_FORMAT_CUSTOM
)

// String returns a readable description of the image format
func (f ImageFormat) String() string {
	switch f {
	case FormatColorMJPG:
		return "color MJPG"
	case FormatColorNV12:
		return "color NV12"
	case FormatColorYUY2:
		return "color YUY2"
	case FormatColorBGRA:
		return "color BGRA32"
	case FormatDepth16:
		return "depth 16bit"
	case FormatIR16:
		return "infrared 16bit"
	case FormatCustom8:
		return "custom 8bit"
	case FormatCustom16:
		return "custom 16bit"
	case FormatCustom:
		return "custom"
	default:
		return fmt.Sprintf("unknown image format %d", int(f))
	}
}

// Image wraps one native image buffer.  Images are reference counted by
// the SDK the same way captures are, each wrapper releases its reference
// exactly once with Close
type Image struct {
	mu sync.Mutex
	// h is the native image handle, nil once closed
	h handle
	// closed guards against a double release
	closed bool
}

// newImage wraps an already referenced native image handle
func newImage(h handle) *Image {
	i := &Image{h: h}
	registerResource(i)

	return i
}

// NewImage allocates an image buffer through the SDK, for callers
// assembling captures from recorded or synthetic data
func NewImage(format ImageFormat, widthPixels, heightPixels, strideBytes int) (*Image, error) {

	var cImage C.k4a_image_t

	ret := C.k4a_image_create(
		C.k4a_image_format_t(format),
		C.int(widthPixels),
		C.int(heightPixels),
		C.int(strideBytes),
		&cImage,
	)

	if StatusCode(ret) != StatusSucceeded {
		return nil, nativeErr("k4a_image_create", StatusCode(ret))
	}

	if cImage == nil {
		return nil, nativeErr("k4a_image_create", StatusFailed)
	}

	return newImage(handle(cImage)), nil
}

// nativeHandle returns the native handle, or nil when the image has been
// closed
func (i *Image) nativeHandle() handle {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}

	return i.h
}

// Reference increments the native reference count and returns a second
// independent handle to the same image
func (i *Image) Reference() (*Image, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil, ErrClosed
	}

	engine.imageReference(i.h)

	return newImage(i.h), nil
}

// Close releases this handle's native reference.  Close is idempotent
// and never fails
func (i *Image) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}

	engine.imageRelease(i.h)
	i.h = nil
	i.closed = true
	deregisterResource(i)

	return nil
}

// Format returns the image pixel format
func (i *Image) Format() (ImageFormat, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return 0, ErrClosed
	}

	return ImageFormat(C.k4a_image_get_format(C.k4a_image_t(i.h))), nil
}

// Width returns the image width in pixels
func (i *Image) Width() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return 0, ErrClosed
	}

	return int(C.k4a_image_get_width_pixels(C.k4a_image_t(i.h))), nil
}

// Height returns the image height in pixels
func (i *Image) Height() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return 0, ErrClosed
	}

	return int(C.k4a_image_get_height_pixels(C.k4a_image_t(i.h))), nil
}

// Stride returns the image row stride in bytes
func (i *Image) Stride() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return 0, ErrClosed
	}

	return int(C.k4a_image_get_stride_bytes(C.k4a_image_t(i.h))), nil
}

// DeviceTimestamp returns the capture timestamp assigned by the device
// clock
func (i *Image) DeviceTimestamp() (time.Duration, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return 0, ErrClosed
	}

	usec := C.k4a_image_get_device_timestamp_usec(C.k4a_image_t(i.h))

	return time.Duration(usec) * time.Microsecond, nil
}

// Buffer returns the image memory as a byte slice.  The slice aliases
// native memory owned by the image, it is valid only until this handle
// and all duplicates are closed and must be treated as read-only when
// the image is shared
func (i *Image) Buffer() ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil, ErrClosed
	}

	buf := C.k4a_image_get_buffer(C.k4a_image_t(i.h))

	if buf == nil {
		return nil, nativeErr("k4a_image_get_buffer", StatusFailed)
	}

	size := C.k4a_image_get_size(C.k4a_image_t(i.h))

	return unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(size)), nil
}

// ToMat copies the image into a gocv Mat for use with OpenCV based
// processing and rendering.  Supported formats are BGRA32 (CV8UC4),
// DEPTH16/IR16/CUSTOM16 (CV16UC1) and CUSTOM8 (CV8UC1)
func (i *Image) ToMat() (gocv.Mat, error) {

	format, err := i.Format()

	if err != nil {
		return gocv.NewMat(), err
	}

	width, err := i.Width()

	if err != nil {
		return gocv.NewMat(), err
	}

	height, err := i.Height()

	if err != nil {
		return gocv.NewMat(), err
	}

	buf, err := i.Buffer()

	if err != nil {
		return gocv.NewMat(), err
	}

	var matType gocv.MatType

	switch format {
	case FormatColorBGRA:
		matType = gocv.MatTypeCV8UC4
	case FormatDepth16, FormatIR16, FormatCustom16:
		matType = gocv.MatTypeCV16UC1
	case FormatCustom8:
		matType = gocv.MatTypeCV8UC1
	default:
		return gocv.NewMat(), fmt.Errorf("image format %s has no Mat mapping", format)
	}

	return gocv.NewMatFromBytes(height, width, matType, buf)
}
