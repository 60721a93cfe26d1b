package k4abt

/*
#include <k4a/k4a.h>
#include <stdlib.h>
*/
import "C"
import (
	"sync"
	"time"
	"unsafe"
)

// FPS wraps C.k4a_fps_t
type FPS int

// camera frame rates
const (
	FPS5  FPS = C.K4A_FRAMES_PER_SECOND_5
	FPS15 FPS = C.K4A_FRAMES_PER_SECOND_15
	FPS30 FPS = C.K4A_FRAMES_PER_SECOND_30
)

// DefaultDevice is the index of the first installed device
const DefaultDevice uint32 = 0

// DeviceCount returns the number of Azure Kinect devices attached to the
// host
func DeviceCount() uint32 {
	return uint32(C.k4a_device_get_installed_count())
}

// DeviceConfig holds the camera settings passed to Device.StartCameras
type DeviceConfig struct {
	// ColorFormat the color camera captures in
	ColorFormat ImageFormat
	// ColorResolution of the color camera, ColorResolutionOff disables it
	ColorResolution ColorResolution
	// DepthMode of the depth camera, DepthModeOff disables it
	DepthMode DepthMode
	// FPS both cameras capture at
	FPS FPS
	// SynchronizedImagesOnly drops captures that do not contain both a
	// color and a depth image
	SynchronizedImagesOnly bool
}

// DefaultDeviceConfig returns the camera settings typically used for
// body tracking, depth NFOV unbinned at 30 frames per second with the
// color camera off
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ColorFormat:     FormatColorBGRA,
		ColorResolution: ColorResolutionOff,
		DepthMode:       DepthModeNFOVUnbinned,
		FPS:             FPS30,
	}
}

// Device is one opened Azure Kinect device
type Device struct {
	mu sync.Mutex
	// h is the native device handle, nil once closed
	h handle
	// closed guards against a double close
	closed bool
}

// OpenDevice opens the device at the given index.  Use DefaultDevice
// when only one device is attached
func OpenDevice(index uint32) (*Device, error) {

	var cDevice C.k4a_device_t

	ret := C.k4a_device_open(C.uint32_t(index), &cDevice)

	if StatusCode(ret) != StatusSucceeded {
		return nil, nativeErr("k4a_device_open", StatusCode(ret))
	}

	if cDevice == nil {
		return nil, nativeErr("k4a_device_open", StatusFailed)
	}

	d := &Device{h: handle(cDevice)}
	registerResource(d)

	return d, nil
}

// Close stops and releases the device.  Close is idempotent and never
// fails
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	C.k4a_device_close(C.k4a_device_t(d.h))
	d.h = nil
	d.closed = true
	deregisterResource(d)

	return nil
}

// SerialNumber returns the device serial number
func (d *Device) SerialNumber() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return "", ErrClosed
	}

	// first call reports the required buffer size
	var size C.size_t

	ret := C.k4a_device_get_serialnum(C.k4a_device_t(d.h), nil, &size)

	if ret != C.K4A_BUFFER_RESULT_TOO_SMALL {
		return "", nativeErr("k4a_device_get_serialnum", StatusFailed)
	}

	buf := make([]byte, int(size))

	ret = C.k4a_device_get_serialnum(C.k4a_device_t(d.h),
		(*C.char)(unsafe.Pointer(&buf[0])), &size)

	if ret != C.K4A_BUFFER_RESULT_SUCCEEDED {
		return "", nativeErr("k4a_device_get_serialnum", StatusFailed)
	}

	// trim the null terminator
	return string(buf[:int(size)-1]), nil
}

// StartCameras starts the color and depth cameras with the given
// settings
func (d *Device) StartCameras(cfg DeviceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	cCfg := C.K4A_DEVICE_CONFIG_INIT_DISABLE_ALL
	cCfg.color_format = C.k4a_image_format_t(cfg.ColorFormat)
	cCfg.color_resolution = C.k4a_color_resolution_t(cfg.ColorResolution)
	cCfg.depth_mode = C.k4a_depth_mode_t(cfg.DepthMode)
	cCfg.camera_fps = C.k4a_fps_t(cfg.FPS)

	if cfg.SynchronizedImagesOnly {
		cCfg.synchronized_images_only = C.bool(true)
	}

	ret := C.k4a_device_start_cameras(C.k4a_device_t(d.h), &cCfg)

	if StatusCode(ret) != StatusSucceeded {
		return nativeErr("k4a_device_start_cameras", StatusCode(ret))
	}

	return nil
}

// StopCameras stops the cameras.  Safe to call whether or not the
// cameras are running
func (d *Device) StopCameras() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	C.k4a_device_stop_cameras(C.k4a_device_t(d.h))

	return nil
}

// GetCapture blocks waiting for the next capture from the device.
// Returns ErrTimeout when no capture became ready within the timeout,
// following the same wait semantics as the tracker queues.  The caller
// owns the returned capture and must Close it
func (d *Device) GetCapture(timeout time.Duration) (*Capture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	var cCapture C.k4a_capture_t

	ret := C.k4a_device_get_capture(C.k4a_device_t(d.h), &cCapture,
		C.int32_t(timeoutMS(timeout)))

	switch WaitStatus(ret) {
	case WaitSucceeded:
	case WaitTimeout:
		return nil, ErrTimeout
	default:
		return nil, nativeErr("k4a_device_get_capture", StatusFailed)
	}

	if cCapture == nil {
		return nil, nativeErr("k4a_device_get_capture", StatusFailed)
	}

	return newCapture(handle(cCapture)), nil
}

// GetCalibration returns the device calibration for the given depth mode
// and color resolution, as needed to construct a Tracker or a
// Transformation
func (d *Device) GetCalibration(depthMode DepthMode, colorRes ColorResolution) (*Calibration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	cal := &Calibration{}

	ret := C.k4a_device_get_calibration(
		C.k4a_device_t(d.h),
		C.k4a_depth_mode_t(depthMode),
		C.k4a_color_resolution_t(colorRes),
		&cal.c,
	)

	if StatusCode(ret) != StatusSucceeded {
		return nil, nativeErr("k4a_device_get_calibration", StatusCode(ret))
	}

	return cal, nil
}

// RawCalibration returns the raw calibration JSON blob stored on the
// device
func (d *Device) RawCalibration() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	var size C.size_t

	ret := C.k4a_device_get_raw_calibration(C.k4a_device_t(d.h), nil, &size)

	if ret != C.K4A_BUFFER_RESULT_TOO_SMALL {
		return nil, nativeErr("k4a_device_get_raw_calibration", StatusFailed)
	}

	buf := make([]byte, int(size))

	ret = C.k4a_device_get_raw_calibration(C.k4a_device_t(d.h),
		(*C.uint8_t)(unsafe.Pointer(&buf[0])), &size)

	if ret != C.K4A_BUFFER_RESULT_SUCCEEDED {
		return nil, nativeErr("k4a_device_get_raw_calibration", StatusFailed)
	}

	return buf[:int(size)], nil
}
