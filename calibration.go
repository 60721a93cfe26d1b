package k4abt

/*
#include <k4a/k4a.h>
*/
import "C"
import "unsafe"

// DepthMode wraps C.k4a_depth_mode_t
type DepthMode int

// depth camera operating modes
const (
	DepthModeOff           DepthMode = C.K4A_DEPTH_MODE_OFF
	DepthModeNFOV2x2Binned DepthMode = C.K4A_DEPTH_MODE_NFOV_2X2BINNED
	DepthModeNFOVUnbinned  DepthMode = C.K4A_DEPTH_MODE_NFOV_UNBINNED
	DepthModeWFOV2x2Binned DepthMode = C.K4A_DEPTH_MODE_WFOV_2X2BINNED
	DepthModeWFOVUnbinned  DepthMode = C.K4A_DEPTH_MODE_WFOV_UNBINNED
	DepthModePassiveIR     DepthMode = C.K4A_DEPTH_MODE_PASSIVE_IR
)

// ColorResolution wraps C.k4a_color_resolution_t
type ColorResolution int

// color camera resolutions
const (
	ColorResolutionOff   ColorResolution = C.K4A_COLOR_RESOLUTION_OFF
	ColorResolution720p  ColorResolution = C.K4A_COLOR_RESOLUTION_720P
	ColorResolution1080p ColorResolution = C.K4A_COLOR_RESOLUTION_1080P
	ColorResolution1440p ColorResolution = C.K4A_COLOR_RESOLUTION_1440P
	ColorResolution1536p ColorResolution = C.K4A_COLOR_RESOLUTION_1536P
	ColorResolution2160p ColorResolution = C.K4A_COLOR_RESOLUTION_2160P
	ColorResolution3072p ColorResolution = C.K4A_COLOR_RESOLUTION_3072P
)

// CalibrationType wraps C.k4a_calibration_type_t and selects which
// camera's coordinate system a conversion works in
type CalibrationType int

const (
	CalibrationTypeDepth CalibrationType = C.K4A_CALIBRATION_TYPE_DEPTH
	CalibrationTypeColor CalibrationType = C.K4A_CALIBRATION_TYPE_COLOR
	CalibrationTypeGyro  CalibrationType = C.K4A_CALIBRATION_TYPE_GYRO
	CalibrationTypeAccel CalibrationType = C.K4A_CALIBRATION_TYPE_ACCEL
)

// Calibration holds the camera calibration blob for one device and mode
// combination.  It is a plain value, not a reference counted handle, and
// is obtained from Device.GetCalibration or CalibrationFromRaw
type Calibration struct {
	// c is the native calibration struct, treated as opaque
	c C.k4a_calibration_t
}

// CalibrationFromRaw builds a Calibration from the raw calibration JSON
// stored on the device (or alongside a recording) for the given depth
// mode and color resolution
func CalibrationFromRaw(raw []byte, depthMode DepthMode, colorRes ColorResolution) (*Calibration, error) {

	if len(raw) == 0 {
		return nil, ErrInvalidArgument
	}

	// the C API expects a null terminated buffer with the terminator
	// counted in the size
	buf := make([]byte, len(raw)+1)
	copy(buf, raw)

	cal := &Calibration{}

	ret := C.k4a_calibration_get_from_raw(
		(*C.char)(unsafe.Pointer(&buf[0])),
		C.size_t(len(buf)),
		C.k4a_depth_mode_t(depthMode),
		C.k4a_color_resolution_t(colorRes),
		&cal.c,
	)

	if StatusCode(ret) != StatusSucceeded {
		return nil, nativeErr("k4a_calibration_get_from_raw", StatusCode(ret))
	}

	return cal, nil
}

// Convert3DTo2D projects a 3D point in the source camera's coordinate
// system (millimeters) onto the target camera's image plane (pixels).
// The boolean result is false when the point falls outside the target
// camera's view, which is not an error
func (cal *Calibration) Convert3DTo2D(point Float3, source, target CalibrationType) (Float2, bool, error) {

	var cSource C.k4a_float3_t
	src := (*[3]C.float)(unsafe.Pointer(&cSource))
	src[0] = C.float(point.X)
	src[1] = C.float(point.Y)
	src[2] = C.float(point.Z)

	var cTarget C.k4a_float2_t
	var cValid C.int

	ret := C.k4a_calibration_3d_to_2d(
		&cal.c,
		&cSource,
		C.k4a_calibration_type_t(source),
		C.k4a_calibration_type_t(target),
		&cTarget,
		&cValid,
	)

	if StatusCode(ret) != StatusSucceeded {
		return Float2{}, false, nativeErr("k4a_calibration_3d_to_2d", StatusCode(ret))
	}

	dst := (*[2]C.float)(unsafe.Pointer(&cTarget))

	return Float2{
		X: float32(dst[0]),
		Y: float32(dst[1]),
	}, cValid != 0, nil
}
