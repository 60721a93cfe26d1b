package k4abt

/*
#cgo LDFLAGS: -lk4a -lk4abt
#include <k4a/k4a.h>
#include <k4abt.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// nativeEngine returns the engineOps dispatching to the k4a/k4abt C
// libraries
func nativeEngine() engineOps {
	return engineOps{
		trackerCreate:       cTrackerCreate,
		trackerSetSmoothing: cTrackerSetSmoothing,
		trackerEnqueue:      cTrackerEnqueue,
		trackerPop:          cTrackerPop,
		trackerShutdown:     cTrackerShutdown,
		trackerDestroy:      cTrackerDestroy,
		captureCreate:       cCaptureCreate,
		captureReference:    cCaptureReference,
		captureRelease:      cCaptureRelease,
		imageReference:      cImageReference,
		imageRelease:        cImageRelease,
		frameBodyCount:      cFrameBodyCount,
		frameReference:      cFrameReference,
		frameRelease:        cFrameRelease,
	}
}

// cTrackerCreate wraps C.k4abt_tracker_create
func cTrackerCreate(cal *Calibration, cfg TrackerConfig) (handle, StatusCode) {

	var cCfg C.k4abt_tracker_configuration_t
	cCfg.sensor_orientation = C.k4abt_sensor_orientation_t(cfg.Orientation)
	cCfg.gpu_device_id = C.int32_t(cfg.GPUDeviceID)

	if cfg.CPUOnly {
		cCfg.processing_mode = C.K4ABT_TRACKER_PROCESSING_MODE_CPU
	} else {
		cCfg.processing_mode = C.K4ABT_TRACKER_PROCESSING_MODE_GPU
	}

	// an alternate DNN model file may be supplied in place of the SDK
	// default
	if cfg.ModelPath != "" {
		cModelPath := C.CString(cfg.ModelPath)
		defer C.free(unsafe.Pointer(cModelPath))
		cCfg.model_path = cModelPath
	}

	var cTracker C.k4abt_tracker_t

	ret := C.k4abt_tracker_create(&cal.c, cCfg, &cTracker)

	return handle(cTracker), StatusCode(ret)
}

// cTrackerSetSmoothing wraps C.k4abt_tracker_set_temporal_smoothing
func cTrackerSetSmoothing(t handle, factor float32) {
	C.k4abt_tracker_set_temporal_smoothing(C.k4abt_tracker_t(t), C.float(factor))
}

// cTrackerEnqueue wraps C.k4abt_tracker_enqueue_capture
func cTrackerEnqueue(t, c handle, timeoutMS int32) WaitStatus {
	ret := C.k4abt_tracker_enqueue_capture(C.k4abt_tracker_t(t),
		C.k4a_capture_t(c), C.int32_t(timeoutMS))

	return WaitStatus(ret)
}

// cTrackerPop wraps C.k4abt_tracker_pop_result
func cTrackerPop(t handle, timeoutMS int32) (handle, WaitStatus) {

	var cFrame C.k4abt_frame_t

	ret := C.k4abt_tracker_pop_result(C.k4abt_tracker_t(t), &cFrame,
		C.int32_t(timeoutMS))

	return handle(cFrame), WaitStatus(ret)
}

// cTrackerShutdown wraps C.k4abt_tracker_shutdown
func cTrackerShutdown(t handle) {
	C.k4abt_tracker_shutdown(C.k4abt_tracker_t(t))
}

// cTrackerDestroy wraps C.k4abt_tracker_destroy
func cTrackerDestroy(t handle) {
	C.k4abt_tracker_destroy(C.k4abt_tracker_t(t))
}

// cCaptureCreate wraps C.k4a_capture_create
func cCaptureCreate() (handle, StatusCode) {

	var cCapture C.k4a_capture_t

	ret := C.k4a_capture_create(&cCapture)

	return handle(cCapture), StatusCode(ret)
}

// cCaptureReference wraps C.k4a_capture_reference which increments the
// native reference count on the capture
func cCaptureReference(c handle) {
	C.k4a_capture_reference(C.k4a_capture_t(c))
}

// cCaptureRelease wraps C.k4a_capture_release which decrements the native
// reference count, freeing the capture when the count reaches zero
func cCaptureRelease(c handle) {
	C.k4a_capture_release(C.k4a_capture_t(c))
}

// cImageReference wraps C.k4a_image_reference
func cImageReference(i handle) {
	C.k4a_image_reference(C.k4a_image_t(i))
}

// cImageRelease wraps C.k4a_image_release
func cImageRelease(i handle) {
	C.k4a_image_release(C.k4a_image_t(i))
}

// cFrameBodyCount wraps C.k4abt_frame_get_num_bodies
func cFrameBodyCount(f handle) int {
	return int(C.k4abt_frame_get_num_bodies(C.k4abt_frame_t(f)))
}

// cFrameReference wraps C.k4abt_frame_reference
func cFrameReference(f handle) {
	C.k4abt_frame_reference(C.k4abt_frame_t(f))
}

// cFrameRelease wraps C.k4abt_frame_release
func cFrameRelease(f handle) {
	C.k4abt_frame_release(C.k4abt_frame_t(f))
}
