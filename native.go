package k4abt

import "unsafe"

// handle is an opaque native SDK handle value.  A nil handle is never
// valid and must not be passed to any native call
type handle = unsafe.Pointer

// engineOps routes the native entry points the session state machine and
// handle lifetime logic dispatch through.  Tests substitute these with a
// stub engine so the lifetime and queue contract can be exercised on
// machines without the tracking runtime and its ONNX model attached.
// Data plane accessors (buffers, skeleton unpacking) call C directly
type engineOps struct {
	trackerCreate       func(cal *Calibration, cfg TrackerConfig) (handle, StatusCode)
	trackerSetSmoothing func(t handle, factor float32)
	trackerEnqueue      func(t, c handle, timeoutMS int32) WaitStatus
	trackerPop          func(t handle, timeoutMS int32) (handle, WaitStatus)
	trackerShutdown     func(t handle)
	trackerDestroy      func(t handle)

	captureCreate    func() (handle, StatusCode)
	captureReference func(c handle)
	captureRelease   func(c handle)

	imageReference func(i handle)
	imageRelease   func(i handle)

	frameBodyCount func(f handle) int
	frameReference func(f handle)
	frameRelease   func(f handle)
}

// engine dispatches to the real native SDK
var engine = nativeEngine()
