package k4abt

/*
#include <k4abt.h>
*/
import "C"
import (
	"sync"
	"time"
)

// SensorOrientation wraps C.k4abt_sensor_orientation_t and compensates
// for the physical mounting orientation of the sensor
type SensorOrientation int

const (
	OrientationDefault            SensorOrientation = C.K4ABT_SENSOR_ORIENTATION_DEFAULT
	OrientationClockwise90        SensorOrientation = C.K4ABT_SENSOR_ORIENTATION_CLOCKWISE90
	OrientationCounterClockwise90 SensorOrientation = C.K4ABT_SENSOR_ORIENTATION_COUNTERCLOCKWISE90
	OrientationFlip180            SensorOrientation = C.K4ABT_SENSOR_ORIENTATION_FLIP180
)

// TrackerConfig holds the settings used to construct the native tracking
// engine
type TrackerConfig struct {
	// Orientation the sensor is mounted in
	Orientation SensorOrientation
	// CPUOnly disables the GPU execution path and runs the DNN model on
	// the CPU
	CPUOnly bool
	// GPUDeviceID selects the GPU to run the model on when more than one
	// is installed.  Ignored when CPUOnly is set
	GPUDeviceID int32
	// ModelPath optionally overrides the SDK default DNN model file
	ModelPath string
}

// WaitInfinite blocks an enqueue, pop, or capture operation until the
// engine is ready, a timeout of 0 polls and returns immediately
const WaitInfinite time.Duration = -1

// timeoutMS converts a Go timeout to the millisecond value the C API
// expects, any negative duration means wait indefinitely
func timeoutMS(d time.Duration) int32 {

	if d < 0 {
		return -1
	}

	return int32(d / time.Millisecond)
}

// Tracker is one live connection to the native body tracking engine.  The
// engine owns its own worker threads which drain captures from an input
// queue and publish body frames to an output queue, the Tracker exposes
// blocking access to both ends of that pipeline.
//
// A Tracker is safe for use from multiple goroutines, all operations on
// one Tracker serialize on a single lock as the native engine is not
// documented as safe for concurrent calls on one context
type Tracker struct {
	mu sync.Mutex
	// ctx is the native tracker context, nil once closed
	ctx handle
	// shutdown records that Shutdown has been called
	shutdown bool
	// closed records that the native context has been released
	closed bool
}

// NewTracker creates a body tracking engine for a sensor with the given
// calibration.  The calibration is normally obtained from
// Device.GetCalibration or CalibrationFromRaw
func NewTracker(cal *Calibration, cfg TrackerConfig) (*Tracker, error) {

	if cal == nil {
		return nil, ErrInvalidArgument
	}

	ctx, ret := engine.trackerCreate(cal, cfg)

	if ret != StatusSucceeded {
		return nil, nativeErr("k4abt_tracker_create", ret)
	}

	// a success status paired with a null context is a violation of the
	// native contract
	if ctx == nil {
		return nil, nativeErr("k4abt_tracker_create", StatusFailed)
	}

	t := &Tracker{ctx: ctx}
	registerResource(t)

	return t, nil
}

// SetTemporalSmoothing sets the exponential smoothing factor the engine
// applies across frames to stabilize joint positions.  0 means no
// smoothing and 1 maximum smoothing, the engine clamps values outside
// that range
func (t *Tracker) SetTemporalSmoothing(factor float32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	engine.trackerSetSmoothing(t.ctx, factor)

	return nil
}

// EnqueueCapture hands a capture to the engine's input queue for
// asynchronous processing.  On success the engine holds its own reference
// to the capture and the caller remains free to release theirs.
//
// Returns nil when the capture was accepted, ErrTimeout when the input
// queue stayed full for the whole timeout (retry later, the session is
// still healthy), or a NativeError for any other failure
func (t *Tracker) EnqueueCapture(c *Capture, timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	if c == nil {
		return ErrInvalidArgument
	}

	ch := c.nativeHandle()

	if ch == nil {
		return ErrInvalidArgument
	}

	ret := engine.trackerEnqueue(t.ctx, ch, timeoutMS(timeout))

	switch ret {
	case WaitSucceeded:
		return nil
	case WaitTimeout:
		return ErrTimeout
	default:
		return nativeErr("k4abt_tracker_enqueue_capture", StatusFailed)
	}
}

// PopFrame blocks waiting for the next completed body frame from the
// engine's output queue.  The caller owns the returned frame and must
// Close it.
//
// Returns ErrTimeout when no frame became ready within the timeout (not
// an error condition, retry later), or a NativeError for any other
// failure
func (t *Tracker) PopFrame(timeout time.Duration) (*Frame, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrClosed
	}

	fh, ret := engine.trackerPop(t.ctx, timeoutMS(timeout))

	switch ret {
	case WaitSucceeded:
	case WaitTimeout:
		return nil, ErrTimeout
	default:
		return nil, nativeErr("k4abt_tracker_pop_result", StatusFailed)
	}

	// a success status paired with a null frame is a violation of the
	// native contract, surface it rather than hand back an unusable frame
	if fh == nil {
		return nil, nativeErr("k4abt_tracker_pop_result", StatusFailed)
	}

	return newFrame(fh), nil
}

// Shutdown signals the engine to stop accepting new captures and to
// flush its queues so pending EnqueueCapture and PopFrame calls return
// with a failure or timeout instead of hanging.  How quickly already
// blocked calls observe the shutdown is up to the native engine.
//
// Shutdown is not idempotent, a second call or a call after Close
// returns ErrClosed
func (t *Tracker) Shutdown() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.shutdown {
		return ErrClosed
	}

	engine.trackerShutdown(t.ctx)
	t.shutdown = true

	return nil
}

// Close releases the native tracker context.  Close is idempotent and
// never fails, it is safe to call from teardown paths.  Once closed all
// other operations return ErrClosed
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	engine.trackerDestroy(t.ctx)
	t.ctx = nil
	t.closed = true
	deregisterResource(t)

	return nil
}
