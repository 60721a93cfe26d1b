package k4abt

import (
	"sync"
	"testing"
)

// stubEngine simulates the native engine's reference counting and queue
// behavior so the session and handle lifetime contract can be exercised
// without the SDK
type stubEngine struct {
	sync.Mutex

	// refs tracks the native reference count per live handle
	refs map[handle]int
	// freed records handles whose count reached zero
	freed []handle

	// inputCap is the simulated input queue capacity
	inputCap int
	// input is the number of captures currently queued
	input int
	// frames ready to be popped
	frames []handle

	// popNil makes pop report success with a nil frame handle
	popNil bool
	// createFail makes tracker creation report failure
	createFail bool
	// enqueueFail makes enqueue report a hard failure
	enqueueFail bool

	// bodyCount reported for any frame
	bodyCount int

	// call accounting
	calls         int
	shutdowns     int
	destroys      int
	lastTimeoutMS int32
	smoothing     float32
	lastConfig    TrackerConfig
}

func newStubEngine() *stubEngine {
	return &stubEngine{
		refs:     make(map[handle]int),
		inputCap: 1,
	}
}

// withEngine swaps the native dispatch table for the duration of a test
func withEngine(t *testing.T, e engineOps) {
	t.Helper()

	old := engine
	engine = e

	t.Cleanup(func() {
		engine = old
	})
}

// ops returns the engineOps table dispatching to this stub
func (s *stubEngine) ops() engineOps {
	return engineOps{
		trackerCreate:       s.trackerCreate,
		trackerSetSmoothing: s.trackerSetSmoothing,
		trackerEnqueue:      s.trackerEnqueue,
		trackerPop:          s.trackerPop,
		trackerShutdown:     s.trackerShutdown,
		trackerDestroy:      s.trackerDestroy,
		captureCreate:       s.captureCreate,
		captureReference:    s.reference,
		captureRelease:      s.release,
		imageReference:      s.reference,
		imageRelease:        s.release,
		frameBodyCount:      s.frameBodyCount,
		frameReference:      s.reference,
		frameRelease:        s.release,
	}
}

// newHandle allocates a fake native handle with one reference
func (s *stubEngine) newHandle() handle {
	s.Lock()
	defer s.Unlock()

	h := handle(new(byte))
	s.refs[h] = 1

	return h
}

// live reports whether a handle still has outstanding references
func (s *stubEngine) live(h handle) bool {
	s.Lock()
	defer s.Unlock()

	_, ok := s.refs[h]

	return ok
}

// refCount returns the current reference count of a handle
func (s *stubEngine) refCount(h handle) int {
	s.Lock()
	defer s.Unlock()

	return s.refs[h]
}

// pushFrame queues a frame for the next pop
func (s *stubEngine) pushFrame() handle {
	h := s.newHandle()

	s.Lock()
	defer s.Unlock()

	s.frames = append(s.frames, h)

	return h
}

func (s *stubEngine) trackerCreate(cal *Calibration, cfg TrackerConfig) (handle, StatusCode) {
	s.Lock()
	s.calls++
	s.lastConfig = cfg
	fail := s.createFail
	s.Unlock()

	if fail {
		return nil, StatusFailed
	}

	return s.newHandle(), StatusSucceeded
}

func (s *stubEngine) trackerSetSmoothing(t handle, factor float32) {
	s.Lock()
	defer s.Unlock()

	s.calls++
	s.smoothing = factor
}

func (s *stubEngine) trackerEnqueue(t, c handle, timeoutMS int32) WaitStatus {
	s.Lock()
	defer s.Unlock()

	s.calls++
	s.lastTimeoutMS = timeoutMS

	if s.enqueueFail {
		return WaitFailed
	}

	if s.input >= s.inputCap {
		return WaitTimeout
	}

	// the engine takes its own reference on the queued capture
	s.input++
	s.refs[c]++

	return WaitSucceeded
}

func (s *stubEngine) trackerPop(t handle, timeoutMS int32) (handle, WaitStatus) {
	s.Lock()
	defer s.Unlock()

	s.calls++
	s.lastTimeoutMS = timeoutMS

	if s.popNil {
		return nil, WaitSucceeded
	}

	if len(s.frames) == 0 {
		return nil, WaitTimeout
	}

	f := s.frames[0]
	s.frames = s.frames[1:]

	return f, WaitSucceeded
}

func (s *stubEngine) trackerShutdown(t handle) {
	s.Lock()
	defer s.Unlock()

	s.calls++
	s.shutdowns++
}

func (s *stubEngine) trackerDestroy(t handle) {
	s.Lock()
	s.calls++
	s.destroys++
	s.Unlock()

	s.release(t)
}

func (s *stubEngine) captureCreate() (handle, StatusCode) {
	s.Lock()
	s.calls++
	s.Unlock()

	return s.newHandle(), StatusSucceeded
}

func (s *stubEngine) frameBodyCount(f handle) int {
	s.Lock()
	defer s.Unlock()

	s.calls++

	return s.bodyCount
}

// reference increments a handle's count
func (s *stubEngine) reference(h handle) {
	s.Lock()
	defer s.Unlock()

	s.calls++
	s.refs[h]++
}

// release decrements a handle's count, freeing at zero
func (s *stubEngine) release(h handle) {
	s.Lock()
	defer s.Unlock()

	s.calls++
	s.refs[h]--

	if s.refs[h] <= 0 {
		delete(s.refs, h)
		s.freed = append(s.freed, h)
	}
}
