package k4abt

import "testing"

// trackedCloser records whether it was closed
type trackedCloser struct {
	closed bool
}

func (c *trackedCloser) Close() error {
	c.closed = true
	deregisterResource(c)

	return nil
}

func TestRegistryTracksLiveResources(t *testing.T) {

	before := LiveResources()

	c := &trackedCloser{}
	registerResource(c)

	if got := LiveResources(); got != before+1 {
		t.Fatalf("LiveResources = %d, want %d", got, before+1)
	}

	_ = c.Close()

	if got := LiveResources(); got != before {
		t.Errorf("LiveResources after close = %d, want %d", got, before)
	}
}

func TestCloseAllResources(t *testing.T) {

	closers := []*trackedCloser{{}, {}, {}}

	for _, c := range closers {
		registerResource(c)
	}

	CloseAllResources()

	for i, c := range closers {
		if !c.closed {
			t.Errorf("resource %d not closed by teardown", i)
		}
	}
}

func TestTrackerRegisteredUntilClosed(t *testing.T) {
	stub := newStubEngine()
	withEngine(t, stub.ops())

	before := LiveResources()

	tr, err := NewTracker(&Calibration{}, TrackerConfig{})

	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}

	if got := LiveResources(); got != before+1 {
		t.Errorf("tracker not registered, LiveResources = %d want %d", got, before+1)
	}

	_ = tr.Close()

	if got := LiveResources(); got != before {
		t.Errorf("tracker not deregistered, LiveResources = %d want %d", got, before)
	}
}

func TestCloseAllResourcesReleasesLeakedCapture(t *testing.T) {
	stub := newStubEngine()
	withEngine(t, stub.ops())

	c, err := NewCapture()

	if err != nil {
		t.Fatalf("NewCapture failed: %v", err)
	}

	h := c.nativeHandle()

	// simulate a forgotten Close, teardown must release the native
	// reference
	CloseAllResources()

	if stub.live(h) {
		t.Error("leaked capture not released by teardown")
	}
}
