package k4abt

import (
	"io"
	"sync"
)

// resources is the process wide registry of live native backed objects.
// Every wrapper registers itself at construction and deregisters at
// Close, so a long running capture loop that forgets a release can be
// cleaned up with one explicit teardown call instead of leaking native
// memory
var resources = struct {
	sync.Mutex
	live map[io.Closer]struct{}
}{
	live: make(map[io.Closer]struct{}),
}

// registerResource adds a live native backed object to the registry
func registerResource(c io.Closer) {
	resources.Lock()
	defer resources.Unlock()

	resources.live[c] = struct{}{}
}

// deregisterResource removes an object from the registry once its native
// handle has been released
func deregisterResource(c io.Closer) {
	resources.Lock()
	defer resources.Unlock()

	delete(resources.live, c)
}

// LiveResources returns the number of native backed objects that have
// been created and not yet closed
func LiveResources() int {
	resources.Lock()
	defer resources.Unlock()

	return len(resources.live)
}

// CloseAllResources force releases every native backed object still
// live.  Call at process teardown after all sessions have finished, any
// handle already closed by its owner is unaffected
func CloseAllResources() {
	resources.Lock()

	// snapshot under the lock, Close deregisters each entry itself
	remaining := make([]io.Closer, 0, len(resources.live))

	for c := range resources.live {
		remaining = append(remaining, c)
	}

	resources.Unlock()

	for _, c := range remaining {
		_ = c.Close()
	}
}
