package k4abt

/*
#include <k4a/k4a.h>
#include <k4abt.h>
*/
import "C"
import (
	"errors"
	"fmt"
)

// StatusCode wraps C.k4a_result_t
type StatusCode int

// result code values returned by the C API
const (
	StatusSucceeded StatusCode = C.K4A_RESULT_SUCCEEDED
	StatusFailed    StatusCode = C.K4A_RESULT_FAILED
)

// String returns a readable description of the status code
func (s StatusCode) String() string {
	switch s {
	case StatusSucceeded:
		return "call succeeded"
	case StatusFailed:
		return "call failed"
	default:
		return fmt.Sprintf("unknown status code %d", int(s))
	}
}

// WaitStatus wraps C.k4a_wait_result_t, the result of the blocking queue
// operations on the device and tracker
type WaitStatus int

// wait result values returned by the C API
const (
	WaitSucceeded WaitStatus = C.K4A_WAIT_RESULT_SUCCEEDED
	WaitFailed    WaitStatus = C.K4A_WAIT_RESULT_FAILED
	WaitTimeout   WaitStatus = C.K4A_WAIT_RESULT_TIMEOUT
)

// String returns a readable description of the wait result
func (w WaitStatus) String() string {
	switch w {
	case WaitSucceeded:
		return "wait succeeded"
	case WaitFailed:
		return "wait failed"
	case WaitTimeout:
		return "wait timed out"
	default:
		return fmt.Sprintf("unknown wait result %d", int(w))
	}
}

var (
	// ErrTimeout indicates a queue operation did not complete within the
	// given timeout.  The operation can be retried, the condition is not
	// fatal to the session
	ErrTimeout = errors.New("operation timed out")

	// ErrClosed indicates an operation was attempted on a closed or shut
	// down session
	ErrClosed = errors.New("tracker is closed")

	// ErrInvalidArgument indicates a required object was nil or already
	// released
	ErrInvalidArgument = errors.New("invalid argument")
)

// NativeError reports a failure status returned by a native SDK entry
// point, or a native result that is inconsistent with success
type NativeError struct {
	// Call is the name of the C function that failed
	Call string
	// Code is the status the native call returned
	Code StatusCode
}

// Error implements the error interface
func (e *NativeError) Error() string {
	return fmt.Sprintf("C.%s failed with code %d, error: %s",
		e.Call, int(e.Code), e.Code.String())
}

// nativeErr returns a NativeError for the given C function name
func nativeErr(call string, code StatusCode) error {
	return &NativeError{Call: call, Code: code}
}
