package window

import "errors"

// Creation steps reported in CreationError.Op.
const (
	OpParent          = "parent"
	OpRegisterClass   = "register class"
	OpCreateWindow    = "create window"
	OpDeviceContext   = "get device context"
	OpDisplaySettings = "change display settings"
)

var (
	// ErrNoParent is returned when the platform only supports embedded
	// windows and no parent was given.
	ErrNoParent = errors.New("no parent view")

	// ErrClosed is returned once the window has been closed and every
	// pending event has been consumed.
	ErrClosed = errors.New("window closed")

	// ErrWrongThread is returned when an operation bound to the owning
	// thread of an embedded window is called from another thread.
	ErrWrongThread = errors.New("called off the window's owning thread")

	// ErrUnsupported is returned by Native on platforms without a backend.
	ErrUnsupported = errors.New("native windows are not supported on this platform")
)

// CreationError reports a failed native creation step. It is never retried.
type CreationError struct {
	Op  string
	Err error
}

func (e *CreationError) Error() string {
	return "create window: " + e.Op + ": " + e.Err.Error()
}

func (e *CreationError) Unwrap() error {
	return e.Err
}
