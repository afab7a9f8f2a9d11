package window

import (
	"github.com/tinyrange/plugview/internal/attrs"
	"github.com/tinyrange/plugview/internal/registry"
	"github.com/tinyrange/plugview/internal/translate"
)

// Message is a native message pulled off a thread's message queue by
// Platform.Next. Backends use the fields they need.
type Message struct {
	Handle registry.Handle
	ID     uint32
	WParam uintptr
	LParam uintptr
	Ref    uintptr // retained native object (NSEvent *), if any
}

// Platform is a native windowing backend. Every method except Interrupt
// and Quit must be called on the thread that owns the window; Interrupt and
// Quit may be called from any goroutine.
type Platform interface {
	// RequiresParent reports whether only embedded windows are supported.
	RequiresParent() bool

	RegisterClass() error
	CreateWindow(a attrs.Attributes) (registry.Handle, error)
	AcquireDC(h registry.Handle) error
	SwitchFullscreen(h registry.Handle, m attrs.Monitor) error

	// Next retrieves one message for the calling thread. With block unset
	// it returns false when nothing is pending; with block set it waits and
	// returns false only when the thread's pump was asked to quit.
	Next(block bool) (Message, bool)
	// Dispatch hands m to the native window procedure, which routes it
	// through the thread's registry.
	Dispatch(m Message)

	// Interrupt makes a blocking Next on the owning thread return. The
	// message it produces translates to no event.
	Interrupt(h registry.Handle) error
	// Quit makes a blocking Next on the owning thread return false.
	Quit(h registry.Handle) error

	// Detach cancels timers and tracking registered for h.
	Detach(h registry.Handle)
	Destroy(h registry.Handle)

	Keymap() translate.Keymap
	Forwarder(h registry.Handle) translate.Forwarder
}

// threads routes native callbacks. The window procedure is registered once
// per process and looks its window up in the calling thread's registry.
var threads = registry.NewThreads(nil)
