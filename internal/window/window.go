// Package window creates native child views and delivers their input as
// unified events.
//
// An embedded window (Attributes.Parent set) is created inline on the
// calling goroutine, which is locked to its OS thread until Close. A
// standalone window gets its own goroutine, locked to a fresh OS thread,
// that creates the window and then pumps native messages until Close.
package window

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/tinyrange/plugview/internal/attrs"
	"github.com/tinyrange/plugview/internal/queue"
	"github.com/tinyrange/plugview/internal/registry"
	"github.com/tinyrange/plugview/internal/translate"
)

type (
	Attributes = attrs.Attributes
	Monitor    = attrs.Monitor
	Size       = attrs.Size
)

// DefaultAttributes returns visible, decorated attributes.
func DefaultAttributes() Attributes { return attrs.Default() }

// LoadAttributes reads window attributes from a YAML file.
func LoadAttributes(path string) (Attributes, error) { return attrs.Load(path) }

// Option configures New.
type Option func(*options)

type options struct {
	log        *slog.Logger
	platform   Platform
	queueLimit int
}

// WithLogger sets the logger for the window and its queue.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPlatform overrides the native backend.
func WithPlatform(p Platform) Option {
	return func(o *options) { o.platform = p }
}

// WithQueueLimit bounds the pending event queue, dropping the oldest events
// when full. It overrides Attributes.MaxPendingEvents.
func WithQueueLimit(n int) Option {
	return func(o *options) { o.queueLimit = n }
}

// Window is a live native window and the consumer side of its events.
type Window struct {
	platform Platform
	shared   *attrs.Shared
	queue    *queue.Queue
	log      *slog.Logger

	handle   registry.Handle
	tid      uint64
	embedded bool
	producer *registry.Context

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// New creates a window from a snapshot of a. Creation failures are returned
// as *CreationError.
func New(a Attributes, opts ...Option) (*Window, error) {
	o := options{log: slog.Default(), queueLimit: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.platform == nil {
		p, err := Native(o.log)
		if err != nil {
			return nil, err
		}
		o.platform = p
	}

	snap := a.Clone()
	if o.platform.RequiresParent() && snap.Parent == 0 {
		return nil, &CreationError{Op: OpParent, Err: ErrNoParent}
	}
	limit := snap.MaxPendingEvents
	if o.queueLimit >= 0 {
		limit = o.queueLimit
	}

	w := &Window{
		platform: o.platform,
		shared:   attrs.NewShared(snap),
		queue:    queue.New(queue.WithLimit(limit), queue.WithLogger(o.log)),
		log:      o.log,
		embedded: snap.Parent != 0,
		done:     make(chan struct{}),
	}

	created := make(chan error, 1)
	if w.embedded {
		runtime.LockOSThread()
		created <- w.create(snap)
	} else {
		go w.pump(snap, created)
	}
	if err := <-created; err != nil {
		if w.embedded {
			runtime.UnlockOSThread()
		}
		w.log.Warn("window creation failed", slog.Any("err", err))
		return nil, err
	}
	w.log.Debug("window created",
		slog.Uint64("handle", uint64(w.handle)),
		slog.Bool("embedded", w.embedded),
		slog.Uint64("thread", w.tid))
	return w, nil
}

// create runs the native creation steps and registers the window with the
// calling thread.
func (w *Window) create(a Attributes) error {
	p := w.platform
	if err := p.RegisterClass(); err != nil {
		return &CreationError{Op: OpRegisterClass, Err: err}
	}
	h, err := p.CreateWindow(a)
	if err != nil {
		return &CreationError{Op: OpCreateWindow, Err: err}
	}
	if err := p.AcquireDC(h); err != nil {
		p.Destroy(h)
		return &CreationError{Op: OpDeviceContext, Err: err}
	}
	if a.Monitor != nil && !w.embedded {
		if err := p.SwitchFullscreen(h, *a.Monitor); err != nil {
			p.Destroy(h)
			return &CreationError{Op: OpDisplaySettings, Err: err}
		}
	}

	tr := &translate.Translator{Keymap: p.Keymap(), Forwarder: p.Forwarder(h)}
	reg := threads.Current()
	w.producer = registry.NewContext(h, w.shared, tr, w.queue)
	reg.Register(h, w.producer)
	w.handle = h
	w.tid = reg.Thread()
	return nil
}

// pump owns a standalone window for its whole lifetime. The goroutine never
// unlocks its thread, so the thread and its native message queue are
// discarded when it returns.
func (w *Window) pump(a Attributes, created chan<- error) {
	runtime.LockOSThread()
	defer close(w.done)

	if err := w.create(a); err != nil {
		created <- err
		return
	}
	created <- nil

	defer w.teardown()
	for {
		m, ok := w.platform.Next(true)
		if !ok {
			return
		}
		w.platform.Dispatch(m)
	}
}

// teardown runs on the owning thread. The registry entry is removed before
// the native window is destroyed so no late callback can reach the
// context.
func (w *Window) teardown() {
	w.platform.Detach(w.handle)
	threads.For(w.tid).Unregister(w.handle)
	threads.Release(w.tid)
	w.platform.Destroy(w.handle)
	w.queue.Close()
	w.log.Debug("window destroyed", slog.Uint64("handle", uint64(w.handle)))
}

func (w *Window) onOwnerThread() bool {
	return registry.CurrentThreadID() == w.tid
}

// Close destroys the window. A standalone window's pump is stopped and
// waited for; an embedded window must be closed from the goroutine that
// created it. Events queued before Close can still be read.
func (w *Window) Close() error {
	if w.embedded && !w.onOwnerThread() {
		return ErrWrongThread
	}
	w.closeOnce.Do(func() {
		if w.embedded {
			w.teardown()
			close(w.done)
			runtime.UnlockOSThread()
			return
		}
		if w.closed() {
			// Destroyed natively; the pump has already torn down.
			return
		}
		if err := w.platform.Quit(w.handle); err != nil {
			if w.closed() {
				// The pump exited on its own in the meantime.
				return
			}
			w.closeErr = err
			return
		}
		<-w.done
	})
	return w.closeErr
}

// Done is closed once the window has been torn down.
func (w *Window) Done() <-chan struct{} {
	return w.done
}

// Handle returns the native handle (HWND or NSView *).
func (w *Window) Handle() uintptr {
	return uintptr(w.handle)
}

// Embedded reports whether the window lives in a parent view.
func (w *Window) Embedded() bool {
	return w.embedded
}

// Attributes returns the current attributes.
func (w *Window) Attributes() Attributes {
	return w.shared.Snapshot()
}

// SetResizeCallback replaces the callback invoked on native resizes. It is
// called on the owning thread.
func (w *Window) SetResizeCallback(fn attrs.ResizeFunc) {
	w.shared.Update(func(a *Attributes) { a.OnResize = fn })
}

// Dropped returns how many events were discarded by the queue limit.
func (w *Window) Dropped() uint64 {
	return w.queue.Dropped()
}

// Proxy returns a handle that can wake a blocked WaitNext from any
// goroutine.
func (w *Window) Proxy() *Proxy {
	return &Proxy{w: w}
}

// Proxy wakes a window's consumer.
type Proxy struct {
	w *Window
}

// Wakeup makes a blocked WaitNext return an Awakened event. The event is
// queued directly, so it arrives even while a host run loop pumps the
// window.
func (p *Proxy) Wakeup() error {
	w := p.w
	if w.closed() {
		return ErrClosed
	}
	w.producer.Deliver(translate.NativeEvent{
		Class:   translate.ClassApplicationDefined,
		Subtype: translate.SubtypeWake,
	})
	if !w.embedded {
		return nil
	}
	// The owning thread may be blocked in a native wait of its own.
	return w.platform.Interrupt(w.handle)
}

// interruptOn unblocks a native wait when ctx ends. The interrupt is not
// translated, so no event is left behind.
func (w *Window) interruptOn(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		if err := w.platform.Interrupt(w.handle); err != nil {
			w.log.Debug("interrupt on cancel failed", slog.Any("err", err))
		}
	})
}
