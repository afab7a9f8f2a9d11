// Package registry routes native notifications to the window they belong
// to.
//
// Native windowing systems call a single entry point for every window
// created on a thread. Each message-pump thread owns a Registry mapping
// native handles to the Context of the logical window; the entry point
// finds the calling thread's Registry through Threads.
package registry

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tinyrange/plugview/internal/attrs"
	"github.com/tinyrange/plugview/internal/event"
	"github.com/tinyrange/plugview/internal/queue"
	"github.com/tinyrange/plugview/internal/translate"
)

// Handle is an opaque native window handle (HWND, NSView *).
type Handle uintptr

// Context is the producer side of one live native window.
type Context struct {
	Handle Handle

	// Attributes is shared with the owning window. Backends read it while
	// handling notifications (for example the resize callback).
	Attributes *attrs.Shared

	translator *translate.Translator
	queue      *queue.Queue
	inside     atomic.Bool
}

// NewContext returns a context that translates with t and pushes into q.
func NewContext(h Handle, shared *attrs.Shared, t *translate.Translator, q *queue.Queue) *Context {
	return &Context{Handle: h, Attributes: shared, translator: t, queue: q}
}

// Deliver translates ev and queues the resulting events. Input events must
// be delivered on the thread owning the window; wake notifications may be
// delivered from any goroutine.
func (c *Context) Deliver(ev translate.NativeEvent) {
	evs := c.translator.Translate(ev)
	if len(evs) == 0 {
		return
	}
	c.queue.PushAll(evs)
}

// Push queues an already unified event.
func (c *Context) Push(ev event.Event) {
	c.queue.Push(ev)
}

// PointerInside reports whether the pointer is currently within the window.
func (c *Context) PointerInside() bool {
	return c.inside.Load()
}

// SetPointerInside updates the pointer-inside flag and reports whether it
// changed.
func (c *Context) SetPointerInside(inside bool) bool {
	return c.inside.Swap(inside) != inside
}

// Registry maps handles to contexts for one thread. It is only touched by
// that thread.
type Registry struct {
	tid      uint64
	contexts map[Handle]*Context
}

// New returns an empty registry for thread tid.
func New(tid uint64) *Registry {
	return &Registry{tid: tid, contexts: make(map[Handle]*Context)}
}

// Register adds ctx under h, replacing any previous entry.
func (r *Registry) Register(h Handle, ctx *Context) {
	r.contexts[h] = ctx
}

// Lookup returns the context registered for h, or nil.
func (r *Registry) Lookup(h Handle) *Context {
	if r == nil {
		return nil
	}
	return r.contexts[h]
}

// Unregister removes h. It is a no-op for unknown handles.
func (r *Registry) Unregister(h Handle) {
	delete(r.contexts, h)
}

// Len returns the number of registered windows.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.contexts)
}

// Thread returns the OS thread the registry belongs to.
func (r *Registry) Thread() uint64 {
	return r.tid
}

// Threads holds one Registry per OS thread.
type Threads struct {
	mu  sync.Mutex
	reg map[uint64]*Registry
	log *slog.Logger
}

// NewThreads returns an empty thread table. A nil log uses the default
// logger at the time of each message.
func NewThreads(log *slog.Logger) *Threads {
	return &Threads{reg: make(map[uint64]*Registry), log: log}
}

func (t *Threads) logger() *slog.Logger {
	if t.log == nil {
		return slog.Default()
	}
	return t.log
}

// For returns the registry of thread tid, creating it if needed.
func (t *Threads) For(tid uint64) *Registry {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.reg[tid]
	if !ok {
		r = New(tid)
		t.reg[tid] = r
	}
	return r
}

// Current returns the registry of the calling OS thread. The caller's
// goroutine must be locked to its thread for the result to stay valid.
func (t *Threads) Current() *Registry {
	return t.For(CurrentThreadID())
}

// Find returns the registry of the calling thread without creating one.
func (t *Threads) Find() *Registry {
	tid := CurrentThreadID()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reg[tid]
}

// Route looks up h in the calling thread's registry. Misses are logged and
// reported as nil; the notification belongs to a window already torn down
// or created elsewhere.
func (t *Threads) Route(h Handle) *Context {
	ctx := t.Find().Lookup(h)
	if ctx == nil {
		t.logger().Debug("dropping notification for unregistered window",
			slog.Uint64("handle", uint64(h)))
	}
	return ctx
}

// Release forgets the registry of thread tid once it is empty.
func (t *Threads) Release(tid uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.reg[tid]; ok && r.Len() == 0 {
		delete(t.reg, tid)
	}
}
