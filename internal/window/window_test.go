package window

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tinyrange/plugview/internal/attrs"
	"github.com/tinyrange/plugview/internal/event"
	"github.com/tinyrange/plugview/internal/keycode"
	"github.com/tinyrange/plugview/internal/registry"
	"github.com/tinyrange/plugview/internal/translate"
)

const (
	fakeInput = iota + 1
	fakeInterrupt
	fakeQuit
)

var errFake = errors.New("fake failure")

// fakePlatform is a Platform whose message queue is a channel. Dispatch
// routes through the package registry exactly like a native window
// procedure.
type fakePlatform struct {
	requiresParent bool
	fail           string

	msgs chan Message

	// quit replaces the default Quit when set.
	quit func(h registry.Handle) error

	mu                  sync.Mutex
	next                registry.Handle
	natives             []translate.NativeEvent
	forwarded           []translate.NativeEvent
	calls               []string
	registeredAtDestroy bool
}

func newFake() *fakePlatform {
	return &fakePlatform{msgs: make(chan Message, 256), next: 0x1000}
}

func (f *fakePlatform) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakePlatform) failIf(op string) error {
	if f.fail == op {
		return errFake
	}
	return nil
}

func (f *fakePlatform) RequiresParent() bool { return f.requiresParent }

func (f *fakePlatform) RegisterClass() error { return f.failIf(OpRegisterClass) }

func (f *fakePlatform) CreateWindow(a attrs.Attributes) (registry.Handle, error) {
	if err := f.failIf(OpCreateWindow); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next, nil
}

func (f *fakePlatform) AcquireDC(h registry.Handle) error { return f.failIf(OpDeviceContext) }

func (f *fakePlatform) SwitchFullscreen(h registry.Handle, m attrs.Monitor) error {
	f.record("fullscreen " + m.Adapter)
	return f.failIf(OpDisplaySettings)
}

func (f *fakePlatform) Next(block bool) (Message, bool) {
	var m Message
	if block {
		m = <-f.msgs
	} else {
		select {
		case m = <-f.msgs:
		default:
			return Message{}, false
		}
	}
	if m.ID == fakeQuit {
		return Message{}, false
	}
	return m, true
}

func (f *fakePlatform) Dispatch(m Message) {
	ctx := threads.Route(m.Handle)
	if ctx == nil {
		return
	}
	switch m.ID {
	case fakeInput:
		f.mu.Lock()
		ne := f.natives[m.Ref]
		f.mu.Unlock()
		ctx.Deliver(ne)
	}
}

func (f *fakePlatform) Interrupt(h registry.Handle) error {
	f.msgs <- Message{Handle: h, ID: fakeInterrupt}
	return nil
}

func (f *fakePlatform) Quit(h registry.Handle) error {
	if f.quit != nil {
		return f.quit(h)
	}
	f.msgs <- Message{Handle: h, ID: fakeQuit}
	return nil
}

func (f *fakePlatform) Detach(h registry.Handle) { f.record("detach") }

func (f *fakePlatform) Destroy(h registry.Handle) {
	registered := threads.Find().Lookup(h) != nil
	f.mu.Lock()
	f.calls = append(f.calls, "destroy")
	f.registeredAtDestroy = registered
	f.mu.Unlock()
}

func (f *fakePlatform) Keymap() translate.Keymap { return keycode.FromMac }

func (f *fakePlatform) Forwarder(h registry.Handle) translate.Forwarder {
	return translate.ForwarderFunc(func(ne translate.NativeEvent) {
		f.mu.Lock()
		f.forwarded = append(f.forwarded, ne)
		f.mu.Unlock()
	})
}

// inject queues a native event for h as if the OS had posted it.
func (f *fakePlatform) inject(h uintptr, ne translate.NativeEvent) {
	f.mu.Lock()
	idx := len(f.natives)
	f.natives = append(f.natives, ne)
	f.mu.Unlock()
	f.msgs <- Message{Handle: registry.Handle(h), ID: fakeInput, Ref: uintptr(idx)}
}

func (f *fakePlatform) snapshot() (calls []string, forwarded int, registeredAtDestroy bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...), len(f.forwarded), f.registeredAtDestroy
}

func quiet() Option {
	return WithLogger(slog.New(slog.DiscardHandler))
}

func embeddedAttrs() Attributes {
	a := DefaultAttributes()
	a.Parent = 0xbeef
	return a
}

func newStandalone(t *testing.T, f *fakePlatform, opts ...Option) *Window {
	t.Helper()
	w, err := New(DefaultAttributes(), append([]Option{WithPlatform(f), quiet()}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestStandaloneLifecycle(t *testing.T) {
	f := newFake()
	w := newStandalone(t, f)
	if w.Embedded() {
		t.Fatal("window without parent reported as embedded")
	}
	if w.Handle() == 0 {
		t.Fatal("zero handle")
	}
	if w.tid == registry.CurrentThreadID() && registry.CurrentThreadID() != 0 {
		t.Fatal("standalone window registered on the caller's thread")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	select {
	case <-w.Done():
	default:
		t.Fatal("Done not closed after Close")
	}

	calls, _, registered := f.snapshot()
	if diff := cmp.Diff([]string{"detach", "destroy"}, calls); diff != "" {
		t.Fatalf("teardown calls (-want +got):\n%s", diff)
	}
	if registered {
		t.Fatal("window still registered when destroyed")
	}
	if threads.For(w.tid).Lookup(w.handle) != nil {
		t.Fatal("lookup after Close found the window")
	}
	threads.Release(w.tid)
}

func TestRequiresParent(t *testing.T) {
	f := newFake()
	f.requiresParent = true

	_, err := New(DefaultAttributes(), WithPlatform(f), quiet())
	if !errors.Is(err, ErrNoParent) {
		t.Fatalf("New() error = %v, want ErrNoParent", err)
	}
	var ce *CreationError
	if !errors.As(err, &ce) || ce.Op != OpParent {
		t.Fatalf("New() error = %#v, want CreationError{Op: %q}", err, OpParent)
	}

	w, err := New(embeddedAttrs(), WithPlatform(f), quiet())
	if err != nil {
		t.Fatalf("New with parent: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCreationErrors(t *testing.T) {
	for _, tc := range []struct {
		op       string
		embedded bool
		destroys bool
	}{
		{op: OpRegisterClass},
		{op: OpCreateWindow},
		{op: OpCreateWindow, embedded: true},
		{op: OpDeviceContext, destroys: true},
		{op: OpDeviceContext, embedded: true, destroys: true},
		{op: OpDisplaySettings, destroys: true},
	} {
		name := tc.op
		if tc.embedded {
			name += "/embedded"
		}
		t.Run(name, func(t *testing.T) {
			f := newFake()
			f.fail = tc.op
			a := DefaultAttributes()
			a.Monitor = &Monitor{Name: "primary", Adapter: `\\.\DISPLAY1`}
			if tc.embedded {
				a.Parent = 0xbeef
			}

			w, err := New(a, WithPlatform(f), quiet())
			if err == nil {
				w.Close()
				t.Fatal("New succeeded")
			}
			var ce *CreationError
			if !errors.As(err, &ce) {
				t.Fatalf("New() error = %v, want *CreationError", err)
			}
			if ce.Op != tc.op {
				t.Fatalf("Op = %q, want %q", ce.Op, tc.op)
			}
			if !errors.Is(err, errFake) {
				t.Fatalf("error %v does not wrap the native failure", err)
			}

			calls, _, _ := f.snapshot()
			destroyed := false
			for _, c := range calls {
				destroyed = destroyed || c == "destroy"
			}
			if destroyed != tc.destroys {
				t.Fatalf("destroyed = %v, want %v (calls %v)", destroyed, tc.destroys, calls)
			}
		})
	}
}

func TestFullscreenOnlyStandalone(t *testing.T) {
	a := DefaultAttributes()
	a.Monitor = &Monitor{Adapter: "DISPLAY2"}

	f := newFake()
	w, err := New(a, WithPlatform(f), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Close()
	if calls, _, _ := f.snapshot(); len(calls) == 0 || calls[0] != "fullscreen DISPLAY2" {
		t.Fatalf("calls = %v, want fullscreen switch first", calls)
	}

	a.Parent = 0xbeef
	f = newFake()
	w, err = New(a, WithPlatform(f), quiet())
	if err != nil {
		t.Fatalf("New embedded: %v", err)
	}
	w.Close()
	if calls, _, _ := f.snapshot(); len(calls) > 0 && calls[0] != "detach" {
		t.Fatalf("embedded window switched display mode: %v", calls)
	}
}

func TestPollOrder(t *testing.T) {
	w, err := New(embeddedAttrs(), WithPlatform(newFake()), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	a := event.MouseEntered{}
	b := event.MouseMoved{X: 1, Y: 2}
	c := event.MouseLeft{}
	w.queue.Push(a)
	w.queue.Push(b)
	w.queue.Push(c)

	for i, want := range []event.Event{a, b, c} {
		ev, ok := w.PollNext()
		if !ok {
			t.Fatalf("PollNext %d returned nothing", i)
		}
		if diff := cmp.Diff(want, ev); diff != "" {
			t.Fatalf("PollNext %d (-want +got):\n%s", i, diff)
		}
	}
	if ev, ok := w.PollNext(); ok {
		t.Fatalf("PollNext on drained queue = %v", ev)
	}
}

func TestStandaloneMouseEndToEnd(t *testing.T) {
	f := newFake()
	w := newStandalone(t, f)
	ctx := testContext(t)

	f.inject(w.Handle(), translate.NativeEvent{Class: translate.ClassLeftMouseDown})
	f.inject(w.Handle(), translate.NativeEvent{Class: translate.ClassLeftMouseUp})

	var got []event.Event
	for range 2 {
		ev, err := w.WaitNext(ctx)
		if err != nil {
			t.Fatalf("WaitNext: %v", err)
		}
		got = append(got, ev)
	}
	want := []event.Event{
		event.MouseInput{State: event.Pressed, Button: event.ButtonLeft},
		event.MouseInput{State: event.Released, Button: event.ButtonLeft},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if ev, ok := w.PollNext(); ok {
		t.Fatalf("unexpected extra event %v", ev)
	}
}

func TestEmbeddedKeyDownEndToEnd(t *testing.T) {
	f := newFake()
	w, err := New(embeddedAttrs(), WithPlatform(f), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	f.inject(w.Handle(), translate.NativeEvent{
		Class:      translate.ClassKeyDown,
		KeyCode:    0x03,
		ScanCode:   0x03,
		Characters: "fi",
	})

	var got []event.Event
	for ev := range w.PollEvents() {
		got = append(got, ev)
	}
	want := []event.Event{
		event.ReceivedCharacter{Char: 'f'},
		event.ReceivedCharacter{Char: 'i'},
		event.Key(event.Pressed, 0x03, event.F),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if _, forwarded, _ := f.snapshot(); forwarded != 1 {
		t.Fatalf("forwarded %d events, want 1", forwarded)
	}
}

func TestModifiersArePerWindow(t *testing.T) {
	f1, f2 := newFake(), newFake()
	f2.next = 0x2000
	w1 := newStandalone(t, f1)
	w2 := newStandalone(t, f2)
	ctx := testContext(t)

	f1.inject(w1.Handle(), translate.NativeEvent{Class: translate.ClassFlagsChanged, Flags: 1 << 17})
	ev, err := w1.WaitNext(ctx)
	if err != nil {
		t.Fatalf("WaitNext: %v", err)
	}
	if diff := cmp.Diff(event.Key(event.Pressed, 0x38, event.LShift), ev); diff != "" {
		t.Fatalf("w1 (-want +got):\n%s", diff)
	}

	// The same flags on another window is still a transition there.
	f2.inject(w2.Handle(), translate.NativeEvent{Class: translate.ClassFlagsChanged, Flags: 1 << 17})
	ev, err = w2.WaitNext(ctx)
	if err != nil {
		t.Fatalf("WaitNext: %v", err)
	}
	if diff := cmp.Diff(event.Key(event.Pressed, 0x38, event.LShift), ev); diff != "" {
		t.Fatalf("w2 (-want +got):\n%s", diff)
	}

	if w1.tid == w2.tid && w1.tid != 0 {
		t.Fatal("standalone windows share a pump thread")
	}
	if w1.handle == w2.handle {
		t.Fatalf("both windows got handle %#x", w1.handle)
	}
	if threads.For(w1.tid).Lookup(w2.handle) != nil {
		t.Fatal("w2 visible from w1's thread")
	}
}

func TestWakeupStandalone(t *testing.T) {
	w := newStandalone(t, newFake())
	ctx := testContext(t)

	go func() {
		time.Sleep(10 * time.Millisecond)
		if err := w.Proxy().Wakeup(); err != nil {
			t.Errorf("Wakeup: %v", err)
		}
	}()
	ev, err := w.WaitNext(ctx)
	if err != nil {
		t.Fatalf("WaitNext: %v", err)
	}
	if _, ok := ev.(event.Awakened); !ok {
		t.Fatalf("WaitNext() = %v, want Awakened", ev)
	}
}

func TestWakeupEmbedded(t *testing.T) {
	w, err := New(embeddedAttrs(), WithPlatform(newFake()), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	ctx := testContext(t)

	proxy := w.Proxy()
	go func() {
		time.Sleep(10 * time.Millisecond)
		if err := proxy.Wakeup(); err != nil {
			t.Errorf("Wakeup: %v", err)
		}
	}()
	ev, err := w.WaitNext(ctx)
	if err != nil {
		t.Fatalf("WaitNext: %v", err)
	}
	if _, ok := ev.(event.Awakened); !ok {
		t.Fatalf("WaitNext() = %v, want Awakened", ev)
	}
}

func TestWakeupEmbeddedHostPumped(t *testing.T) {
	// Nobody pumps this window's native queue; a consumer waiting on
	// another thread must still see the wakeup.
	w, err := New(embeddedAttrs(), WithPlatform(newFake()), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	ctx := testContext(t)

	got := make(chan event.Event, 1)
	errc := make(chan error, 1)
	go func() {
		ev, err := w.WaitNext(ctx)
		if err != nil {
			errc <- err
			return
		}
		got <- ev
	}()

	time.Sleep(10 * time.Millisecond)
	if err := w.Proxy().Wakeup(); err != nil {
		t.Fatalf("Wakeup: %v", err)
	}
	select {
	case ev := <-got:
		if _, ok := ev.(event.Awakened); !ok {
			t.Fatalf("WaitNext() = %v, want Awakened", ev)
		}
	case err := <-errc:
		t.Fatalf("WaitNext: %v", err)
	}
	if ev, ok := w.PollNext(); ok {
		t.Fatalf("PollNext() = %v after a single wakeup", ev)
	}
}

func TestWaitNextCancelledLeavesNoEvent(t *testing.T) {
	w, err := New(embeddedAttrs(), WithPlatform(newFake()), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	if _, err := w.WaitNext(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("WaitNext() error = %v, want context.Canceled", err)
	}
	if ev, ok := w.PollNext(); ok {
		t.Fatalf("PollNext() = %v after a cancelled wait", ev)
	}
}

func TestWaitNextCancelled(t *testing.T) {
	for _, embedded := range []bool{false, true} {
		a := DefaultAttributes()
		if embedded {
			a = embeddedAttrs()
		}
		w, err := New(a, WithPlatform(newFake()), quiet())
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(10*time.Millisecond, cancel)
		if _, err := w.WaitNext(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("embedded=%v: WaitNext() error = %v, want context.Canceled", embedded, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
}

func TestClosedWindow(t *testing.T) {
	f := newFake()
	w := newStandalone(t, f)
	f.inject(w.Handle(), translate.NativeEvent{Class: translate.ClassMouseEntered})
	ctx := testContext(t)

	// Make sure the injected event has been dispatched before closing.
	if _, err := w.WaitNext(ctx); err != nil {
		t.Fatalf("WaitNext: %v", err)
	}
	w.queue.Push(event.MouseLeft{})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ev, err := w.WaitNext(ctx)
	if err != nil {
		t.Fatalf("WaitNext after Close: %v", err)
	}
	if diff := cmp.Diff(event.Event(event.MouseLeft{}), ev); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if _, err := w.WaitNext(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("WaitNext() error = %v, want ErrClosed", err)
	}
	if err := w.Proxy().Wakeup(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Wakeup() error = %v, want ErrClosed", err)
	}
	var n int
	for range w.WaitEvents(ctx) {
		n++
	}
	if n != 0 {
		t.Fatalf("WaitEvents yielded %d events after drain", n)
	}
}

func TestCloseAfterPumpExited(t *testing.T) {
	f := newFake()
	w := newStandalone(t, f)

	// The native window goes away while Close is posting its quit message.
	f.quit = func(h registry.Handle) error {
		f.msgs <- Message{Handle: h, ID: fakeQuit}
		<-w.Done()
		return errFake
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestEmbeddedCloseWrongThread(t *testing.T) {
	w, err := New(embeddedAttrs(), WithPlatform(newFake()), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if registry.CurrentThreadID() == 0 {
		w.Close()
		t.Skip("thread ids unavailable on this platform")
	}

	errc := make(chan error, 1)
	go func() { errc <- w.Close() }()
	if err := <-errc; !errors.Is(err, ErrWrongThread) {
		t.Fatalf("Close from another thread = %v, want ErrWrongThread", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestQueueLimit(t *testing.T) {
	a := embeddedAttrs()
	a.MaxPendingEvents = 8

	w, err := New(a, WithPlatform(newFake()), quiet(), WithQueueLimit(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	for i := range 3 {
		w.queue.Push(event.MouseMoved{X: int32(i)})
	}
	if w.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", w.Dropped())
	}
	var got []event.Event
	for ev := range w.PollEvents() {
		got = append(got, ev)
	}
	want := []event.Event{event.MouseMoved{X: 1}, event.MouseMoved{X: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAttributesSnapshot(t *testing.T) {
	a := DefaultAttributes()
	a.Dimensions = &Size{Width: 300, Height: 200}

	w, err := New(a, WithPlatform(newFake()), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	a.Dimensions.Width = 1
	if got := w.Attributes().Dimensions.Width; got != 300 {
		t.Fatalf("window saw caller mutation: width %d", got)
	}

	var resized [2]uint32
	w.SetResizeCallback(func(width, height uint32) { resized = [2]uint32{width, height} })
	w.Attributes().OnResize(10, 20)
	if resized != [2]uint32{10, 20} {
		t.Fatalf("resize callback not installed: %v", resized)
	}
}
