package window

import (
	"context"
	"errors"
	"iter"

	"github.com/tinyrange/plugview/internal/event"
	"github.com/tinyrange/plugview/internal/queue"
)

// PollNext returns the next pending event without blocking. When the queue
// is empty and the caller owns an embedded window's thread, one
// immediately available native message is dispatched first.
func (w *Window) PollNext() (event.Event, bool) {
	if ev, ok := w.queue.PopFront(); ok {
		return ev, true
	}
	if !w.embedded || !w.onOwnerThread() || w.closed() {
		return nil, false
	}
	if m, ok := w.platform.Next(false); ok {
		w.platform.Dispatch(m)
	}
	return w.queue.PopFront()
}

// WaitNext blocks until an event is available. It returns ctx.Err() when
// ctx ends and ErrClosed once the window is closed and drained.
//
// On the owning thread of an embedded window it pumps native messages
// itself; elsewhere it waits for the thread that pumps them.
func (w *Window) WaitNext(ctx context.Context) (event.Event, error) {
	if !w.embedded || !w.onOwnerThread() {
		ev, err := w.queue.Wait(ctx)
		if errors.Is(err, queue.ErrClosed) {
			return nil, ErrClosed
		}
		return ev, err
	}

	stop := w.interruptOn(ctx)
	defer stop()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ev, ok := w.queue.PopFront(); ok {
			return ev, nil
		}
		if w.closed() {
			return nil, ErrClosed
		}
		m, ok := w.platform.Next(true)
		if !ok {
			return nil, ErrClosed
		}
		w.platform.Dispatch(m)
	}
}

// PollEvents yields every event available without blocking.
func (w *Window) PollEvents() iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		for {
			ev, ok := w.PollNext()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// WaitEvents yields events as they arrive until ctx ends or the window is
// closed and drained.
func (w *Window) WaitEvents(ctx context.Context) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		for {
			ev, err := w.WaitNext(ctx)
			if err != nil || !yield(ev) {
				return
			}
		}
	}
}

func (w *Window) closed() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
