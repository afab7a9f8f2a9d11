// Package queue provides the per-window pending event queue that decouples
// native callbacks from the polling consumer.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/tinyrange/plugview/internal/event"
)

// ErrClosed is returned by Wait once the queue has been closed and drained.
var ErrClosed = errors.New("queue closed")

// Option configures a Queue.
type Option func(*Queue)

// WithLimit bounds the queue to n events. When full, the oldest event is
// dropped to make room. n <= 0 leaves the queue unbounded.
func WithLimit(n int) Option {
	return func(q *Queue) { q.limit = n }
}

// WithLogger sets the logger used to report dropped events.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) { q.log = l }
}

// Queue is a mutex-guarded FIFO of events. Any number of goroutines may
// push; one consumer pops.
type Queue struct {
	mu     sync.Mutex
	buf    []event.Event // ring buffer, len is a power of two
	head   int
	n      int
	closed bool

	limit    int
	dropped  uint64
	overflow bool

	// ready has a token whenever the queue may be non-empty.
	ready chan struct{}
	log   *slog.Logger
}

// New returns an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		buf:   make([]event.Event, 16),
		ready: make(chan struct{}, 1),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends ev at the tail. It never blocks beyond lock acquisition.
func (q *Queue) Push(ev event.Event) {
	q.mu.Lock()
	q.pushLocked(ev)
	q.mu.Unlock()
	q.signal()
}

// PushAll appends evs in order under a single lock acquisition, so a
// fanned-out translation is never interleaved with another producer.
func (q *Queue) PushAll(evs []event.Event) {
	if len(evs) == 0 {
		return
	}
	q.mu.Lock()
	for _, ev := range evs {
		q.pushLocked(ev)
	}
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) pushLocked(ev event.Event) {
	if q.closed {
		return
	}
	if q.limit > 0 && q.n >= q.limit {
		q.buf[q.head] = nil
		q.head = (q.head + 1) & (len(q.buf) - 1)
		q.n--
		q.dropped++
		if !q.overflow {
			q.overflow = true
			q.log.Warn("pending event queue full, dropping oldest events",
				slog.Int("limit", q.limit))
		}
	}
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)&(len(q.buf)-1)] = ev
	q.n++
}

func (q *Queue) grow() {
	b := make([]event.Event, 2*len(q.buf))
	n := copy(b, q.buf[q.head:])
	copy(b[n:], q.buf[:q.head])
	q.buf = b
	q.head = 0
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// PopFront removes and returns the head event. It does not block.
func (q *Queue) PopFront() (event.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *Queue) popLocked() (event.Event, bool) {
	if q.n == 0 {
		return nil, false
	}
	ev := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) & (len(q.buf) - 1)
	q.n--
	if q.n == 0 {
		q.overflow = false
	}
	return ev, true
}

// Wait blocks until an event is available and pops it. It returns
// ctx.Err() if ctx ends first, and ErrClosed once the queue is closed and
// empty.
func (q *Queue) Wait(ctx context.Context) (event.Event, error) {
	for {
		q.mu.Lock()
		ev, ok := q.popLocked()
		closed := q.closed
		remaining := q.n
		q.mu.Unlock()
		if ok {
			if remaining > 0 {
				q.signal()
			}
			return ev, nil
		}
		if closed {
			return nil, ErrClosed
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Ready returns a channel that receives a token after pushes. It is a hint;
// PopFront may still find the queue empty.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Dropped returns how many events were discarded because of the limit.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close stops accepting events and wakes any waiter. Queued events remain
// poppable.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}
