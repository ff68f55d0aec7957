package rules

import "sync"

// queuedEvent pairs a lifecycle event with its result callback.
type queuedEvent struct {
	event LifecycleEvent
	done  func([]ActionResult, error)
}

// eventQueue is a thread-safe FIFO queue of pending lifecycle events.
//
// The queue is unbounded: volume is inherently small (one household
// business's client list), so no batching or backpressure is needed.
// A buffered signal channel lets the dispatcher wait with context
// awareness instead of blocking on a dequeue.
type eventQueue struct {
	mu     sync.Mutex
	events []queuedEvent
	closed bool
	signal chan struct{} // coalesced availability signal, buffer of 1
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]queuedEvent, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends an event. Safe from any goroutine. Returns false if
// the queue is closed.
func (q *eventQueue) Enqueue(e queuedEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front event without blocking.
func (q *eventQueue) TryDequeue() (queuedEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return queuedEvent{}, false
	}

	e := q.events[0]
	// Nil the slot so the backing array releases the callback and
	// snapshot pointers.
	q.events[0] = queuedEvent{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Wait returns the availability signal channel. It closes when the
// queue closes, waking all waiters.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending events.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close rejects further enqueues and wakes waiters.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
