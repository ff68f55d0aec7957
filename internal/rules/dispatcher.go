package rules

import (
	"context"
	"log/slog"
)

// Dispatcher serializes HandleLifecycleEvent calls through a FIFO
// queue for hosts with an async event loop.
//
// The engine contract requires each call to run to completion,
// including all store writes, before the next call starts. Dispatcher
// implements that as a single-consumer loop: Enqueue is safe from any
// goroutine, Run must be called from exactly one.
type Dispatcher struct {
	engine *Engine
	queue  *eventQueue
	logger *slog.Logger
}

// NewDispatcher wraps an engine in a serialized queue.
func NewDispatcher(engine *Engine, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		engine: engine,
		queue:  newEventQueue(),
		logger: logger,
	}
}

// Enqueue submits a lifecycle event for processing. done, if non-nil,
// is invoked from the Run goroutine with the event's results once the
// call has fully completed. Returns false if the dispatcher has been
// stopped.
func (d *Dispatcher) Enqueue(event LifecycleEvent, done func([]ActionResult, error)) bool {
	return d.queue.Enqueue(queuedEvent{event: event, done: done})
}

// Run drains the queue until the context is cancelled or Stop is
// called. Each event runs to completion before the next is dequeued.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("dispatcher starting")

	for {
		pending, ok := d.queue.TryDequeue()
		if ok {
			d.process(ctx, pending)
			continue
		}

		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopping", "reason", "context cancelled")
			d.queue.Close()
			return ctx.Err()

		case <-d.queue.Wait():
			if d.queue.Len() == 0 {
				// Signal channel closed with nothing pending: Stop was called.
				d.logger.Info("dispatcher stopping", "reason", "queue closed")
				return nil
			}
		}
	}
}

// Stop rejects further enqueues and lets Run return once the queue
// drains.
func (d *Dispatcher) Stop() {
	d.queue.Close()
}

// QueueLen returns the number of pending events. Useful for tests and
// monitoring.
func (d *Dispatcher) QueueLen() int {
	return d.queue.Len()
}

func (d *Dispatcher) process(ctx context.Context, pending queuedEvent) {
	results, err := d.engine.HandleLifecycleEvent(ctx, pending.event)
	if err != nil {
		d.logger.Error("lifecycle event rejected",
			"trigger", pending.event.Trigger,
			"entity_id", pending.event.Entity.ID(),
			"error", err,
		)
	}
	if pending.done != nil {
		pending.done(results, err)
	}
}
