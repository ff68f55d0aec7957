package testutil

import (
	"context"
	"sync"
)

// CaptureNotifier records sent messages for assertion.
//
// Thread-safe. Set Fail to make every Send return that error while
// still recording the message.
type CaptureNotifier struct {
	mu       sync.Mutex
	messages []string

	Fail error
}

// Send records the message.
func (c *CaptureNotifier) Send(_ context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return c.Fail
}

// Messages returns a copy of the recorded messages in send order.
func (c *CaptureNotifier) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}
