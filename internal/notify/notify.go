// Package notify defines the outbound notification channel consumed by
// the rules engine's notify actions. Delivery is fire-and-forget: the
// engine logs and swallows send failures.
package notify

import (
	"context"
	"log/slog"
)

// Notifier sends a message to an external channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// LogNotifier writes notifications to the structured log. It is the
// default channel for a headless run; the desktop host supplies its own
// implementation for user-visible toasts.
type LogNotifier struct {
	Logger *slog.Logger
}

// Send logs the message. Never fails.
func (n LogNotifier) Send(_ context.Context, message string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification", "message", message)
	return nil
}
