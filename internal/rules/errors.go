package rules

import (
	"errors"
	"fmt"
)

// UnsupportedTriggerError reports a lifecycle event outside the
// supported trigger kinds, or a snapshot that does not match its
// trigger. The engine returns it immediately with no partial effects.
type UnsupportedTriggerError struct {
	Trigger Trigger
	Reason  string
}

func (e *UnsupportedTriggerError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported trigger %q: %s", e.Trigger, e.Reason)
	}
	return fmt.Sprintf("unsupported trigger %q", e.Trigger)
}

// IsUnsupportedTrigger reports whether err is an UnsupportedTriggerError.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedTrigger(err error) bool {
	var ute *UnsupportedTriggerError
	return errors.As(err, &ute)
}
