// Package timeutil converts between wall-clock representations and the
// canonical stored instant, anchored to a single fixed business
// timezone.
//
// The canonical on-disk representation of an instant is an RFC 3339
// timestamp in UTC. Offset arithmetic ("48 hours before the event")
// operates on absolute durations, so daylight-saving transitions in the
// business timezone never stretch or shrink an offset.
package timeutil

import (
	"fmt"
	"time"
)

// DefaultTimezone is the business timezone. It is a fixed configuration
// value, set once at startup, never user-selectable at runtime.
const DefaultTimezone = "Australia/Melbourne"

// InvalidDurationError reports a malformed offset input.
type InvalidDurationError struct {
	Duration time.Duration
	Reason   string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %s: %s", e.Duration, e.Reason)
}

// Clock anchors "now" to the business timezone. The zero behaviors are
// pure; only Now touches the wall clock, and tests can replace it via
// NewFixed.
type Clock struct {
	loc   *time.Location
	nowFn func() time.Time
}

// New creates a clock for the named timezone (e.g. "Australia/Melbourne").
func New(tz string) (*Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &Clock{loc: loc, nowFn: time.Now}, nil
}

// NewFixed creates a clock whose Now always returns at. Used by tests
// and the scenario harness for deterministic output.
func NewFixed(tz string, at time.Time) (*Clock, error) {
	c, err := New(tz)
	if err != nil {
		return nil, err
	}
	c.nowFn = func() time.Time { return at }
	return c, nil
}

// Now returns the current instant in canonical (UTC) form.
func (c *Clock) Now() time.Time {
	return c.nowFn().UTC()
}

// Wall converts an instant to business-timezone wall-clock time for
// display.
func (c *Clock) Wall(t time.Time) time.Time {
	return t.In(c.loc)
}

// Location returns the business timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// OffsetBefore subtracts a fixed absolute duration from a reference
// instant. "48 hours before" is 48 hours of elapsed time, not two
// wall-clock days: across a DST transition the wall-clock reading in
// the business timezone shifts, the instant does not.
//
// Returns InvalidDurationError for non-positive durations.
func OffsetBefore(ref time.Time, d time.Duration) (time.Time, error) {
	if d <= 0 {
		return time.Time{}, &InvalidDurationError{Duration: d, Reason: "offset must be positive"}
	}
	return ref.Add(-d).UTC(), nil
}

// Format renders an instant in the canonical stored representation.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Parse reads a canonical instant. Any RFC 3339 offset is accepted; the
// result is normalized to UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return t.UTC(), nil
}
