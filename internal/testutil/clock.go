package testutil

import (
	"testing"
	"time"

	"pbsadmin/internal/timeutil"
)

// FixedClock returns a clock pinned to the given instant in the
// default business timezone. Fails the test on an unknown zone, which
// only happens when the zoneinfo database is missing.
func FixedClock(tb testing.TB, at time.Time) *timeutil.Clock {
	tb.Helper()
	clock, err := timeutil.NewFixed(timeutil.DefaultTimezone, at)
	if err != nil {
		tb.Fatalf("fixed clock: %v", err)
	}
	return clock
}
