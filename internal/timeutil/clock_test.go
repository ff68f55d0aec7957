package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetBefore_FixedDuration(t *testing.T) {
	ref, err := Parse("2025-03-10T09:00:00+11:00")
	require.NoError(t, err)

	due, err := OffsetBefore(ref, 48*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-08T09:00:00+11:00", due.In(melbourne(t)).Format(time.RFC3339))
	assert.Equal(t, 48*time.Hour, ref.Sub(due))
}

// Melbourne leaves daylight saving on the first Sunday of April
// (2025-04-06, 03:00 AEDT -> 02:00 AEST). An offset across that
// boundary must stay a fixed 48 hours of absolute time even though the
// wall-clock reading shifts by an hour.
func TestOffsetBefore_AcrossDSTBoundary(t *testing.T) {
	// After the transition: +10:00
	ref, err := Parse("2025-04-07T09:00:00+10:00")
	require.NoError(t, err)

	due, err := OffsetBefore(ref, 48*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, ref.Sub(due), "offset must be an absolute duration")

	// Before the transition the same instant reads an hour later on the wall
	assert.Equal(t, "2025-04-05T10:00:00+11:00", due.In(melbourne(t)).Format(time.RFC3339))
}

func TestOffsetBefore_RejectsNonPositive(t *testing.T) {
	ref := time.Now()

	for _, d := range []time.Duration{0, -time.Hour} {
		_, err := OffsetBefore(ref, d)
		require.Error(t, err)

		var invalid *InvalidDurationError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestClockNow_FixedAndCanonical(t *testing.T) {
	at := time.Date(2025, 3, 1, 20, 0, 0, 0, time.FixedZone("AEDT", 11*3600))
	clock, err := NewFixed(DefaultTimezone, at)
	require.NoError(t, err)

	now := clock.Now()
	assert.Equal(t, time.UTC, now.Location(), "canonical instants are UTC")
	assert.True(t, now.Equal(at))

	wall := clock.Wall(now)
	assert.Equal(t, "2025-03-01T20:00:00+11:00", wall.Format(time.RFC3339))
}

func TestNew_UnknownTimezone(t *testing.T) {
	_, err := New("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestFormatParse_RoundTrip(t *testing.T) {
	in := "2025-03-10T09:00:00+11:00"
	parsed, err := Parse(in)
	require.NoError(t, err)

	// Canonical form is UTC
	assert.Equal(t, "2025-03-09T22:00:00Z", Format(parsed))

	_, err = Parse("10/03/2025 9am")
	assert.Error(t, err)
}

func melbourne(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)
	return loc
}
