package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, s string) Interval {
	t.Helper()
	iv, err := ParseTimeRange(s)
	require.NoError(t, err)
	return iv
}

func TestOverlaps_HalfOpenSemantics(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"adjacent windows never conflict", "09:00-09:30", "09:30-10:00", false},
		{"contained window conflicts", "09:00-09:30", "09:15-09:45", true},
		{"identical windows conflict", "14:00-14:30", "14:00-14:30", true},
		{"partial overlap conflicts", "14:00-14:30", "14:20-14:50", true},
		{"disjoint windows do not conflict", "08:00-08:30", "12:00-12:30", false},
		{"touching at start does not conflict", "10:00-11:00", "09:00-10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustRange(t, tt.a), mustRange(t, tt.b)
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestOverlaps_ZeroWidthInterval(t *testing.T) {
	window := mustRange(t, "09:00-10:00")

	inside, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.True(t, window.Overlaps(At(inside)), "zero-width point inside a window conflicts")

	boundary, err := ParseClock("10:00")
	require.NoError(t, err)
	assert.False(t, window.Overlaps(At(boundary)), "point at the window end does not conflict")

	// Two zero-width intervals never overlap, even at the same instant:
	// with no known duration, only a real window can claim the time.
	assert.False(t, At(inside).Overlaps(At(inside)))
}

func TestParseTimeRange(t *testing.T) {
	iv, err := ParseTimeRange("09:05-17:45")
	require.NoError(t, err)
	assert.Equal(t, 9*60+5, iv.Start)
	assert.Equal(t, 17*60+45, iv.End)

	for _, bad := range []string{"", "09:00", "9-10", "25:00-26:00", "10:00-09:00", "ab:cd-ef:gh"} {
		_, err := ParseTimeRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*60+59, m)

	m, err = ParseClock("14:30:00")
	require.NoError(t, err)
	assert.Equal(t, 14*60+30, m, "seconds are tolerated and ignored")
}
