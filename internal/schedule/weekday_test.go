package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-08-26 is a Wednesday.
var wednesday = time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

func TestResolveDayDescriptor_WeekdayIsStrictlyAfterToday(t *testing.T) {
	days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

	for _, name := range days {
		t.Run(name, func(t *testing.T) {
			resolved, recognized := ResolveDayDescriptor(name, wednesday)
			require.True(t, recognized)

			d, err := time.Parse("2006-01-02", resolved)
			require.NoError(t, err)

			want, _ := ParseWeekday(name)
			assert.Equal(t, want, d.Weekday())
			assert.True(t, d.After(wednesday.Truncate(24*time.Hour)), "resolved date must be after today")
			assert.NotEqual(t, wednesday.Format("2006-01-02"), resolved, "today must never be selected")
		})
	}
}

func TestResolveDayDescriptor_SameWeekdayRollsFullWeek(t *testing.T) {
	resolved, recognized := ResolveDayDescriptor("Wednesday", wednesday)
	require.True(t, recognized)
	assert.Equal(t, "2026-09-02", resolved)
}

func TestResolveDayDescriptor_ArabicNames(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"الخميس", "2026-08-27"},  // Thursday, next day
		{"الأحد", "2026-08-30"},   // Sunday
		{"الأربعاء", "2026-09-02"}, // Wednesday, rolls a week
	}

	for _, tt := range tests {
		resolved, recognized := ResolveDayDescriptor(tt.name, wednesday)
		require.True(t, recognized, tt.name)
		assert.Equal(t, tt.want, resolved, tt.name)
	}
}

func TestResolveDayDescriptor_Placeholder(t *testing.T) {
	for _, p := range []string{"الوقت المختار", "The Chosen Time", "  The Chosen Time  "} {
		resolved, recognized := ResolveDayDescriptor(p, wednesday)
		require.True(t, recognized, p)
		assert.Equal(t, "2026-08-27", resolved, "placeholder resolves to tomorrow")
	}
}

func TestResolveDayDescriptor_ISOVerbatim(t *testing.T) {
	resolved, recognized := ResolveDayDescriptor("2026-12-01", wednesday)
	require.True(t, recognized)
	assert.Equal(t, "2026-12-01", resolved)
}

func TestResolveDayDescriptor_UnknownFallsBackToToday(t *testing.T) {
	resolved, recognized := ResolveDayDescriptor("next full moon", wednesday)
	assert.False(t, recognized)
	assert.Equal(t, "2026-08-26", resolved)
}

func TestNextOccurrence_IncludeToday(t *testing.T) {
	// Admin flow: when today already is the requested weekday, keep today.
	got := NextOccurrence(time.Wednesday, wednesday, true)
	assert.Equal(t, "2026-08-26", got.Format("2006-01-02"))

	// But the patient flow never selects today.
	got = NextOccurrence(time.Wednesday, wednesday, false)
	assert.Equal(t, "2026-09-02", got.Format("2006-01-02"))
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("monday")
	require.True(t, ok)
	assert.Equal(t, time.Monday, d)

	d, ok = ParseWeekday("الجمعة")
	require.True(t, ok)
	assert.Equal(t, time.Friday, d)

	_, ok = ParseWeekday("someday")
	assert.False(t, ok)
}
