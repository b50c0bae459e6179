package schedule

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var englishDays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var arabicDays = map[string]time.Weekday{
	"الأحد":    time.Sunday,
	"الاثنين":  time.Monday,
	"الثلاثاء": time.Tuesday,
	"الأربعاء": time.Wednesday,
	"الخميس":   time.Thursday,
	"الجمعة":   time.Friday,
	"السبت":    time.Saturday,
}

// Placeholder strings the slot picker leaves behind when the user never
// chose a day. Treated as "tomorrow".
var placeholders = []string{"الوقت المختار", "The Chosen Time"}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseWeekday maps an English or Arabic weekday name to a time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	if d, ok := englishDays[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, true
	}
	if d, ok := arabicDays[strings.TrimSpace(name)]; ok {
		return d, true
	}
	return time.Sunday, false
}

// NextOccurrence returns the next calendar date whose weekday equals day,
// relative to today. With includeToday=false, today never qualifies: when
// today already is that weekday the date rolls a full week forward. The
// patient booking flow uses includeToday=false; the admin flow uses
// includeToday=true.
func NextOccurrence(day time.Weekday, today time.Time, includeToday bool) time.Time {
	daysAhead := (int(day) - int(today.Weekday()) + 7) % 7
	if daysAhead == 0 && !includeToday {
		daysAhead = 7
	}
	return today.AddDate(0, 0, daysAhead)
}

// ResolveDayDescriptor turns the day descriptor carried from the slot picker
// into a concrete yyyy-MM-dd date:
//   - recognized placeholder text resolves to tomorrow
//   - an English or Arabic weekday name resolves to its next occurrence
//     strictly after today
//   - an ISO date is used verbatim
//   - anything else falls back to today
//
// The second return reports whether the descriptor was recognized (false for
// the today fallback).
func ResolveDayDescriptor(descriptor string, today time.Time) (string, bool) {
	descriptor = strings.TrimSpace(descriptor)

	for _, p := range placeholders {
		if strings.Contains(descriptor, p) {
			return today.AddDate(0, 0, 1).Format(dateLayout), true
		}
	}

	if day, ok := ParseWeekday(descriptor); ok {
		return NextOccurrence(day, today, false).Format(dateLayout), true
	}

	if isoDatePattern.MatchString(descriptor) {
		return descriptor, true
	}

	return today.Format(dateLayout), false
}
