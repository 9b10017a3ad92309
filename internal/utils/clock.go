package utils

import "time"

// DateLayout is the calendar date form used by the market events API.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// LocalDate formats t as YYYY-MM-DD in the local timezone.
func LocalDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// Today returns the current local calendar date of the clock.
func Today(clock Clock) string {
	return LocalDate(clock.Now())
}

// DateRange returns the local dates of today and today+days.
func DateRange(clock Clock, days int) (start string, end string) {
	now := clock.Now().In(time.Local)
	return now.Format(DateLayout), now.AddDate(0, 0, days).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date in the local timezone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.Local)
}
