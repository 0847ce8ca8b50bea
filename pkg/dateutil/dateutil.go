// Package dateutil provides the calendar math the scheduling engine and
// handlers share: ISO date formatting, month/week enumeration, weekday
// indexing and HH:MM time arithmetic.
package dateutil

import (
	"fmt"
	"time"
)

// ISODate is the wire format for calendar dates.
const ISODate = "2006-01-02"

// FormatDate renders a time as a YYYY-MM-DD string.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(ISODate, s)
}

// DayOfWeekIndex maps a date to the Monday-based weekday index used by
// the minimum-staffing table: Monday=0 through Sunday=6.
func DayOfWeekIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// AddDays returns t shifted by the given number of days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// StartOfWeek returns the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return AddDays(d, -DayOfWeekIndex(d))
}

// DaysInMonth enumerates every day of t's month in order.
func DaysInMonth(t time.Time) []time.Time {
	return DateSpan(StartOfMonth(t), EndOfMonth(t))
}

// WeekDays enumerates the seven days of t's week, Monday first.
func WeekDays(t time.Time) []time.Time {
	start := StartOfWeek(t)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = AddDays(start, i)
	}
	return days
}

// DateSpan enumerates every day from start through end inclusive.
// An inverted span yields nil.
func DateSpan(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// RangeDates enumerates the dates of an inclusive ISO range. Malformed
// bounds yield nil, keeping range scans lenient by construction.
func RangeDates(start, end string) []time.Time {
	s, err := ParseDate(start)
	if err != nil {
		return nil
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil
	}
	return DateSpan(s, e)
}

// IsSameDay reports whether two times fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// TimeToMinutes converts an HH:MM string to minutes since midnight.
func TimeToMinutes(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// MinutesToTime converts minutes since midnight to an HH:MM string.
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// TimeDuration returns the minutes between two HH:MM times. An end at or
// before the start is treated as crossing midnight so arithmetic on
// arbitrary time pairs never goes negative; store settings themselves
// reject overnight windows at validation.
func TimeDuration(start, end string) (int, error) {
	s, err := TimeToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := TimeToMinutes(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return (24*60 - s) + e, nil
	}
	return e - s, nil
}
