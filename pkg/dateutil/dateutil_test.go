package dateutil

import (
	"testing"
	"time"
)

func TestDayOfWeekIndex(t *testing.T) {
	monday, _ := ParseDate("2024-01-01")
	if idx := DayOfWeekIndex(monday); idx != 0 {
		t.Errorf("Expected Monday to map to index 0, got %d", idx)
	}

	sunday, _ := ParseDate("2024-01-07")
	if idx := DayOfWeekIndex(sunday); idx != 6 {
		t.Errorf("Expected Sunday to map to index 6, got %d", idx)
	}

	saturday, _ := ParseDate("2024-01-06")
	if idx := DayOfWeekIndex(saturday); idx != 5 {
		t.Errorf("Expected Saturday to map to index 5, got %d", idx)
	}
}

func TestRangeDates(t *testing.T) {
	days := RangeDates("2024-01-30", "2024-02-02")
	if len(days) != 4 {
		t.Fatalf("Expected 4 days across the month boundary, got %d", len(days))
	}
	if FormatDate(days[0]) != "2024-01-30" || FormatDate(days[3]) != "2024-02-02" {
		t.Errorf("Unexpected bounds: %s .. %s", FormatDate(days[0]), FormatDate(days[3]))
	}

	if got := RangeDates("not-a-date", "2024-02-02"); got != nil {
		t.Errorf("Expected nil for a malformed start, got %d days", len(got))
	}
	if got := RangeDates("2024-02-02", "2024-01-01"); got != nil {
		t.Errorf("Expected nil for an inverted range, got %d days", len(got))
	}
}

func TestStartAndEndOfMonth(t *testing.T) {
	d := time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)
	if got := FormatDate(StartOfMonth(d)); got != "2024-02-01" {
		t.Errorf("Expected 2024-02-01, got %s", got)
	}
	if got := FormatDate(EndOfMonth(d)); got != "2024-02-29" {
		t.Errorf("Expected leap-year 2024-02-29, got %s", got)
	}
	if days := DaysInMonth(d); len(days) != 29 {
		t.Errorf("Expected 29 days in February 2024, got %d", len(days))
	}
}

func TestStartOfWeek(t *testing.T) {
	sunday, _ := ParseDate("2024-01-07")
	if got := FormatDate(StartOfWeek(sunday)); got != "2024-01-01" {
		t.Errorf("Expected the week of Jan 7 to start on 2024-01-01, got %s", got)
	}

	week := WeekDays(sunday)
	if len(week) != 7 {
		t.Fatalf("Expected 7 week days, got %d", len(week))
	}
	if FormatDate(week[0]) != "2024-01-01" || FormatDate(week[6]) != "2024-01-07" {
		t.Errorf("Unexpected week bounds: %s .. %s", FormatDate(week[0]), FormatDate(week[6]))
	}
}

func TestTimeToMinutes(t *testing.T) {
	m, err := TimeToMinutes("09:30")
	if err != nil || m != 570 {
		t.Errorf("Expected 570 minutes, got %d (err %v)", m, err)
	}
	if _, err := TimeToMinutes("25:00"); err == nil {
		t.Error("Expected an error for an out-of-range hour")
	}
	if got := MinutesToTime(570); got != "09:30" {
		t.Errorf("Expected 09:30, got %s", got)
	}
}

func TestTimeDuration(t *testing.T) {
	d, err := TimeDuration("09:00", "15:00")
	if err != nil || d != 360 {
		t.Errorf("Expected 360 minutes, got %d (err %v)", d, err)
	}

	// An end at or before the start counts as crossing midnight.
	d, err = TimeDuration("22:00", "02:00")
	if err != nil || d != 240 {
		t.Errorf("Expected 240 minutes across midnight, got %d (err %v)", d, err)
	}
}
