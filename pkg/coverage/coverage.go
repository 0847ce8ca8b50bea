// Package coverage implements the shift coverage and assignment engine:
// required-versus-assigned staff counts, understaffing and conflict
// detection, preference-violation checks, utilization statistics and the
// greedy proposal builder. Every function is a pure function of its
// inputs; malformed dates yield empty or zero results rather than errors.
package coverage

import (
	"time"

	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// Understaffed identifies a shift whose assignments fall short of the
// weekly minimum.
type Understaffed struct {
	Date     string           `json:"date"`
	Shift    models.ShiftType `json:"shift"`
	Assigned int              `json:"assigned"`
	Required int              `json:"required"`
}

// Conflict identifies a staff member assigned to both shifts of one day.
type Conflict struct {
	Date    string `json:"date"`
	StaffID string `json:"staff_id"`
}

// Violation identifies an assignment that contradicts a submitted
// preference request.
type Violation struct {
	Date          string             `json:"date"`
	StaffID       string             `json:"staff_id"`
	RequestType   models.RequestType `json:"request_type"`
	AssignedShift models.ShiftType   `json:"assigned_shift"`
}

// StaffShift is one (date, shift) a staff member works.
type StaffShift struct {
	Date  string           `json:"date"`
	Shift models.ShiftType `json:"shift"`
}

// Stats aggregates coverage over a date range.
type Stats struct {
	TotalRequired  int     `json:"total_required"`
	TotalAssigned  int     `json:"total_assigned"`
	AdequateShifts int     `json:"adequate_shifts"`
	TotalShifts    int     `json:"total_shifts"`
	CoverageRate   float64 `json:"coverage_rate"`
	AdequacyRate   float64 `json:"adequacy_rate"`
}

// StaffUtilization summarizes one staff member's workload.
type StaffUtilization struct {
	Staff         models.Staff `json:"staff"`
	TotalShifts   int          `json:"total_shifts"`
	MorningShifts int          `json:"morning_shifts"`
	EveningShifts int          `json:"evening_shifts"`
	WorkingDays   int          `json:"working_days"`
}

// UtilizationReport holds per-staff workloads plus the roster average.
type UtilizationReport struct {
	Individual []StaffUtilization `json:"individual"`
	Average    float64            `json:"average"`
	Total      int                `json:"total"`
}

// Stretch is a run of consecutive working days.
type Stretch struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// AssignedCount returns how many staff are assigned to a shift, or 0 if
// the date has no entry.
func AssignedCount(shifts models.Shifts, date string, shift models.ShiftType) int {
	return len(shifts[date].Get(shift))
}

// RequiredCount looks up the weekly minimum for a shift. A malformed
// date or malformed minimum-staffing table yields 0.
func RequiredCount(settings models.StoreSettings, date string, shift models.ShiftType) int {
	d, err := dateutil.ParseDate(date)
	if err != nil {
		return 0
	}
	idx := dateutil.DayOfWeekIndex(d)
	if idx >= len(settings.MinStaff) {
		return 0
	}
	return settings.MinStaff[idx].Required(shift)
}

// IsAdequatelyStaffed reports whether a shift meets its minimum.
func IsAdequatelyStaffed(shifts models.Shifts, settings models.StoreSettings, date string, shift models.ShiftType) bool {
	return AssignedCount(shifts, date, shift) >= RequiredCount(settings, date, shift)
}

// UnderstaffedShifts scans a range and reports every shift below its
// minimum, ordered by date ascending with morning before evening.
func UnderstaffedShifts(shifts models.Shifts, settings models.StoreSettings, rng models.DateRange) []Understaffed {
	var out []Understaffed
	for _, day := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(day)
		for _, shift := range models.ShiftTypes {
			assigned := AssignedCount(shifts, date, shift)
			required := RequiredCount(settings, date, shift)
			if assigned < required {
				out = append(out, Understaffed{Date: date, Shift: shift, Assigned: assigned, Required: required})
			}
		}
	}
	return out
}

// StaffShifts lists every (date, shift) the staff member works in the
// range, date ascending, morning before evening.
func StaffShifts(shifts models.Shifts, staffID string, rng models.DateRange) []StaffShift {
	var out []StaffShift
	for _, day := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(day)
		dayShifts, ok := shifts[date]
		if !ok {
			continue
		}
		for _, shift := range models.ShiftTypes {
			if dayShifts.Contains(shift, staffID) {
				out = append(out, StaffShift{Date: date, Shift: shift})
			}
		}
	}
	return out
}

// Workload counts the total shifts a staff member works in the range.
func Workload(shifts models.Shifts, staffID string, rng models.DateRange) int {
	return len(StaffShifts(shifts, staffID, rng))
}

// Conflicts reports every staff member assigned to both the morning and
// evening shift of the same date, once per (date, staff) pair.
func Conflicts(shifts models.Shifts, rng models.DateRange) []Conflict {
	var out []Conflict
	for _, day := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(day)
		dayShifts, ok := shifts[date]
		if !ok {
			continue
		}
		seen := make(map[string]struct{})
		for _, id := range dayShifts.Morning {
			if _, dup := seen[id]; dup {
				continue
			}
			if dayShifts.Contains(models.ShiftEvening, id) {
				seen[id] = struct{}{}
				out = append(out, Conflict{Date: date, StaffID: id})
			}
		}
	}
	return out
}

// RequestViolations flags assignments that contradict preference
// requests: "off" staff assigned to either shift, and morning/evening
// preferences assigned to the opposite shift. "any" never violates.
func RequestViolations(shifts models.Shifts, requests []models.ShiftRequest, rng models.DateRange) []Violation {
	var out []Violation
	for _, day := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(day)
		dayShifts, ok := shifts[date]
		if !ok {
			continue
		}
		for _, req := range requests {
			if req.Date != date {
				continue
			}
			switch req.Type {
			case models.RequestOff:
				for _, shift := range models.ShiftTypes {
					if dayShifts.Contains(shift, req.StaffID) {
						out = append(out, Violation{Date: date, StaffID: req.StaffID, RequestType: req.Type, AssignedShift: shift})
					}
				}
			case models.RequestMorning, models.RequestEvening:
				opposite := models.ShiftEvening
				if req.Type == models.RequestEvening {
					opposite = models.ShiftMorning
				}
				if dayShifts.Contains(opposite, req.StaffID) {
					out = append(out, Violation{Date: date, StaffID: req.StaffID, RequestType: req.Type, AssignedShift: opposite})
				}
			}
		}
	}
	return out
}

// CoverageStats aggregates assigned/required counts over a range. Rates
// are percentages, 0 when the denominator is 0.
func CoverageStats(shifts models.Shifts, settings models.StoreSettings, rng models.DateRange) Stats {
	var s Stats
	for _, day := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(day)
		for _, shift := range models.ShiftTypes {
			required := RequiredCount(settings, date, shift)
			assigned := AssignedCount(shifts, date, shift)
			s.TotalRequired += required
			s.TotalAssigned += assigned
			s.TotalShifts++
			if assigned >= required {
				s.AdequateShifts++
			}
		}
	}
	if s.TotalRequired > 0 {
		s.CoverageRate = float64(s.TotalAssigned) / float64(s.TotalRequired) * 100
	}
	if s.TotalShifts > 0 {
		s.AdequacyRate = float64(s.AdequateShifts) / float64(s.TotalShifts) * 100
	}
	return s
}

// UtilizationStats computes per-staff workloads plus the roster average,
// in staff-list order.
func UtilizationStats(shifts models.Shifts, staffList []models.Staff, rng models.DateRange) UtilizationReport {
	report := UtilizationReport{Individual: make([]StaffUtilization, 0, len(staffList))}
	for _, staff := range staffList {
		worked := StaffShifts(shifts, staff.ID, rng)
		u := StaffUtilization{Staff: staff, TotalShifts: len(worked)}
		days := make(map[string]struct{})
		for _, w := range worked {
			if w.Shift == models.ShiftMorning {
				u.MorningShifts++
			} else {
				u.EveningShifts++
			}
			days[w.Date] = struct{}{}
		}
		u.WorkingDays = len(days)
		report.Individual = append(report.Individual, u)
		report.Total += u.TotalShifts
	}
	if len(staffList) > 0 {
		report.Average = float64(report.Total) / float64(len(staffList))
	}
	return report
}

// ConsecutiveStretches finds runs of two or more consecutive working
// days for a staff member within the range.
func ConsecutiveStretches(shifts models.Shifts, staffID string, rng models.DateRange) []Stretch {
	var dates []string
	seen := make(map[string]struct{})
	for _, w := range StaffShifts(shifts, staffID, rng) {
		if _, ok := seen[w.Date]; !ok {
			seen[w.Date] = struct{}{}
			dates = append(dates, w.Date)
		}
	}

	var out []Stretch
	var current Stretch
	var prev time.Time
	for i, date := range dates {
		d, err := dateutil.ParseDate(date)
		if err != nil {
			continue
		}
		if i == 0 || d.Sub(prev) > 24*time.Hour {
			if current.Days > 1 {
				out = append(out, current)
			}
			current = Stretch{Start: date, End: date, Days: 1}
		} else {
			current.End = date
			current.Days++
		}
		prev = d
	}
	if current.Days > 1 {
		out = append(out, current)
	}
	return out
}
