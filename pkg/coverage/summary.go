package coverage

import (
	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// ShiftSummary is one shift of a calendar day: who is on it, what the
// weekday minimum asks for, and whether it is met.
type ShiftSummary struct {
	Assigned []string `json:"assigned"`
	Required int      `json:"required"`
	Adequate bool     `json:"adequate"`
}

// DaySummary is the calendar view of one date, with that date's
// preference requests alongside the assignments.
type DaySummary struct {
	Date     string                `json:"date"`
	Morning  ShiftSummary          `json:"morning"`
	Evening  ShiftSummary          `json:"evening"`
	Requests []models.ShiftRequest `json:"requests"`
}

// DaySummaries builds the per-date calendar data for a range, date
// ascending, with empty days filled in.
func DaySummaries(shifts models.Shifts, settings models.StoreSettings, requests []models.ShiftRequest, rng models.DateRange) []DaySummary {
	var out []DaySummary
	for _, day := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(day)
		summary := DaySummary{Date: date, Requests: []models.ShiftRequest{}}
		for _, req := range requests {
			if req.Date == date {
				summary.Requests = append(summary.Requests, req)
			}
		}

		dayShifts := shifts[date]
		morning := append([]string{}, dayShifts.Morning...)
		evening := append([]string{}, dayShifts.Evening...)
		summary.Morning = ShiftSummary{
			Assigned: morning,
			Required: RequiredCount(settings, date, models.ShiftMorning),
			Adequate: IsAdequatelyStaffed(shifts, settings, date, models.ShiftMorning),
		}
		summary.Evening = ShiftSummary{
			Assigned: evening,
			Required: RequiredCount(settings, date, models.ShiftEvening),
			Adequate: IsAdequatelyStaffed(shifts, settings, date, models.ShiftEvening),
		}
		out = append(out, summary)
	}
	return out
}

// Issues groups everything a schedule review should look at.
type Issues struct {
	UnderstaffedShifts []Understaffed `json:"understaffed_shifts"`
	Conflicts          []Conflict     `json:"conflicts"`
	RequestViolations  []Violation    `json:"request_violations"`
}

// Summary is the full schedule report for a date range.
type Summary struct {
	DateRange     models.DateRange  `json:"date_range"`
	Coverage      Stats             `json:"coverage"`
	Utilization   UtilizationReport `json:"utilization"`
	Issues        Issues            `json:"issues"`
	TotalStaff    int               `json:"total_staff"`
	TotalRequests int               `json:"total_requests"`
}

// BuildSummary assembles the coverage, utilization and issue reports for
// a range in one pass over the engine.
func BuildSummary(shifts models.Shifts, staffList []models.Staff, settings models.StoreSettings, requests []models.ShiftRequest, rng models.DateRange) Summary {
	return Summary{
		DateRange:   rng,
		Coverage:    CoverageStats(shifts, settings, rng),
		Utilization: UtilizationStats(shifts, staffList, rng),
		Issues: Issues{
			UnderstaffedShifts: UnderstaffedShifts(shifts, settings, rng),
			Conflicts:          Conflicts(shifts, rng),
			RequestViolations:  RequestViolations(shifts, requests, rng),
		},
		TotalStaff:    len(staffList),
		TotalRequests: len(requests),
	}
}
