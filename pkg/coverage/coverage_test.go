package coverage

import (
	"reflect"
	"testing"

	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// 2024-01-01 is a Monday; the default table requires 2 morning and 2
// evening staff on Mondays.
func testSettings() models.StoreSettings {
	return models.DefaultSettings()
}

func testShifts() models.Shifts {
	return models.Shifts{
		"2024-01-01": {Morning: []string{"a", "b"}, Evening: []string{"c"}},
	}
}

func TestAssignedAndRequiredCounts(t *testing.T) {
	shifts := testShifts()
	settings := testSettings()

	if got := AssignedCount(shifts, "2024-01-01", models.ShiftMorning); got != 2 {
		t.Errorf("Expected 2 assigned to morning, got %d", got)
	}
	if got := AssignedCount(shifts, "2024-01-02", models.ShiftMorning); got != 0 {
		t.Errorf("Expected 0 assigned on an empty day, got %d", got)
	}
	if got := RequiredCount(settings, "2024-01-01", models.ShiftEvening); got != 2 {
		t.Errorf("Expected Monday evening minimum 2, got %d", got)
	}
	if got := RequiredCount(settings, "bogus", models.ShiftMorning); got != 0 {
		t.Errorf("Expected 0 for a malformed date, got %d", got)
	}
	if got := RequiredCount(models.StoreSettings{}, "2024-01-01", models.ShiftMorning); got != 0 {
		t.Errorf("Expected 0 for an empty minimum table, got %d", got)
	}
}

func TestUnderstaffedShifts(t *testing.T) {
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-01"}
	out := UnderstaffedShifts(testShifts(), testSettings(), rng)

	if len(out) != 1 {
		t.Fatalf("Expected exactly 1 understaffed shift, got %d", len(out))
	}
	want := Understaffed{Date: "2024-01-01", Shift: models.ShiftEvening, Assigned: 1, Required: 2}
	if out[0] != want {
		t.Errorf("Expected %+v, got %+v", want, out[0])
	}
}

func TestConflicts(t *testing.T) {
	shifts := models.Shifts{
		"2024-01-01": {Morning: []string{"a", "b"}, Evening: []string{"b", "c"}},
		"2024-01-02": {Morning: []string{"a"}, Evening: []string{"c"}},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-02"}

	out := Conflicts(shifts, rng)
	if len(out) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(out))
	}
	if out[0].Date != "2024-01-01" || out[0].StaffID != "b" {
		t.Errorf("Expected conflict for b on 2024-01-01, got %+v", out[0])
	}
}

func TestConflictsReportedOncePerPair(t *testing.T) {
	// An imported record can carry the same id twice in one list; the
	// (date, staff) pair still counts once.
	shifts := models.Shifts{
		"2024-01-01": {Morning: []string{"b", "b"}, Evening: []string{"b"}},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-01"}

	out := Conflicts(shifts, rng)
	if len(out) != 1 {
		t.Fatalf("Expected 1 conflict for a duplicated id, got %d: %+v", len(out), out)
	}
}

func TestRequestViolations(t *testing.T) {
	shifts := models.Shifts{
		"2024-01-01": {Morning: []string{"a", "b"}, Evening: []string{"c"}},
	}
	requests := []models.ShiftRequest{
		{ID: "r1", StaffID: "a", Date: "2024-01-01", Type: models.RequestOff},
		{ID: "r2", StaffID: "b", Date: "2024-01-01", Type: models.RequestEvening},
		{ID: "r3", StaffID: "c", Date: "2024-01-01", Type: models.RequestAny},
		{ID: "r4", StaffID: "c", Date: "2024-01-02", Type: models.RequestOff},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-02"}

	out := RequestViolations(shifts, requests, rng)
	if len(out) != 2 {
		t.Fatalf("Expected 2 violations, got %d: %+v", len(out), out)
	}
	if out[0].StaffID != "a" || out[0].AssignedShift != models.ShiftMorning {
		t.Errorf("Expected off-request violation for a on morning, got %+v", out[0])
	}
	if out[1].StaffID != "b" || out[1].AssignedShift != models.ShiftMorning {
		t.Errorf("Expected opposite-shift violation for b, got %+v", out[1])
	}
}

func TestCoverageStats(t *testing.T) {
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-01"}
	stats := CoverageStats(testShifts(), testSettings(), rng)

	if stats.TotalRequired != 4 || stats.TotalAssigned != 3 {
		t.Errorf("Expected 3/4 assigned, got %d/%d", stats.TotalAssigned, stats.TotalRequired)
	}
	if stats.AdequateShifts != 1 || stats.TotalShifts != 2 {
		t.Errorf("Expected 1 of 2 shifts adequate, got %d of %d", stats.AdequateShifts, stats.TotalShifts)
	}
	if stats.CoverageRate != 75 {
		t.Errorf("Expected 75%% coverage, got %f", stats.CoverageRate)
	}
	if stats.AdequacyRate != 50 {
		t.Errorf("Expected 50%% adequacy, got %f", stats.AdequacyRate)
	}

	empty := CoverageStats(models.Shifts{}, models.StoreSettings{}, rng)
	if empty.CoverageRate != 0 || empty.AdequacyRate != 100 {
		t.Errorf("Expected 0%% coverage and 100%% adequacy with no minimums, got %f/%f", empty.CoverageRate, empty.AdequacyRate)
	}
}

func TestUtilizationStats(t *testing.T) {
	staffList := []models.Staff{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	shifts := models.Shifts{
		"2024-01-01": {Morning: []string{"a"}, Evening: []string{"a"}},
		"2024-01-02": {Morning: []string{"b"}, Evening: []string{}},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-02"}

	report := UtilizationStats(shifts, staffList, rng)
	if report.Total != 3 {
		t.Errorf("Expected 3 total shifts, got %d", report.Total)
	}
	if report.Average != 1.5 {
		t.Errorf("Expected average 1.5, got %f", report.Average)
	}
	a := report.Individual[0]
	if a.TotalShifts != 2 || a.MorningShifts != 1 || a.EveningShifts != 1 || a.WorkingDays != 1 {
		t.Errorf("Unexpected utilization for a: %+v", a)
	}
}

func TestConsecutiveStretches(t *testing.T) {
	shifts := models.Shifts{
		"2024-01-01": {Morning: []string{"a"}},
		"2024-01-02": {Evening: []string{"a"}},
		"2024-01-03": {Morning: []string{"a"}},
		"2024-01-05": {Morning: []string{"a"}},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-07"}

	out := ConsecutiveStretches(shifts, "a", rng)
	if len(out) != 1 {
		t.Fatalf("Expected 1 stretch, got %d: %+v", len(out), out)
	}
	want := Stretch{Start: "2024-01-01", End: "2024-01-03", Days: 3}
	if out[0] != want {
		t.Errorf("Expected %+v, got %+v", want, out[0])
	}
}

func TestGreedyProposal(t *testing.T) {
	staffList := []models.Staff{
		{ID: "1", Name: "One"},
		{ID: "2", Name: "Two"},
		{ID: "3", Name: "Three"},
		{ID: "4", Name: "Four"},
		{ID: "5", Name: "Five"},
	}
	requests := []models.ShiftRequest{
		{ID: "r1", StaffID: "1", Date: "2024-01-01", Type: models.RequestOff},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-01"}

	shifts := GreedyProposal(staffList, testSettings(), requests, rng)
	day := shifts["2024-01-01"]

	// Staff 1 is off; morning takes the next two in roster order.
	if !reflect.DeepEqual(day.Morning, []string{"2", "3"}) {
		t.Errorf("Expected morning [2 3], got %v", day.Morning)
	}
	// Evening takes the next two not already on morning.
	if !reflect.DeepEqual(day.Evening, []string{"4", "5"}) {
		t.Errorf("Expected evening [4 5], got %v", day.Evening)
	}

	// Same inputs, same output.
	again := GreedyProposal(staffList, testSettings(), requests, rng)
	if !reflect.DeepEqual(shifts, again) {
		t.Error("Expected the greedy proposal to be deterministic")
	}
}

func TestGreedyFallback(t *testing.T) {
	staffList := []models.Staff{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-01"}

	proposal := GreedyFallback(staffList, testSettings(), nil, rng)
	if !proposal.Success {
		t.Error("Expected a successful fallback proposal")
	}
	if proposal.OptimizationScore != 100 {
		t.Errorf("Expected a fully adequate plan to score 100, got %f", proposal.OptimizationScore)
	}
	if len(proposal.Shifts) != 1 {
		t.Errorf("Expected 1 planned day, got %d", len(proposal.Shifts))
	}
}

func TestDaySummaries(t *testing.T) {
	requests := []models.ShiftRequest{
		{ID: "r1", StaffID: "a", Date: "2024-01-01", Type: models.RequestOff},
		{ID: "r2", StaffID: "b", Date: "2024-01-02", Type: models.RequestAny},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-02"}

	days := DaySummaries(testShifts(), testSettings(), requests, rng)
	if len(days) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(days))
	}

	monday := days[0]
	if monday.Date != "2024-01-01" {
		t.Errorf("Expected days in date order, got %s first", monday.Date)
	}
	if !reflect.DeepEqual(monday.Morning.Assigned, []string{"a", "b"}) || monday.Morning.Required != 2 || !monday.Morning.Adequate {
		t.Errorf("Unexpected morning summary: %+v", monday.Morning)
	}
	if monday.Evening.Adequate || monday.Evening.Required != 2 {
		t.Errorf("Expected an inadequate evening needing 2, got %+v", monday.Evening)
	}
	if len(monday.Requests) != 1 || monday.Requests[0].ID != "r1" {
		t.Errorf("Expected only Monday's request, got %+v", monday.Requests)
	}

	// Empty days are filled in rather than skipped.
	tuesday := days[1]
	if len(tuesday.Morning.Assigned) != 0 || tuesday.Morning.Adequate {
		t.Errorf("Expected an empty, inadequate Tuesday morning, got %+v", tuesday.Morning)
	}
	if len(tuesday.Requests) != 1 || tuesday.Requests[0].ID != "r2" {
		t.Errorf("Expected only Tuesday's request, got %+v", tuesday.Requests)
	}
}

func TestBuildSummary(t *testing.T) {
	staffList := []models.Staff{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	requests := []models.ShiftRequest{
		{ID: "r1", StaffID: "a", Date: "2024-01-01", Type: models.RequestOff},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-01"}

	summary := BuildSummary(testShifts(), staffList, testSettings(), requests, rng)
	if summary.TotalStaff != 3 || summary.TotalRequests != 1 {
		t.Errorf("Unexpected totals: %+v", summary)
	}
	if len(summary.Issues.UnderstaffedShifts) != 1 {
		t.Errorf("Expected 1 understaffed shift, got %d", len(summary.Issues.UnderstaffedShifts))
	}
	if len(summary.Issues.RequestViolations) != 1 {
		t.Errorf("Expected 1 violation, got %d", len(summary.Issues.RequestViolations))
	}
}
