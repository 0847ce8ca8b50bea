package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mhayashi/salon-shift-api/pkg/coverage"
)

// SummaryReport returns the full period report: coverage, utilization
// and every detected issue.
func (h *Handler) SummaryReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()
	summary := coverage.BuildSummary(state.Shifts, state.Staff, state.StoreSettings, state.Requests, rng)
	c.JSON(http.StatusOK, summary)
}

// CoverageReport returns aggregate coverage statistics for a range.
func (h *Handler) CoverageReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()
	c.JSON(http.StatusOK, coverage.CoverageStats(state.Shifts, state.StoreSettings, rng))
}

// CalendarReport returns the per-date calendar data for a range: each
// day's assignments, minimums, adequacy and requests.
func (h *Handler) CalendarReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()
	days := coverage.DaySummaries(state.Shifts, state.StoreSettings, state.Requests, rng)
	c.JSON(http.StatusOK, gin.H{"days": days, "total": len(days)})
}

// UnderstaffedReport lists every shift below its weekday minimum.
func (h *Handler) UnderstaffedReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()
	shifts := coverage.UnderstaffedShifts(state.Shifts, state.StoreSettings, rng)
	c.JSON(http.StatusOK, gin.H{"understaffed": shifts, "total": len(shifts)})
}

// ConflictsReport lists staff assigned to both shifts of one day.
func (h *Handler) ConflictsReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()
	conflicts := coverage.Conflicts(state.Shifts, rng)
	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts, "total": len(conflicts)})
}

// ViolationsReport lists assignments that contradict preference requests.
func (h *Handler) ViolationsReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()
	violations := coverage.RequestViolations(state.Shifts, state.Requests, rng)
	c.JSON(http.StatusOK, gin.H{"violations": violations, "total": len(violations)})
}

// UtilizationReport returns per-staff shift counts with the average.
func (h *Handler) UtilizationReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()
	c.JSON(http.StatusOK, coverage.UtilizationStats(state.Shifts, state.Staff, rng))
}

// StretchesReport lists each staff member's consecutive working runs.
// ?staff_id narrows to one person.
func (h *Handler) StretchesReport(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()

	staffID := c.Query("staff_id")
	out := make(map[string][]coverage.Stretch)
	for _, staff := range state.Staff {
		if staffID != "" && staff.ID != staffID {
			continue
		}
		if stretches := coverage.ConsecutiveStretches(state.Shifts, staff.ID, rng); len(stretches) > 0 {
			out[staff.ID] = stretches
		}
	}
	c.JSON(http.StatusOK, gin.H{"stretches": out})
}
