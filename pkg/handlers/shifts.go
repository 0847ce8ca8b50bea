package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
)

type shiftInput struct {
	Date    string           `json:"date"`
	Shift   models.ShiftType `json:"shift"`
	StaffID string           `json:"staff_id"`
}

// AssignShift adds one staff member to one shift.
func (h *Handler) AssignShift(c *gin.Context) {
	var input shiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.AssignShift(input.Date, input.Shift, input.StaffID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": true})
}

// RemoveFromShift takes one staff member off one shift.
func (h *Handler) RemoveFromShift(c *gin.Context) {
	var input shiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.RemoveFromShift(input.Date, input.Shift, input.StaffID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// ClearDay empties both shifts of one date.
func (h *Handler) ClearDay(c *gin.Context) {
	var input struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.ClearDay(input.Date); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// ClearAllShifts empties the whole calendar.
func (h *Handler) ClearAllShifts(c *gin.Context) {
	if err := h.Store.ClearAllShifts(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// GetShifts returns the assignments of an inclusive date range, one
// entry per day with empty days filled in.
func (h *Handler) GetShifts(c *gin.Context) {
	rng, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	state := h.Store.Snapshot()

	out := make(map[string]models.DayShifts)
	for _, d := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(d)
		day, exists := state.Shifts[date]
		if !exists {
			day = models.DayShifts{Morning: []string{}, Evening: []string{}}
		}
		out[date] = day
	}
	c.JSON(http.StatusOK, gin.H{"shifts": out, "status": state.ShiftStatus})
}

// ConfirmSchedule locks a month's schedule. Body: {"month": "YYYY-MM"}.
func (h *Handler) ConfirmSchedule(c *gin.Context) {
	var input struct {
		Month string `json:"month"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	month, err := time.Parse("2006-01", input.Month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be in YYYY-MM format"})
		return
	}

	if err := h.Store.ConfirmSchedule(month); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusConfirmed})
}

// ReopenSchedule returns the schedule to draft.
func (h *Handler) ReopenSchedule(c *gin.Context) {
	if err := h.Store.ReopenSchedule(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusDraft})
}

// rangeFromQuery reads ?start and ?end, defaulting to the current month.
func rangeFromQuery(c *gin.Context) (models.DateRange, bool) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" && end == "" {
		now := time.Now()
		return models.DateRange{
			Start: dateutil.FormatDate(dateutil.StartOfMonth(now)),
			End:   dateutil.FormatDate(dateutil.EndOfMonth(now)),
		}, true
	}

	if _, err := dateutil.ParseDate(start); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be in YYYY-MM-DD format"})
		return models.DateRange{}, false
	}
	if _, err := dateutil.ParseDate(end); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be in YYYY-MM-DD format"})
		return models.DateRange{}, false
	}
	return models.DateRange{Start: start, End: end}, true
}
