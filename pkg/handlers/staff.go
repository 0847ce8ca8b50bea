package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mhayashi/salon-shift-api/pkg/models"
	"github.com/mhayashi/salon-shift-api/pkg/validation"
)

// CreateStaff adds a staff member to the roster.
func (h *Handler) CreateStaff(c *gin.Context) {
	var form validation.StaffForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staff, err := h.Store.CreateStaff(form)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// UpdateStaff edits an existing roster entry.
func (h *Handler) UpdateStaff(c *gin.Context) {
	var form validation.StaffForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staff, err := h.Store.UpdateStaff(c.Param("id"), form)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// DeleteStaff removes a roster entry unless it still holds shifts.
func (h *Handler) DeleteStaff(c *gin.Context) {
	if err := h.Store.DeleteStaff(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListStaff returns the roster, optionally filtered by a name search
// (?q=) and a role (?role=).
func (h *Handler) ListStaff(c *gin.Context) {
	state := h.Store.Snapshot()

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	role := models.Role(c.Query("role"))

	out := make([]models.Staff, 0, len(state.Staff))
	for _, staff := range state.Staff {
		if q != "" && !strings.Contains(strings.ToLower(staff.Name), q) {
			continue
		}
		if role != "" && staff.Role != role {
			continue
		}
		out = append(out, staff)
	}
	c.JSON(http.StatusOK, gin.H{"staff": out, "total": len(out)})
}

// StaffStats returns the roster size per role.
func (h *Handler) StaffStats(c *gin.Context) {
	state := h.Store.Snapshot()

	counts := make(map[models.Role]int, len(models.Roles))
	for _, role := range models.Roles {
		counts[role] = 0
	}
	for _, staff := range state.Staff {
		counts[staff.Role]++
	}
	c.JSON(http.StatusOK, gin.H{"total": len(state.Staff), "by_role": counts})
}

// SelectStaff records which staff member the session acts as.
func (h *Handler) SelectStaff(c *gin.Context) {
	var input struct {
		StaffID string `json:"staff_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.SelectStaff(input.StaffID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_staff_id": input.StaffID})
}
