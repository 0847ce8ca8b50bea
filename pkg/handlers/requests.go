package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhayashi/salon-shift-api/pkg/models"
	"github.com/mhayashi/salon-shift-api/pkg/store"
	"github.com/mhayashi/salon-shift-api/pkg/validation"
)

// ListRequests returns requests, optionally filtered by ?staff_id,
// ?date, ?type and ?status. The pending queue (?status=pending) is
// ordered by submission time; every other listing is ordered by date.
func (h *Handler) ListRequests(c *gin.Context) {
	state := h.Store.Snapshot()

	staffID := c.Query("staff_id")
	date := c.Query("date")
	reqType := models.RequestType(c.Query("type"))
	status := models.RequestStatus(c.Query("status"))

	out := make([]models.ShiftRequest, 0, len(state.Requests))
	for _, req := range state.Requests {
		if staffID != "" && req.StaffID != staffID {
			continue
		}
		if date != "" && req.Date != date {
			continue
		}
		if reqType != "" && req.Type != reqType {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}

	if status == models.StatusPending {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Submitted.Before(out[j].Submitted)
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date < out[j].Date
			}
			return out[i].Submitted.Before(out[j].Submitted)
		})
	}

	c.JSON(http.StatusOK, gin.H{"requests": out, "total": len(out)})
}

// SubmitRequest files a preference request for a staff member.
func (h *Handler) SubmitRequest(c *gin.Context) {
	var input struct {
		StaffID string `json:"staff_id"`
		validation.RequestForm
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.Store.SubmitRequest(input.StaffID, input.RequestForm, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// EditRequest applies a partial update to a request.
func (h *Handler) EditRequest(c *gin.Context) {
	var update store.RequestUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.Store.EditRequest(c.Param("id"), update, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// DeleteRequest withdraws a request.
func (h *Handler) DeleteRequest(c *gin.Context) {
	if err := h.Store.DeleteRequest(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ApproveRequest marks a pending request approved.
func (h *Handler) ApproveRequest(c *gin.Context) {
	if err := h.Store.ApproveRequest(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusApproved})
}

// DenyRequest marks a pending request denied.
func (h *Handler) DenyRequest(c *gin.Context) {
	if err := h.Store.DenyRequest(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusDenied})
}

// PruneRequests drops requests older than the given number of days,
// defaulting to 30.
func (h *Handler) PruneRequests(c *gin.Context) {
	var input struct {
		Days int `json:"days"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Days <= 0 {
		input.Days = 30
	}

	removed, err := h.Store.PruneRequests(input.Days, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
