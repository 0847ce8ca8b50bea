package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mhayashi/salon-shift-api/pkg/coverage"
	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
)

type periodInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (p periodInput) validate(c *gin.Context) (models.DateRange, bool) {
	if _, err := dateutil.ParseDate(p.Start); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be in YYYY-MM-DD format"})
		return models.DateRange{}, false
	}
	if _, err := dateutil.ParseDate(p.End); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be in YYYY-MM-DD format"})
		return models.DateRange{}, false
	}
	return models.DateRange{Start: p.Start, End: p.End}, true
}

// GenerateProposal asks the AI for a shift plan over the given period.
// The proposal is returned for review, never applied directly.
func (h *Handler) GenerateProposal(c *gin.Context) {
	var input periodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rng, ok := input.validate(c)
	if !ok {
		return
	}

	state := h.Store.Snapshot()
	proposal, err := h.Gemini.GenerateShifts(c.Request.Context(), state.Staff, state.StoreSettings, pendingOrApproved(state.Requests), rng)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

// BaselineProposal builds a deterministic roster-order plan without the
// AI. Useful when no API key is configured or the AI is down.
func (h *Handler) BaselineProposal(c *gin.Context) {
	var input periodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rng, ok := input.validate(c)
	if !ok {
		return
	}

	state := h.Store.Snapshot()
	proposal := coverage.GreedyFallback(state.Staff, state.StoreSettings, pendingOrApproved(state.Requests), rng)
	c.JSON(http.StatusOK, proposal)
}

// ApplyProposal merges an accepted proposal into the schedule.
func (h *Handler) ApplyProposal(c *gin.Context) {
	var proposal models.Proposal
	if err := c.ShouldBindJSON(&proposal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.ApplyProposal(proposal); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true})
}

// TestGemini verifies the configured key against the live endpoint.
func (h *Handler) TestGemini(c *gin.Context) {
	if err := h.Gemini.TestConnection(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetGeminiKey replaces the stored API key.
func (h *Handler) SetGeminiKey(c *gin.Context) {
	var input struct {
		APIKey string `json:"api_key"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Config.SetGeminiAPIKey(input.APIKey); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Config.Public())
}

// pendingOrApproved filters out denied requests before planning.
func pendingOrApproved(requests []models.ShiftRequest) []models.ShiftRequest {
	out := make([]models.ShiftRequest, 0, len(requests))
	for _, req := range requests {
		if req.Status != models.StatusDenied {
			out = append(out, req)
		}
	}
	return out
}
