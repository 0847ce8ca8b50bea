package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// GetState returns the full application state snapshot.
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Snapshot())
}

// GetSettings returns the store configuration.
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Snapshot().StoreSettings)
}

// GetConfig returns the redacted runtime configuration.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.Config.Public())
}

// SaveSettings validates and replaces the store configuration.
func (h *Handler) SaveSettings(c *gin.Context) {
	var settings models.StoreSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.SaveSettings(settings); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ExportData returns the persisted record as a downloadable JSON body.
func (h *Handler) ExportData(c *gin.Context) {
	payload, err := h.Store.Export()
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="salon_shift_data.json"`)
	c.Data(http.StatusOK, "application/json", []byte(payload))
}

// ImportData replaces the whole record from an uploaded JSON body.
func (h *Handler) ImportData(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	if err := h.Store.Import(string(payload)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": true})
}

// ResetData clears everything back to the built-in defaults.
func (h *Handler) ResetData(c *gin.Context) {
	if err := h.Store.Reset(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
