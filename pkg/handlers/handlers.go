// Package handlers wires the HTTP surface: gin routes, the admin auth
// middleware and the mapping from store guard errors to status codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mhayashi/salon-shift-api/pkg/auth"
	"github.com/mhayashi/salon-shift-api/pkg/config"
	"github.com/mhayashi/salon-shift-api/pkg/gemini"
	"github.com/mhayashi/salon-shift-api/pkg/storage"
	"github.com/mhayashi/salon-shift-api/pkg/store"
	"github.com/mhayashi/salon-shift-api/pkg/utils"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	Store  *store.Store
	Gemini *gemini.Client
	Config *config.Config
	DB     *gorm.DB
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// Login issues an admin token for a valid username/password pair.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !auth.Authenticate(h.DB, input.Username, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(input.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// SetupRouter builds the full route tree. Shared by the server binary
// and the serverless entrypoint.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(utils.GinLogger(), gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Salon Shift API",
			"version": storage.Version,
		})
	})

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/staff", h.CreateStaff)
		admin.PUT("/staff/:id", h.UpdateStaff)
		admin.DELETE("/staff/:id", h.DeleteStaff)

		admin.PUT("/settings", h.SaveSettings)
		admin.PUT("/config/gemini-key", h.SetGeminiKey)

		admin.POST("/shifts/assign", h.AssignShift)
		admin.POST("/shifts/remove", h.RemoveFromShift)
		admin.POST("/shifts/clear-day", h.ClearDay)
		admin.POST("/shifts/clear-all", h.ClearAllShifts)

		admin.POST("/schedule/confirm", h.ConfirmSchedule)
		admin.POST("/schedule/draft", h.ReopenSchedule)

		admin.POST("/requests/:id/approve", h.ApproveRequest)
		admin.POST("/requests/:id/deny", h.DenyRequest)
		admin.POST("/requests/prune", h.PruneRequests)

		admin.POST("/ai/generate", h.GenerateProposal)
		admin.POST("/ai/baseline", h.BaselineProposal)
		admin.POST("/ai/apply", h.ApplyProposal)
		admin.GET("/ai/test", h.TestGemini)

		admin.GET("/export", h.ExportData)
		admin.POST("/import", h.ImportData)
		admin.POST("/reset", h.ResetData)
	}

	api := r.Group("/api")
	{
		api.GET("/state", h.GetState)
		api.GET("/config", h.GetConfig)
		api.GET("/settings", h.GetSettings)

		api.GET("/staff", h.ListStaff)
		api.GET("/staff/stats", h.StaffStats)
		api.POST("/staff/select", h.SelectStaff)

		api.GET("/shifts", h.GetShifts)

		api.GET("/requests", h.ListRequests)
		api.POST("/requests", h.SubmitRequest)
		api.PUT("/requests/:id", h.EditRequest)
		api.DELETE("/requests/:id", h.DeleteRequest)

		reports := api.Group("/reports")
		{
			reports.GET("/summary", h.SummaryReport)
			reports.GET("/calendar", h.CalendarReport)
			reports.GET("/coverage", h.CoverageReport)
			reports.GET("/understaffed", h.UnderstaffedReport)
			reports.GET("/conflicts", h.ConflictsReport)
			reports.GET("/violations", h.ViolationsReport)
			reports.GET("/utilization", h.UtilizationReport)
			reports.GET("/stretches", h.StretchesReport)
		}
	}

	return r
}

// fail maps a store error to an HTTP status and JSON body.
func fail(c *gin.Context, err error) {
	var vErr *store.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "fields": vErr.Fields})
		return
	}
	var uErr *store.UnderstaffedError
	if errors.As(err, &uErr) {
		c.JSON(http.StatusConflict, gin.H{"error": uErr.Error(), "dates": uErr.Dates})
		return
	}

	switch {
	case errors.Is(err, store.ErrStaffNotFound), errors.Is(err, store.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidDate), errors.Is(err, storage.ErrInvalidImport):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrStaffHasShifts),
		errors.Is(err, store.ErrDuplicateName),
		errors.Is(err, store.ErrDuplicateRequest),
		errors.Is(err, store.ErrScheduleConfirmed),
		errors.Is(err, store.ErrAlreadyAssigned),
		errors.Is(err, store.ErrOppositeShift),
		errors.Is(err, store.ErrNotAssigned),
		errors.Is(err, store.ErrRequestProcessed),
		errors.Is(err, store.ErrProposalUnusable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gemini.ErrNoAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
