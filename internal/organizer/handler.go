package organizer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func requireOrganizer(c *gin.Context) (*auth.Organizer, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return nil, false
	}
	if principal.Organizer == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "organizer account required"})
		return nil, false
	}
	return principal.Organizer, true
}

// Profile - GET /organizer/profile
func (h *Handler) Profile(c *gin.Context) {
	o, ok := requireOrganizer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateProfile - PUT /organizer/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	o, ok := requireOrganizer(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	updated, err := h.Service.UpdateProfile(&req, o, middleware.GetIPFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Dashboard - GET /organizer/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	o, ok := requireOrganizer(c)
	if !ok {
		return
	}

	dash, err := h.Service.Dashboard(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, dash)
}

type resetRequestInput struct {
	Reason string `json:"reason"`
}

// RequestReset - POST /organizer/reset-requests
func (h *Handler) RequestReset(c *gin.Context) {
	o, ok := requireOrganizer(c)
	if !ok {
		return
	}

	var in resetRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	req, err := h.Service.RequestPasswordReset(in.Reason, o, middleware.GetIPFromContext(c))
	if err != nil {
		if errors.Is(err, ErrResetPending) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// MyResetRequests - GET /organizer/reset-requests
func (h *Handler) MyResetRequests(c *gin.Context) {
	o, ok := requireOrganizer(c)
	if !ok {
		return
	}

	requests, err := h.Service.MyResetRequests(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reset requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

type announceInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Announce - POST /organizer/announce
func (h *Handler) Announce(c *gin.Context) {
	o, ok := requireOrganizer(c)
	if !ok {
		return
	}

	var in announceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	if err := h.Service.Announce(c.Request.Context(), in.Title, in.Body, o, middleware.GetIPFromContext(c)); err != nil {
		if errors.Is(err, ErrNoWebhook) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "announcement queued"})
}

// Directory - GET /organizers (public)
func (h *Handler) Directory(c *gin.Context) {
	profiles, err := h.Service.Directory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list organizers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizers": profiles})
}
