package admin

import (
	"errors"
	"net/http"
	"strconv"

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

func requireAdmin(c *gin.Context) (*auth.Admin, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return nil, false
	}
	if principal.Admin == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin account required"})
		return nil, false
	}
	return principal.Admin, true
}

// ProvisionOrganizer - POST /admin/organizers
func (h *Handler) ProvisionOrganizer(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	resp, err := h.Service.ProvisionOrganizer(&req, admin, middleware.GetIPFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListOrganizers - GET /admin/organizers
func (h *Handler) ListOrganizers(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	organizers, err := h.Service.ListOrganizers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list organizers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizers": organizers})
}

// DeleteOrganizer - DELETE /admin/organizers/:id
func (h *Handler) DeleteOrganizer(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organizer id"})
		return
	}

	if err := h.Service.DeleteOrganizer(uint(id), admin, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "organizer deleted"})
}

// ListResetRequests - GET /admin/reset-requests?status=pending
func (h *Handler) ListResetRequests(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	requests, err := h.Service.ListResetRequests(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reset requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ProcessResetRequest - POST /admin/reset-requests/:id
func (h *Handler) ProcessResetRequest(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var decision ResetDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	outcome, err := h.Service.ProcessResetRequest(uint(id), &decision, admin, middleware.GetIPFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrRequestClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// Dashboard - GET /admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	stats, err := h.Service.Dashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
