package participant

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

func requireParticipant(c *gin.Context) (*auth.Participant, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return nil, false
	}
	if principal.Participant == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "participant account required"})
		return nil, false
	}
	return principal.Participant, true
}

// Profile - GET /participant/profile
func (h *Handler) Profile(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile - PUT /participant/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	updated, err := h.Service.UpdateProfile(&req, p, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func organizerIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organizer id"})
		return 0, false
	}
	return uint(id), true
}

// Follow - POST /participant/follow/:id
func (h *Handler) Follow(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}
	id, ok := organizerIDParam(c)
	if !ok {
		return
	}

	updated, err := h.Service.Follow(id, p, middleware.GetIPFromContext(c))
	if err != nil {
		if errors.Is(err, ErrOrganizerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"followed_organizers": updated.FollowedOrganizers})
}

// Unfollow - DELETE /participant/follow/:id
func (h *Handler) Unfollow(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}
	id, ok := organizerIDParam(c)
	if !ok {
		return
	}

	updated, err := h.Service.Unfollow(id, p, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"followed_organizers": updated.FollowedOrganizers})
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword - POST /participant/change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}

	var in changePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	if err := h.Service.ChangePassword(in.CurrentPassword, in.NewPassword, p, middleware.GetIPFromContext(c)); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
