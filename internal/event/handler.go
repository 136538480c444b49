package event

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/middleware"
)

type Handler struct {
	Service  *Service
	Exporter ParticipantExporter
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s, Exporter: NewParticipantExporter()}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
}

// requireOrganizer unwraps the principal set by the RBAC-gated group.
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

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var fieldErr *FieldNotPermittedError
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "field": fieldErr.Field})
	case errors.Is(err, ErrBadTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// List - GET /events
func (h *Handler) List(c *gin.Context) {
	var f ListFilters
	f.Search = c.Query("search")
	f.EventType = c.Query("eventType")
	f.Eligibility = c.Query("eligibility")
	f.Status = c.Query("status")

	if v := c.Query("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.StartDate = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.EndDate = &t
		}
	}
	if v := c.Query("organizerId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			f.OrganizerID = uint(id)
		}
	}

	// Only published and ongoing events are listable publicly, whatever
	// the status filter says.
	if f.Status != "" && f.Status != StatusPublished && f.Status != StatusOngoing {
		c.JSON(http.StatusOK, gin.H{"events": []Event{}})
		return
	}

	if c.Query("followed") == "true" {
		principal, ok := middleware.PeekPrincipal(c)
		if !ok || principal.Participant == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login as a participant to filter by followed organizers"})
			return
		}
		ids := principal.Participant.FollowedOrganizers
		if ids == nil {
			ids = []int64{}
		}
		f.FollowedIDs = ids
	}

	events, err := h.Service.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Trending - GET /events/trending
func (h *Handler) Trending(c *gin.Context) {
	events, err := h.Service.Trending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trending events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Get - GET /events/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var viewer *auth.Principal
	if principal, ok := middleware.PeekPrincipal(c); ok {
		viewer = &principal
	}

	e, err := h.Service.GetPublic(id, viewer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Calendar - GET /events/:id/calendar
func (h *Handler) Calendar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var viewer *auth.Principal
	if principal, ok := middleware.PeekPrincipal(c); ok {
		viewer = &principal
	}

	e, err := h.Service.GetPublic(id, viewer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("event_%d.ics", e.ID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/calendar", []byte(ICS(e)))
}

// Create - POST /events
func (h *Handler) Create(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.Create(&req, organizer, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, e)
}

// Update - PUT /events/:id
func (h *Handler) Update(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.Update(id, &req, organizer, middleware.GetIPFromContext(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

// Publish - POST /events/:id/publish
func (h *Handler) Publish(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.Service.Publish(id, organizer, middleware.GetIPFromContext(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

// Delete - DELETE /events/:id
func (h *Handler) Delete(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, organizer, middleware.GetIPFromContext(c)); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// MyEvents - GET /organizer/events
func (h *Handler) MyEvents(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}

	events, err := h.Service.MyEvents(organizer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Participants - GET /events/:id/participants
func (h *Handler) Participants(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	rows, err := h.Service.Participants(id, organizer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": rows})
}

// ExportParticipants - GET /events/:id/participants/export?format=csv|xlsx|pdf
func (h *Handler) ExportParticipants(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	rows, err := h.Service.Participants(id, organizer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	e, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	format := c.DefaultQuery("format", FormatCSV)
	data, filename, contentType, err := h.Exporter.Export(format, e, rows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// Analytics - GET /events/:id/analytics
func (h *Handler) Analytics(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.Service.Analytics(id, organizer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
