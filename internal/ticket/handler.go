package ticket

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
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
	switch {
	case errors.Is(err, event.ErrNotFound), errors.Is(err, ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotTicketOwner), errors.Is(err, ErrNotEventOwner), errors.Is(err, ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrCapacityFull), errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrPurchaseLimit), errors.Is(err, ErrDeadlinePassed),
		errors.Is(err, ErrEventNotOpen), errors.Is(err, ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// Register - POST /tickets/register
func (h *Handler) Register(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	t, err := h.Service.Register(&req, p, middleware.GetIPFromContext(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// Purchase - POST /tickets/purchase
func (h *Handler) Purchase(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	t, err := h.Service.Purchase(&req, p, middleware.GetIPFromContext(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// MyTickets - GET /tickets
func (h *Handler) MyTickets(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}

	tickets, err := h.Service.MyTickets(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// Get - GET /tickets/:ticketId
func (h *Handler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return
	}

	t, err := h.Service.Get(c.Param("ticketId"), &principal)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Cancel - POST /tickets/:ticketId/cancel
func (h *Handler) Cancel(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}

	if err := h.Service.Cancel(c.Param("ticketId"), p, middleware.GetIPFromContext(c)); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ticket cancelled"})
}

// Receipt - GET /tickets/:ticketId/receipt
func (h *Handler) Receipt(c *gin.Context) {
	p, ok := requireParticipant(c)
	if !ok {
		return
	}

	data, filename, err := h.Service.Receipt(c.Param("ticketId"), p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// PendingPayments - GET /events/:id/payments/pending
func (h *Handler) PendingPayments(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	tickets, err := h.Service.PendingPayments(uint(eventID), organizer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

type paymentDecision struct {
	Approve bool `json:"approve"`
}

// DecidePayment - POST /tickets/:ticketId/payment
func (h *Handler) DecidePayment(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}

	var req paymentDecision
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	t, err := h.Service.DecidePayment(c.Param("ticketId"), req.Approve, organizer, middleware.GetIPFromContext(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Verify - GET /tickets/:ticketId/verify
func (h *Handler) Verify(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}

	resp, err := h.Service.Verify(c.Param("ticketId"), organizer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkAttendance - POST /tickets/:ticketId/attend
func (h *Handler) MarkAttendance(c *gin.Context) {
	organizer, ok := requireOrganizer(c)
	if !ok {
		return
	}

	t, err := h.Service.MarkAttendance(c.Param("ticketId"), organizer, middleware.GetIPFromContext(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}
