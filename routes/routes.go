package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/arpitmofficial/fest-management-system/config"
	"github.com/arpitmofficial/fest-management-system/internal/admin"
	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/internal/feedback"
	"github.com/arpitmofficial/fest-management-system/internal/organizer"
	"github.com/arpitmofficial/fest-management-system/internal/participant"
	"github.com/arpitmofficial/fest-management-system/internal/ticket"
	"github.com/arpitmofficial/fest-management-system/middleware"
)

// Handlers bundles everything Setup mounts.
type Handlers struct {
	Auth        *auth.Handler
	Event       *event.Handler
	Ticket      *ticket.Handler
	Feedback    *feedback.Handler
	Organizer   *organizer.Handler
	Participant *participant.Handler
	Admin       *admin.Handler
	AuditLog    *auditlog.Handler
}

// Setup mounts the whole API under /api/v1.
func Setup(r *gin.Engine, cfg *config.Config, authSvc auth.Service, h *Handlers) {
	r.Use(middleware.RateLimiter())
	r.Use(middleware.RequestMeta())

	api := r.Group("/api/v1")

	// Public
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/organizers", h.Organizer.Directory)

	// Public event browsing; a bearer token, when present, unlocks the
	// followed-organizers filter and draft visibility for owners.
	events := api.Group("/events")
	events.Use(middleware.OptionalAuth(cfg, authSvc))
	{
		events.GET("", h.Event.List)
		events.GET("/trending", h.Event.Trending)
		events.GET("/:id", h.Event.Get)
		events.GET("/:id/calendar", h.Event.Calendar)
	}

	// Any authenticated principal; ownership is checked in the service.
	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		authed.GET("/tickets/:ticketId", h.Ticket.Get)
	}

	// Participant routes
	part := api.Group("/")
	part.Use(middleware.AuthMiddleware(cfg, authSvc), middleware.RBACMiddleware(auth.RoleParticipant))
	{
		part.GET("/participant/profile", h.Participant.Profile)
		part.PUT("/participant/profile", h.Participant.UpdateProfile)
		part.POST("/participant/change-password", h.Participant.ChangePassword)
		part.POST("/participant/follow/:id", h.Participant.Follow)
		part.DELETE("/participant/follow/:id", h.Participant.Unfollow)

		part.POST("/tickets/register", h.Ticket.Register)
		part.POST("/tickets/purchase", h.Ticket.Purchase)
		part.GET("/tickets", h.Ticket.MyTickets)
		part.POST("/tickets/:ticketId/cancel", h.Ticket.Cancel)
		part.GET("/tickets/:ticketId/receipt", h.Ticket.Receipt)

		part.POST("/feedback", h.Feedback.Submit)
	}

	// Organizer routes
	org := api.Group("/")
	org.Use(middleware.AuthMiddleware(cfg, authSvc), middleware.RBACMiddleware(auth.RoleOrganizer))
	{
		org.GET("/organizer/profile", h.Organizer.Profile)
		org.PUT("/organizer/profile", h.Organizer.UpdateProfile)
		org.GET("/organizer/dashboard", h.Organizer.Dashboard)
		org.POST("/organizer/reset-requests", h.Organizer.RequestReset)
		org.GET("/organizer/reset-requests", h.Organizer.MyResetRequests)
		org.POST("/organizer/announce", h.Organizer.Announce)
		org.GET("/organizer/events", h.Event.MyEvents)

		org.POST("/events", h.Event.Create)
		org.PUT("/events/:id", h.Event.Update)
		org.DELETE("/events/:id", h.Event.Delete)
		org.POST("/events/:id/publish", h.Event.Publish)
		org.GET("/events/:id/participants", h.Event.Participants)
		org.GET("/events/:id/participants/export", h.Event.ExportParticipants)
		org.GET("/events/:id/analytics", h.Event.Analytics)
		org.GET("/events/:id/feedback", h.Feedback.ForEvent)
		org.GET("/events/:id/payments/pending", h.Ticket.PendingPayments)

		org.GET("/tickets/:ticketId/verify", h.Ticket.Verify)
		org.POST("/tickets/:ticketId/attend", h.Ticket.MarkAttendance)
		org.POST("/tickets/:ticketId/payment", h.Ticket.DecidePayment)
	}

	// Admin routes
	adm := api.Group("/admin")
	adm.Use(middleware.AuthMiddleware(cfg, authSvc), middleware.RBACMiddleware(auth.RoleAdmin))
	{
		adm.GET("/dashboard", h.Admin.Dashboard)
		adm.POST("/organizers", h.Admin.ProvisionOrganizer)
		adm.GET("/organizers", h.Admin.ListOrganizers)
		adm.DELETE("/organizers/:id", h.Admin.DeleteOrganizer)
		adm.GET("/reset-requests", h.Admin.ListResetRequests)
		adm.POST("/reset-requests/:id", h.Admin.ProcessResetRequest)
		adm.GET("/auditlogs", h.AuditLog.GetAuditLogs)
	}
}
