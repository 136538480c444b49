package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/arpitmofficial/fest-management-system/config"
	"github.com/arpitmofficial/fest-management-system/database"
	"github.com/arpitmofficial/fest-management-system/internal/admin"
	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/internal/feedback"
	"github.com/arpitmofficial/fest-management-system/internal/notification"
	"github.com/arpitmofficial/fest-management-system/internal/organizer"
	"github.com/arpitmofficial/fest-management-system/internal/participant"
	"github.com/arpitmofficial/fest-management-system/internal/payment"
	"github.com/arpitmofficial/fest-management-system/internal/ticket"
	"github.com/arpitmofficial/fest-management-system/routes"
	"github.com/arpitmofficial/fest-management-system/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("Redis unavailable, trending cache disabled: %v", err)
	}
	utils.InitializeKafka(cfg)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&auth.Admin{},
		&auth.Organizer{},
		&auth.Participant{},
		&auth.PasswordResetRequest{},
		&auditlog.AuditLog{},
		&event.Event{},
		&event.MerchandiseVariant{},
		&ticket.Ticket{},
		&feedback.Feedback{},
	); err != nil {
		log.Fatalf("DB AutoMigrate failed: %v", err)
	}

	// Repositories and services
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg)

	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)

	publisher := notification.NewPublisher()
	notification.NewConsumer(cfg).Start(context.Background())

	eventRepo := event.NewRepository(db)
	eventSvc := event.NewService(eventRepo, authRepo, auditSvc, publisher)

	gateway := payment.NewGateway(cfg)

	ticketRepo := ticket.NewRepository(db)
	ticketSvc := ticket.NewService(ticketRepo, eventRepo, gateway, auditSvc)

	feedbackRepo := feedback.NewRepository(db)
	feedbackSvc := feedback.NewService(feedbackRepo, eventRepo, ticketRepo, auditSvc)

	organizerRepo := organizer.NewRepository(db)
	organizerSvc := organizer.NewService(organizerRepo, eventRepo, publisher, auditSvc)

	participantSvc := participant.NewService(authRepo, auditSvc)

	adminRepo := admin.NewRepository(db)
	adminSvc := admin.NewService(adminRepo, eventRepo, ticketRepo, auditSvc)

	// HTTP wiring
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
	}))

	handlers := &routes.Handlers{
		Auth:        auth.NewHandler(authSvc),
		Event:       event.NewHandler(eventSvc),
		Ticket:      ticket.NewHandler(ticketSvc),
		Feedback:    feedback.NewHandler(feedbackSvc),
		Organizer:   organizer.NewHandler(organizerSvc),
		Participant: participant.NewHandler(participantSvc),
		Admin:       admin.NewHandler(adminSvc),
		AuditLog:    auditlog.NewHandler(auditSvc),
	}
	routes.Setup(r, cfg, authSvc, handlers)

	log.Printf("Listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
