package organizer

import (
	"context"
	"errors"

	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/internal/notification"
)

var (
	ErrNameTaken    = errors.New("an organizer with this name already exists")
	ErrResetPending = errors.New("a password reset request is already pending")
	ErrNoWebhook    = errors.New("no webhook configured for this account")
)

type Service struct {
	Repo      *Repository
	EventRepo *event.Repository
	Publisher *notification.Publisher
	AuditSvc  auditlog.Service
}

func NewService(r *Repository, eventRepo *event.Repository, publisher *notification.Publisher, auditSvc auditlog.Service) *Service {
	return &Service{Repo: r, EventRepo: eventRepo, Publisher: publisher, AuditSvc: auditSvc}
}

// UpdateProfileRequest uses pointers so absent fields are left alone.
// The login email is not here: it is derived at provisioning and never
// changes.
type UpdateProfileRequest struct {
	OrganizerName  *string `json:"organizerName"`
	Category       *string `json:"category"`
	CollegeName    *string `json:"collegeName"`
	Description    *string `json:"description"`
	ContactEmail   *string `json:"contactEmail"`
	ContactNumber  *string `json:"contactNumber"`
	DiscordWebhook *string `json:"discordWebhook"`
}

func (s *Service) UpdateProfile(req *UpdateProfileRequest, o *auth.Organizer, ip string) (*auth.Organizer, error) {
	if req.OrganizerName != nil && *req.OrganizerName != o.OrganizerName {
		if *req.OrganizerName == "" {
			return nil, errors.New("organizer name cannot be empty")
		}
		taken, err := s.Repo.NameTakenByOther(*req.OrganizerName, o.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNameTaken
		}
		o.OrganizerName = *req.OrganizerName
	}
	if req.Category != nil {
		o.Category = *req.Category
	}
	if req.CollegeName != nil {
		o.CollegeName = *req.CollegeName
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.ContactEmail != nil {
		o.ContactEmail = *req.ContactEmail
	}
	if req.ContactNumber != nil {
		o.ContactNumber = *req.ContactNumber
	}
	if req.DiscordWebhook != nil {
		o.DiscordWebhook = *req.DiscordWebhook
	}

	if err := s.Repo.Save(o); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &o.ID, auth.RoleOrganizer, "PROFILE_UPDATED",
		map[string]interface{}{"organizer_id": o.ID}, ip, "success")

	return o, nil
}

// Dashboard aggregates the organizer's events with per-status counts.
type Dashboard struct {
	Stats  *event.OrganizerStats `json:"stats"`
	Events []event.Event         `json:"events"`
}

func (s *Service) Dashboard(o *auth.Organizer) (*Dashboard, error) {
	stats, events, err := s.EventRepo.StatsByOrganizer(o.ID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, Events: events}, nil
}

// RequestPasswordReset opens a reset request for admin review. At most
// one request may be pending at a time.
func (s *Service) RequestPasswordReset(reason string, o *auth.Organizer, ip string) (*auth.PasswordResetRequest, error) {
	if reason == "" {
		return nil, errors.New("a reason is required")
	}

	pending, err := s.Repo.HasPendingReset(o.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrResetPending
	}

	req := &auth.PasswordResetRequest{
		OrganizerID: o.ID,
		Reason:      reason,
		Status:      auth.ResetPending,
	}
	if err := s.Repo.CreateResetRequest(req); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &o.ID, auth.RoleOrganizer, "RESET_REQUESTED",
		map[string]interface{}{"request_id": req.ID}, ip, "success")

	return req, nil
}

func (s *Service) MyResetRequests(o *auth.Organizer) ([]auth.PasswordResetRequest, error) {
	return s.Repo.ListResetRequests(o.ID)
}

// Announce posts a manual message to the organizer's webhook through the
// notification pipeline.
func (s *Service) Announce(ctx context.Context, title, body string, o *auth.Organizer, ip string) error {
	if o.DiscordWebhook == "" {
		return ErrNoWebhook
	}
	if title == "" {
		return errors.New("a title is required")
	}

	if err := s.Publisher.Announce(ctx, o.DiscordWebhook, o.OrganizerName, title, body); err != nil {
		return err
	}

	s.AuditSvc.LogAction(context.Background(), &o.ID, auth.RoleOrganizer, "ANNOUNCEMENT_SENT",
		map[string]interface{}{"title": title}, ip, "success")

	return nil
}

// PublicProfile is what participants see in the organizer directory.
type PublicProfile struct {
	ID            uint   `json:"id"`
	OrganizerName string `json:"organizer_name"`
	Category      string `json:"category"`
	CollegeName   string `json:"college_name"`
	Description   string `json:"description"`
	ContactEmail  string `json:"contact_email"`
}

func (s *Service) Directory() ([]PublicProfile, error) {
	organizers, err := s.Repo.Directory()
	if err != nil {
		return nil, err
	}

	profiles := make([]PublicProfile, 0, len(organizers))
	for _, o := range organizers {
		profiles = append(profiles, PublicProfile{
			ID:            o.ID,
			OrganizerName: o.OrganizerName,
			Category:      o.Category,
			CollegeName:   o.CollegeName,
			Description:   o.Description,
			ContactEmail:  o.ContactEmail,
		})
	}
	return profiles, nil
}
