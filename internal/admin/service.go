package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/internal/ticket"
)

const loginEmailDomain = "@felicity.iiit.ac.in"

var (
	ErrNameTaken       = errors.New("an organizer with this name already exists")
	ErrRequestNotFound = errors.New("password reset request not found")
	ErrRequestClosed   = errors.New("password reset request was already processed")
)

type Service struct {
	Repo       *Repository
	EventRepo  *event.Repository
	TicketRepo *ticket.Repository
	AuditSvc   auditlog.Service
}

func NewService(r *Repository, eventRepo *event.Repository, ticketRepo *ticket.Repository, auditSvc auditlog.Service) *Service {
	return &Service{Repo: r, EventRepo: eventRepo, TicketRepo: ticketRepo, AuditSvc: auditSvc}
}

// DeriveLoginEmail builds the fixed login address from the organizer
// name: lowercased, spaces collapsed to underscores.
func DeriveLoginEmail(organizerName string) string {
	slug := strings.ToLower(strings.TrimSpace(organizerName))
	slug = strings.Join(strings.Fields(slug), "_")
	return slug + loginEmailDomain
}

// GeneratePassword draws 8 random bytes and hex-encodes them. The
// plaintext is shown exactly once, in the provisioning response.
func GeneratePassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type ProvisionRequest struct {
	OrganizerName string `json:"organizerName"`
	Category      string `json:"category"`
	CollegeName   string `json:"collegeName"`
	Description   string `json:"description"`
	ContactEmail  string `json:"contactEmail"`
	ContactNumber string `json:"contactNumber"`
}

// ProvisionResponse carries the one-time credentials next to the record.
type ProvisionResponse struct {
	Organizer  *auth.Organizer `json:"organizer"`
	LoginEmail string          `json:"login_email"`
	Password   string          `json:"password"`
}

// ProvisionOrganizer creates an organizer account with derived login
// credentials.
func (s *Service) ProvisionOrganizer(req *ProvisionRequest, admin *auth.Admin, ip string) (*ProvisionResponse, error) {
	if req.OrganizerName == "" || req.Category == "" || req.ContactEmail == "" {
		return nil, errors.New("organizer name, category and contact email are required")
	}

	if taken, err := s.Repo.OrganizerNameTaken(req.OrganizerName); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrNameTaken
	}

	loginEmail := DeriveLoginEmail(req.OrganizerName)
	if taken, err := s.Repo.LoginEmailTaken(loginEmail); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrNameTaken
	}

	password, err := GeneratePassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	college := req.CollegeName
	if college == "" {
		college = "IIIT Hyderabad"
	}

	o := &auth.Organizer{
		LoginEmail:    loginEmail,
		PasswordHash:  string(hash),
		OrganizerName: req.OrganizerName,
		Category:      req.Category,
		CollegeName:   college,
		Description:   req.Description,
		ContactEmail:  req.ContactEmail,
		ContactNumber: req.ContactNumber,
	}
	if err := s.Repo.CreateOrganizer(o); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &admin.ID, auth.RoleAdmin, "ORGANIZER_PROVISIONED",
		map[string]interface{}{"organizer_id": o.ID, "organizer_name": o.OrganizerName},
		ip, "success")

	return &ProvisionResponse{Organizer: o, LoginEmail: loginEmail, Password: password}, nil
}

func (s *Service) ListOrganizers() ([]auth.Organizer, error) {
	return s.Repo.ListOrganizers()
}

func (s *Service) DeleteOrganizer(id uint, admin *auth.Admin, ip string) error {
	if err := s.Repo.DeleteOrganizer(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("organizer not found")
		}
		return err
	}

	s.AuditSvc.LogAction(context.Background(), &admin.ID, auth.RoleAdmin, "ORGANIZER_DELETED",
		map[string]interface{}{"organizer_id": id}, ip, "success")
	return nil
}

func (s *Service) ListResetRequests(status string) ([]auth.PasswordResetRequest, error) {
	return s.Repo.ListResetRequests(status)
}

// ResetDecision is the admin's verdict on one reset request.
type ResetDecision struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}

// ResetOutcome returns the fresh credentials on approval; Password is
// empty for rejections.
type ResetOutcome struct {
	Request    *auth.PasswordResetRequest `json:"request"`
	LoginEmail string                     `json:"login_email,omitempty"`
	Password   string                     `json:"password,omitempty"`
}

// ProcessResetRequest approves (issuing a new one-time password) or
// rejects a pending request.
func (s *Service) ProcessResetRequest(id uint, decision *ResetDecision, admin *auth.Admin, ip string) (*ResetOutcome, error) {
	req, err := s.Repo.GetResetRequest(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.Status != auth.ResetPending {
		return nil, ErrRequestClosed
	}

	now := time.Now()
	req.AdminComment = decision.Comment
	req.ProcessedBy = &admin.ID
	req.ProcessedAt = &now

	outcome := &ResetOutcome{Request: req}

	if decision.Approve {
		if req.Organizer == nil {
			return nil, errors.New("reset request has no organizer attached")
		}

		password, err := GeneratePassword()
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		req.Organizer.PasswordHash = string(hash)
		if err := s.Repo.DB.Save(req.Organizer).Error; err != nil {
			return nil, err
		}

		req.Status = auth.ResetApproved
		outcome.LoginEmail = req.Organizer.LoginEmail
		outcome.Password = password
	} else {
		req.Status = auth.ResetRejected
	}

	if err := s.Repo.SaveResetRequest(req); err != nil {
		return nil, err
	}

	action := "RESET_REJECTED"
	if decision.Approve {
		action = "RESET_APPROVED"
	}
	s.AuditSvc.LogAction(context.Background(), &admin.ID, auth.RoleAdmin, action,
		map[string]interface{}{"request_id": req.ID, "organizer_id": req.OrganizerID}, ip, "success")

	return outcome, nil
}

// DashboardStats is the admin landing-page rollup.
type DashboardStats struct {
	Organizers    int64 `json:"organizers"`
	Participants  int64 `json:"participants"`
	Events        int64 `json:"events"`
	Tickets       int64 `json:"tickets"`
	PendingResets int64 `json:"pending_reset_requests"`
}

func (s *Service) Dashboard() (*DashboardStats, error) {
	organizers, err := s.Repo.CountOrganizers()
	if err != nil {
		return nil, err
	}
	participants, err := s.Repo.CountParticipants()
	if err != nil {
		return nil, err
	}
	events, err := s.EventRepo.CountAll()
	if err != nil {
		return nil, err
	}
	tickets, err := s.TicketRepo.CountAll()
	if err != nil {
		return nil, err
	}
	pending, err := s.Repo.CountPendingResets()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Organizers:    organizers,
		Participants:  participants,
		Events:        events,
		Tickets:       tickets,
		PendingResets: pending,
	}, nil
}
