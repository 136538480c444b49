package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/utils"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrNotOwner      = errors.New("not authorized to manage this event")
	ErrBadTransition = errors.New("status change not permitted from the current state")
)

const trendingCacheKey = "events:trending"

// Notifier delivers publish announcements to an organizer-configured
// webhook, fire-and-forget.
type Notifier interface {
	EventPublished(ctx context.Context, webhookURL, organizerName string, e *Event)
}

type Service struct {
	Repo     *Repository
	AuthRepo auth.Repository
	AuditSvc auditlog.Service
	Notifier Notifier
}

func NewService(r *Repository, authRepo auth.Repository, auditSvc auditlog.Service, notifier Notifier) *Service {
	return &Service{
		Repo:     r,
		AuthRepo: authRepo,
		AuditSvc: auditSvc,
		Notifier: notifier,
	}
}

func (s *Service) Create(req *CreateEventRequest, organizer *auth.Organizer, ip string) (*Event, error) {
	if req.EventName == "" || req.Description == "" {
		return nil, errors.New("event name and description are required")
	}
	if req.EventType != TypeNormal && req.EventType != TypeMerchandise {
		return nil, fmt.Errorf("unknown event type %q", req.EventType)
	}
	eligibility := req.Eligibility
	if eligibility == "" {
		eligibility = EligibilityAll
	}
	switch eligibility {
	case EligibilityAll, EligibilityIIIT, EligibilityNonIIIT:
	default:
		return nil, fmt.Errorf("unknown eligibility %q", eligibility)
	}
	if req.RegistrationDeadline.IsZero() || req.EventStartDate.IsZero() || req.EventEndDate.IsZero() {
		return nil, errors.New("registration deadline, start date and end date are required")
	}
	if req.EventEndDate.Before(req.EventStartDate) {
		return nil, errors.New("event end date is before the start date")
	}
	for _, f := range req.CustomFields {
		if !validFieldType(f.FieldType) {
			return nil, fmt.Errorf("unknown form field type %q", f.FieldType)
		}
	}

	fieldsJSON, err := json.Marshal(req.CustomFields)
	if err != nil {
		return nil, err
	}

	purchaseLimit := 1
	if req.PurchaseLimit != nil && *req.PurchaseLimit > 0 {
		purchaseLimit = *req.PurchaseLimit
	}

	e := &Event{
		EventName:                   req.EventName,
		Description:                 req.Description,
		EventType:                   req.EventType,
		Eligibility:                 eligibility,
		RegistrationDeadline:        req.RegistrationDeadline,
		EventStartDate:              req.EventStartDate,
		EventEndDate:                req.EventEndDate,
		RegistrationLimit:           req.RegistrationLimit,
		RegistrationFee:             req.RegistrationFee,
		OrganizerID:                 organizer.ID,
		EventTags:                   req.EventTags,
		Status:                      StatusDraft,
		CustomFields:                fieldsJSON,
		Variants:                    req.Variants,
		PurchaseLimitPerParticipant: purchaseLimit,
	}

	if err := s.Repo.Create(e); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &organizer.ID, auth.RoleOrganizer, "EVENT_CREATED",
		map[string]interface{}{"event_id": e.ID, "event_name": e.EventName, "event_type": e.EventType},
		ip, "success")

	return e, nil
}

func (s *Service) List(f ListFilters) ([]Event, error) {
	return s.Repo.List(f)
}

// Trending serves the top-5 published events through a short redis
// cache; a cold or unavailable cache falls through to the database.
func (s *Service) Trending(ctx context.Context) ([]Event, error) {
	if cached, err := utils.CacheGet(ctx, trendingCacheKey); err == nil {
		var events []Event
		if json.Unmarshal([]byte(cached), &events) == nil {
			return events, nil
		}
	}

	events, err := s.Repo.Trending(5)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(events); err == nil {
		_ = utils.CacheSet(ctx, trendingCacheKey, string(payload), time.Minute)
	}

	return events, nil
}

// GetPublic returns one event and bumps its view counter. Drafts stay
// invisible to everyone but their organizer and admins.
func (s *Service) GetPublic(id uint, viewer *auth.Principal) (*Event, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if e.Status == StatusDraft {
		owner := viewer != nil && viewer.Role == auth.RoleOrganizer &&
			viewer.Organizer != nil && viewer.Organizer.ID == e.OrganizerID
		admin := viewer != nil && viewer.Role == auth.RoleAdmin
		if !owner && !admin {
			return nil, ErrNotFound
		}
	}

	if err := s.Repo.IncrementViewCount(id); err == nil {
		e.ViewCount++
	}

	if org, err := s.AuthRepo.FindOrganizerByID(e.OrganizerID); err == nil {
		e.OrganizerName = org.OrganizerName
		e.OrganizerCategory = org.Category
	}

	return e, nil
}

func (s *Service) getOwned(id uint, organizer *auth.Organizer) (*Event, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.OrganizerID != organizer.ID {
		return nil, ErrNotOwner
	}
	return e, nil
}

func (s *Service) Update(id uint, req *UpdateEventRequest, organizer *auth.Organizer, ip string) (*Event, error) {
	e, err := s.getOwned(id, organizer)
	if err != nil {
		return nil, err
	}

	if err := ValidateUpdate(req, e.Status, e.FormLocked); err != nil {
		return nil, err
	}
	if req.Status != nil && !ValidTransition(e.Status, *req.Status) {
		return nil, ErrBadTransition
	}

	if req.EventName != nil {
		e.EventName = *req.EventName
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.EventType != nil {
		e.EventType = *req.EventType
	}
	if req.Eligibility != nil {
		e.Eligibility = *req.Eligibility
	}
	if req.RegistrationDeadline != nil {
		e.RegistrationDeadline = *req.RegistrationDeadline
	}
	if req.EventStartDate != nil {
		e.EventStartDate = *req.EventStartDate
	}
	if req.EventEndDate != nil {
		e.EventEndDate = *req.EventEndDate
	}
	if req.RegistrationLimit != nil {
		e.RegistrationLimit = req.RegistrationLimit
	}
	if req.RegistrationFee != nil {
		e.RegistrationFee = *req.RegistrationFee
	}
	if req.EventTags != nil {
		e.EventTags = *req.EventTags
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if req.CustomFields != nil {
		fieldsJSON, err := json.Marshal(*req.CustomFields)
		if err != nil {
			return nil, err
		}
		e.CustomFields = fieldsJSON
	}
	if req.PurchaseLimit != nil && *req.PurchaseLimit > 0 {
		e.PurchaseLimitPerParticipant = *req.PurchaseLimit
	}

	if req.Variants != nil {
		if err := s.Repo.ReplaceVariants(e.ID, *req.Variants); err != nil {
			return nil, err
		}
	}

	// Variants are managed through ReplaceVariants; clearing the slice
	// keeps Save from re-inserting stale children.
	e.Variants = nil
	if err := s.Repo.Save(e); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &organizer.ID, auth.RoleOrganizer, "EVENT_UPDATED",
		map[string]interface{}{"event_id": e.ID, "status": e.Status}, ip, "success")

	return s.Repo.GetByID(e.ID)
}

// Publish moves a draft to published and announces it on the organizer's
// webhook when one is configured.
func (s *Service) Publish(id uint, organizer *auth.Organizer, ip string) (*Event, error) {
	e, err := s.getOwned(id, organizer)
	if err != nil {
		return nil, err
	}

	if e.Status != StatusDraft {
		return nil, errors.New("only draft events can be published")
	}

	e.Status = StatusPublished
	e.Variants = nil
	if err := s.Repo.Save(e); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &organizer.ID, auth.RoleOrganizer, "EVENT_PUBLISHED",
		map[string]interface{}{"event_id": e.ID, "event_name": e.EventName}, ip, "success")

	if s.Notifier != nil && organizer.DiscordWebhook != "" {
		s.Notifier.EventPublished(context.Background(), organizer.DiscordWebhook, organizer.OrganizerName, e)
	}

	return s.Repo.GetByID(e.ID)
}

func (s *Service) Delete(id uint, organizer *auth.Organizer, ip string) error {
	e, err := s.getOwned(id, organizer)
	if err != nil {
		return err
	}

	if e.Status != StatusDraft {
		return errors.New("only draft events can be deleted")
	}

	if err := s.Repo.Delete(e.ID); err != nil {
		return err
	}

	s.AuditSvc.LogAction(context.Background(), &organizer.ID, auth.RoleOrganizer, "EVENT_DELETED",
		map[string]interface{}{"event_id": e.ID, "event_name": e.EventName}, ip, "success")

	return nil
}

func (s *Service) MyEvents(organizer *auth.Organizer) ([]Event, error) {
	return s.Repo.ListByOrganizer(organizer.ID)
}

func (s *Service) Participants(id uint, organizer *auth.Organizer) ([]ParticipantRow, error) {
	e, err := s.getOwned(id, organizer)
	if err != nil {
		return nil, err
	}
	return s.Repo.Participants(e.ID)
}

func (s *Service) Analytics(id uint, organizer *auth.Organizer) (*AnalyticsResponse, error) {
	e, err := s.getOwned(id, organizer)
	if err != nil {
		return nil, err
	}
	return s.Repo.Analytics(e)
}
