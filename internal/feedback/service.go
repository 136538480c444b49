package feedback

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/internal/ticket"
)

var (
	ErrNoConfirmedTicket = errors.New("feedback requires a confirmed or attended ticket for this event")
	ErrAlreadySubmitted  = errors.New("feedback already submitted for this event")
	ErrNotEventOwner     = errors.New("feedback belongs to another organizer's event")
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

// Submit records one rating per event; the caller needs a confirmed or
// attended ticket.
func (s *Service) Submit(req *SubmitRequest, p *auth.Participant, ip string) (*Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	if _, err := s.EventRepo.GetByID(req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrNotFound
		}
		return nil, err
	}

	qualified, err := s.TicketRepo.HasConfirmedOrAttended(req.EventID, p.ID)
	if err != nil {
		return nil, err
	}
	if !qualified {
		return nil, ErrNoConfirmedTicket
	}

	if exists, err := s.Repo.Exists(req.EventID, p.ID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAlreadySubmitted
	}

	f := &Feedback{
		EventID:       req.EventID,
		ParticipantID: p.ID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := s.Repo.Create(f); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "FEEDBACK_SUBMITTED",
		map[string]interface{}{"event_id": req.EventID, "rating": req.Rating}, ip, "success")

	return f, nil
}

// ForOrganizer returns anonymized feedback with the on-read stats; the
// event must belong to the caller.
func (s *Service) ForOrganizer(eventID uint, organizer *auth.Organizer) ([]AnonymousFeedback, *Stats, error) {
	e, err := s.EventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, event.ErrNotFound
		}
		return nil, nil, err
	}
	if e.OrganizerID != organizer.ID {
		return nil, nil, ErrNotEventOwner
	}

	list, err := s.Repo.ListByEvent(eventID)
	if err != nil {
		return nil, nil, err
	}

	anon := make([]AnonymousFeedback, 0, len(list))
	for _, f := range list {
		anon = append(anon, AnonymousFeedback{Rating: f.Rating, Comment: f.Comment, CreatedAt: f.CreatedAt})
	}
	return anon, ComputeStats(list), nil
}

// ComputeStats rolls up count, mean and rating histogram. Nothing is
// stored; callers always get fresh numbers.
func ComputeStats(list []Feedback) *Stats {
	stats := &Stats{Histogram: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(list) == 0 {
		return stats
	}

	sum := 0
	for _, f := range list {
		sum += f.Rating
		stats.Histogram[f.Rating]++
	}
	stats.Count = len(list)
	stats.AverageRating = float64(sum) / float64(len(list))
	return stats
}
