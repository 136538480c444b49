package participant

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
)

var (
	ErrOrganizerNotFound = errors.New("organizer not found")
	ErrWrongPassword     = errors.New("current password is incorrect")
)

type Service struct {
	AuthRepo auth.Repository
	AuditSvc auditlog.Service
}

func NewService(authRepo auth.Repository, auditSvc auditlog.Service) *Service {
	return &Service{AuthRepo: authRepo, AuditSvc: auditSvc}
}

// UpdateProfileRequest leaves identity fields alone: email and
// participant type are fixed at registration.
type UpdateProfileRequest struct {
	FirstName     *string   `json:"firstName"`
	LastName      *string   `json:"lastName"`
	ContactNumber *string   `json:"contactNumber"`
	CollegeName   *string   `json:"collegeName"`
	Interests     *[]string `json:"interests"`
}

func (s *Service) UpdateProfile(req *UpdateProfileRequest, p *auth.Participant, ip string) (*auth.Participant, error) {
	if req.FirstName != nil {
		if *req.FirstName == "" {
			return nil, errors.New("first name cannot be empty")
		}
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.ContactNumber != nil {
		p.ContactNumber = *req.ContactNumber
	}
	if req.CollegeName != nil && p.ParticipantType == auth.TypeNonIIIT {
		p.CollegeName = *req.CollegeName
	}
	if req.Interests != nil {
		p.Interests = *req.Interests
	}

	if err := s.AuthRepo.SaveParticipant(p); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "PROFILE_UPDATED",
		map[string]interface{}{"participant_id": p.ID}, ip, "success")

	return p, nil
}

// Follow adds the organizer to the participant's followed list; already
// following is a no-op.
func (s *Service) Follow(organizerID uint, p *auth.Participant, ip string) (*auth.Participant, error) {
	if _, err := s.AuthRepo.FindOrganizerByID(organizerID); err != nil {
		return nil, ErrOrganizerNotFound
	}

	for _, id := range p.FollowedOrganizers {
		if id == int64(organizerID) {
			return p, nil
		}
	}

	p.FollowedOrganizers = append(p.FollowedOrganizers, int64(organizerID))
	if err := s.AuthRepo.SaveParticipant(p); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "ORGANIZER_FOLLOWED",
		map[string]interface{}{"organizer_id": organizerID}, ip, "success")

	return p, nil
}

// Unfollow removes the organizer from the followed list; not following
// is a no-op.
func (s *Service) Unfollow(organizerID uint, p *auth.Participant, ip string) (*auth.Participant, error) {
	kept := p.FollowedOrganizers[:0]
	removed := false
	for _, id := range p.FollowedOrganizers {
		if id == int64(organizerID) {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return p, nil
	}

	p.FollowedOrganizers = kept
	if err := s.AuthRepo.SaveParticipant(p); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "ORGANIZER_UNFOLLOWED",
		map[string]interface{}{"organizer_id": organizerID}, ip, "success")

	return p, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(current, next string, p *auth.Participant, ip string) error {
	if len(next) < 8 {
		return errors.New("new password must be at least 8 characters")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.PasswordHash = string(hash)
	if err := s.AuthRepo.SaveParticipant(p); err != nil {
		return err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "PASSWORD_CHANGED",
		map[string]interface{}{"participant_id": p.ID}, ip, "success")

	return nil
}
