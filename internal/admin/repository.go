package admin

import (
	"gorm.io/gorm"

	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/internal/feedback"
	"github.com/arpitmofficial/fest-management-system/internal/ticket"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreateOrganizer(o *auth.Organizer) error {
	return r.DB.Create(o).Error
}

func (r *Repository) ListOrganizers() ([]auth.Organizer, error) {
	var organizers []auth.Organizer
	err := r.DB.Order("organizer_name ASC").Find(&organizers).Error
	return organizers, err
}

func (r *Repository) OrganizerNameTaken(name string) (bool, error) {
	var n int64
	err := r.DB.Model(&auth.Organizer{}).Where("organizer_name = ?", name).Count(&n).Error
	return n > 0, err
}

func (r *Repository) LoginEmailTaken(email string) (bool, error) {
	var n int64
	err := r.DB.Model(&auth.Organizer{}).Where("login_email = ?", email).Count(&n).Error
	return n > 0, err
}

// DeleteOrganizer removes the account and everything hanging off it:
// events, their variants, tickets and feedback, plus the organizer's
// reset requests. One transaction, so a failed step leaves the account
// intact.
func (r *Repository) DeleteOrganizer(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint
		if err := tx.Model(&event.Event{}).Where("organizer_id = ?", id).
			Pluck("id", &eventIDs).Error; err != nil {
			return err
		}

		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&feedback.Feedback{}).Error; err != nil {
				return err
			}
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&ticket.Ticket{}).Error; err != nil {
				return err
			}
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&event.MerchandiseVariant{}).Error; err != nil {
				return err
			}
			if err := tx.Where("organizer_id = ?", id).Delete(&event.Event{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("organizer_id = ?", id).Delete(&auth.PasswordResetRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&auth.Organizer{}, id).Error
	})
}

func (r *Repository) ListResetRequests(status string) ([]auth.PasswordResetRequest, error) {
	query := r.DB.Preload("Organizer").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []auth.PasswordResetRequest
	err := query.Find(&requests).Error
	return requests, err
}

func (r *Repository) GetResetRequest(id uint) (*auth.PasswordResetRequest, error) {
	var req auth.PasswordResetRequest
	if err := r.DB.Preload("Organizer").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) SaveResetRequest(req *auth.PasswordResetRequest) error {
	return r.DB.Save(req).Error
}

func (r *Repository) CountOrganizers() (int64, error) {
	var n int64
	err := r.DB.Model(&auth.Organizer{}).Count(&n).Error
	return n, err
}

func (r *Repository) CountParticipants() (int64, error) {
	var n int64
	err := r.DB.Model(&auth.Participant{}).Count(&n).Error
	return n, err
}

func (r *Repository) CountPendingResets() (int64, error) {
	var n int64
	err := r.DB.Model(&auth.PasswordResetRequest{}).
		Where("status = ?", auth.ResetPending).Count(&n).Error
	return n, err
}
