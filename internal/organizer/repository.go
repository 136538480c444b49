package organizer

import (
	"gorm.io/gorm"

	"github.com/arpitmofficial/fest-management-system/internal/auth"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Save(o *auth.Organizer) error {
	return r.DB.Save(o).Error
}

func (r *Repository) NameTakenByOther(name string, selfID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&auth.Organizer{}).
		Where("organizer_name = ? AND id <> ?", name, selfID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) HasPendingReset(organizerID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&auth.PasswordResetRequest{}).
		Where("organizer_id = ? AND status = ?", organizerID, auth.ResetPending).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) CreateResetRequest(req *auth.PasswordResetRequest) error {
	return r.DB.Create(req).Error
}

func (r *Repository) ListResetRequests(organizerID uint) ([]auth.PasswordResetRequest, error) {
	var requests []auth.PasswordResetRequest
	err := r.DB.Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// Directory returns every organizer for the public listing. The caller
// maps this down to public fields.
func (r *Repository) Directory() ([]auth.Organizer, error) {
	var organizers []auth.Organizer
	err := r.DB.Order("organizer_name ASC").Find(&organizers).Error
	return organizers, err
}
