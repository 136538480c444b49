package feedback

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(f *Feedback) error {
	return r.DB.Create(f).Error
}

func (r *Repository) Exists(eventID, participantID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&Feedback{}).
		Where("event_id = ? AND participant_id = ?", eventID, participantID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) ListByEvent(eventID uint) ([]Feedback, error) {
	var list []Feedback
	err := r.DB.Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
