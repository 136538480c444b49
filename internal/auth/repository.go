package auth

import (
	"gorm.io/gorm"
)

type Repository interface {
	CreateParticipant(p *Participant) error
	FindParticipantByEmail(email string) (*Participant, error)
	FindParticipantByID(id uint) (*Participant, error)
	SaveParticipant(p *Participant) error

	FindOrganizerByLoginEmail(email string) (*Organizer, error)
	FindOrganizerByID(id uint) (*Organizer, error)
	SaveOrganizer(o *Organizer) error

	FindAdminByEmail(email string) (*Admin, error)
	FindAdminByID(id uint) (*Admin, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) CreateParticipant(p *Participant) error {
	return r.db.Create(p).Error
}

func (r *repository) FindParticipantByEmail(email string) (*Participant, error) {
	var p Participant
	err := r.db.Where("email = ?", email).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindParticipantByID(id uint) (*Participant, error) {
	var p Participant
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) SaveParticipant(p *Participant) error {
	return r.db.Save(p).Error
}

func (r *repository) FindOrganizerByLoginEmail(email string) (*Organizer, error) {
	var o Organizer
	err := r.db.Where("login_email = ?", email).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) FindOrganizerByID(id uint) (*Organizer, error) {
	var o Organizer
	err := r.db.First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) SaveOrganizer(o *Organizer) error {
	return r.db.Save(o).Error
}

func (r *repository) FindAdminByEmail(email string) (*Admin, error) {
	var a Admin
	err := r.db.Where("email = ?", email).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAdminByID(id uint) (*Admin, error) {
	var a Admin
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
