package event

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(e *Event) error {
	return r.DB.Create(e).Error
}

func (r *Repository) GetByID(id uint) (*Event, error) {
	var e Event
	err := r.DB.Preload("Variants").First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// IncrementViewCount bumps the counter unconditionally; repeated fetches
// inflate it by design.
func (r *Repository) IncrementViewCount(id uint) error {
	return r.DB.Model(&Event{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// List applies the public listing filters. Organizer name and category
// are joined in for display.
func (r *Repository) List(f ListFilters) ([]Event, error) {
	query := r.DB.Model(&Event{}).
		Select("events.*, organizers.organizer_name AS organizer_name, organizers.category AS organizer_category").
		Joins("JOIN organizers ON organizers.id = events.organizer_id")

	if f.Status != "" {
		query = query.Where("events.status = ?", f.Status)
	} else {
		query = query.Where("events.status IN ?", []string{StatusPublished, StatusOngoing})
	}

	if f.Search != "" {
		ilike := "%" + f.Search + "%"
		query = query.Where(
			"events.event_name ILIKE ? OR events.description ILIKE ? OR array_to_string(events.event_tags, ' ') ILIKE ?",
			ilike, ilike, ilike,
		)
	}
	if f.EventType != "" {
		query = query.Where("events.event_type = ?", f.EventType)
	}
	if f.Eligibility != "" {
		query = query.Where("events.eligibility = ?", f.Eligibility)
	}
	if f.StartDate != nil {
		query = query.Where("events.event_start_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("events.event_start_date <= ?", *f.EndDate)
	}
	if f.OrganizerID != 0 {
		query = query.Where("events.organizer_id = ?", f.OrganizerID)
	}
	if f.FollowedIDs != nil {
		query = query.Where("events.organizer_id IN ?", f.FollowedIDs)
	}

	var events []Event
	err := query.Order("events.created_at DESC").Find(&events).Error
	return events, err
}

// Trending returns the top published events by registrations, then views.
func (r *Repository) Trending(limit int) ([]Event, error) {
	var events []Event
	err := r.DB.Model(&Event{}).
		Select("events.*, organizers.organizer_name AS organizer_name, organizers.category AS organizer_category").
		Joins("JOIN organizers ON organizers.id = events.organizer_id").
		Where("events.status = ?", StatusPublished).
		Order("events.registration_count DESC, events.view_count DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *Repository) ListByOrganizer(organizerID uint) ([]Event, error) {
	var events []Event
	err := r.DB.Preload("Variants").
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *Repository) Save(e *Event) error {
	return r.DB.Save(e).Error
}

// ReplaceVariants swaps the variant set of a draft merchandise event.
func (r *Repository) ReplaceVariants(eventID uint, variants []MerchandiseVariant) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&MerchandiseVariant{}).Error; err != nil {
			return err
		}
		for i := range variants {
			variants[i].ID = 0
			variants[i].EventID = eventID
		}
		if len(variants) == 0 {
			return nil
		}
		return tx.Create(&variants).Error
	})
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&MerchandiseVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Event{}, id).Error
	})
}

// Participants lists the event's tickets with participant details for the
// owning organizer and the exports.
func (r *Repository) Participants(eventID uint) ([]ParticipantRow, error) {
	var rows []ParticipantRow
	err := r.DB.Table("tickets").
		Select(`tickets.ticket_id AS ticket_id, tickets.status AS status,
			participants.first_name, participants.last_name, participants.email,
			participants.contact_number, participants.college_name,
			tickets.attended, tickets.created_at AS registered_at`).
		Joins("JOIN participants ON participants.id = tickets.participant_id").
		Where("tickets.event_id = ?", eventID).
		Order("tickets.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// Analytics computes the owner rollup on read; nothing is maintained
// incrementally.
func (r *Repository) Analytics(e *Event) (*AnalyticsResponse, error) {
	type ticketRow struct {
		Status        string
		Attended      bool
		TotalAmount   *float64
		PaymentStatus *string
	}

	var tickets []ticketRow
	err := r.DB.Table("tickets").
		Select("status, attended, total_amount, payment_status").
		Where("event_id = ?", e.ID).
		Scan(&tickets).Error
	if err != nil {
		return nil, err
	}

	resp := &AnalyticsResponse{ViewCount: e.ViewCount, TotalRegistrations: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case "confirmed", "attended":
			resp.ConfirmedRegistrations++
		case "pending":
			resp.PendingRegistrations++
		}
		if t.Status == "attended" || t.Attended {
			resp.AttendedCount++
		}

		paid := t.Status == "confirmed" || t.Status == "attended" ||
			(t.PaymentStatus != nil && *t.PaymentStatus == "approved")
		if paid {
			if t.TotalAmount != nil && *t.TotalAmount > 0 {
				resp.Revenue += *t.TotalAmount
			} else {
				resp.Revenue += e.RegistrationFee
			}
		}
	}

	return resp, nil
}

// OrganizerStats backs the organizer dashboard.
type OrganizerStats struct {
	TotalEvents        int `json:"total_events"`
	DraftEvents        int `json:"draft_events"`
	PublishedEvents    int `json:"published_events"`
	OngoingEvents      int `json:"ongoing_events"`
	CompletedEvents    int `json:"completed_events"`
	TotalRegistrations int `json:"total_registrations"`
	TotalViews         int `json:"total_views"`
}

func (r *Repository) StatsByOrganizer(organizerID uint) (*OrganizerStats, []Event, error) {
	events, err := r.ListByOrganizer(organizerID)
	if err != nil {
		return nil, nil, err
	}

	stats := &OrganizerStats{TotalEvents: len(events)}
	for _, e := range events {
		switch e.Status {
		case StatusDraft:
			stats.DraftEvents++
		case StatusPublished:
			stats.PublishedEvents++
		case StatusOngoing:
			stats.OngoingEvents++
		case StatusCompleted:
			stats.CompletedEvents++
		}
		stats.TotalRegistrations += e.RegistrationCount
		stats.TotalViews += e.ViewCount
	}

	return stats, events, nil
}

func (r *Repository) CountAll() (int64, error) {
	var n int64
	err := r.DB.Model(&Event{}).Count(&n).Error
	return n, err
}
