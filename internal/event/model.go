package event

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Event lifecycle statuses. Draft events are private to their organizer;
// closed is an alternate terminal next to completed.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusClosed    = "closed"
)

const (
	TypeNormal      = "normal"
	TypeMerchandise = "merchandise"
)

const (
	EligibilityAll     = "all"
	EligibilityIIIT    = "iiit-only"
	EligibilityNonIIIT = "non-iiit-only"
)

// FormField is one entry of an event's custom registration form, stored
// as JSONB on the event row.
type FormField struct {
	FieldName string   `json:"fieldName"`
	FieldType string   `json:"fieldType"` // text, textarea, number, email, dropdown, checkbox, radio, file, date
	Options   []string `json:"options,omitempty"`
	Required  bool     `json:"required"`
	Order     int      `json:"order"`
}

// MerchandiseVariant is a purchasable size/color combination. Stock is
// recorded but intentionally never decremented on purchase or approval;
// the desired decrement semantics are still undecided upstream.
type MerchandiseVariant struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	EventID uint    `gorm:"not null;index" json:"event_id"`
	Size    string  `gorm:"size:20" json:"size"`
	Color   string  `gorm:"size:50" json:"color"`
	Stock   int     `gorm:"default:0" json:"stock"`
	Price   float64 `gorm:"not null" json:"price"`
}

type Event struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EventName   string `gorm:"size:255;not null;index" json:"event_name"`
	Description string `gorm:"type:text;not null" json:"event_description"`
	EventType   string `gorm:"size:20;not null" json:"event_type"`
	Eligibility string `gorm:"size:20;not null;default:all" json:"eligibility"`

	RegistrationDeadline time.Time `gorm:"not null" json:"registration_deadline"`
	EventStartDate       time.Time `gorm:"not null;index" json:"event_start_date"`
	EventEndDate         time.Time `gorm:"not null" json:"event_end_date"`

	RegistrationLimit *int    `json:"registration_limit"` // nil means unlimited
	RegistrationCount int     `gorm:"default:0" json:"registration_count"`
	RegistrationFee   float64 `gorm:"default:0" json:"registration_fee"`

	OrganizerID uint           `gorm:"not null;index" json:"organizer_id"`
	EventTags   pq.StringArray `gorm:"type:text[]" json:"event_tags"`
	Status      string         `gorm:"size:20;not null;default:draft;index" json:"status"`

	// Custom form builder for normal events. Locked permanently once the
	// first registration exists.
	CustomFields datatypes.JSON `gorm:"type:jsonb" json:"custom_fields"`
	FormLocked   bool           `gorm:"default:false" json:"form_locked"`

	// Merchandise events
	Variants                    []MerchandiseVariant `gorm:"foreignKey:EventID" json:"merchandise_variants,omitempty"`
	PurchaseLimitPerParticipant int                  `gorm:"default:1" json:"purchase_limit_per_participant"`

	ViewCount int `gorm:"default:0" json:"view_count"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Populated on reads for the public listing.
	OrganizerName     string `gorm:"-" json:"organizer_name,omitempty"`
	OrganizerCategory string `gorm:"-" json:"organizer_category,omitempty"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusOngoing, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

func validFieldType(t string) bool {
	switch t {
	case "text", "textarea", "number", "email", "dropdown", "checkbox", "radio", "file", "date":
		return true
	}
	return false
}

// CreateEventRequest mirrors the fields an organizer may set on a draft.
type CreateEventRequest struct {
	EventName            string               `json:"eventName"`
	Description          string               `json:"eventDescription"`
	EventType            string               `json:"eventType"`
	Eligibility          string               `json:"eligibility"`
	RegistrationDeadline time.Time            `json:"registrationDeadline"`
	EventStartDate       time.Time            `json:"eventStartDate"`
	EventEndDate         time.Time            `json:"eventEndDate"`
	RegistrationLimit    *int                 `json:"registrationLimit"`
	RegistrationFee      float64              `json:"registrationFee"`
	EventTags            []string             `json:"eventTags"`
	CustomFields         []FormField          `json:"customFields"`
	Variants             []MerchandiseVariant `json:"merchandiseVariants"`
	PurchaseLimit        *int                 `json:"purchaseLimitPerParticipant"`
}

// UpdateEventRequest uses pointers so absent fields are distinguishable
// from zero values; which of the present fields are legal depends on the
// event's current status.
type UpdateEventRequest struct {
	EventName            *string               `json:"eventName"`
	Description          *string               `json:"eventDescription"`
	EventType            *string               `json:"eventType"`
	Eligibility          *string               `json:"eligibility"`
	RegistrationDeadline *time.Time            `json:"registrationDeadline"`
	EventStartDate       *time.Time            `json:"eventStartDate"`
	EventEndDate         *time.Time            `json:"eventEndDate"`
	RegistrationLimit    *int                  `json:"registrationLimit"`
	RegistrationFee      *float64              `json:"registrationFee"`
	EventTags            *[]string             `json:"eventTags"`
	Status               *string               `json:"status"`
	CustomFields         *[]FormField          `json:"customFields"`
	Variants             *[]MerchandiseVariant `json:"merchandiseVariants"`
	PurchaseLimit        *int                  `json:"purchaseLimitPerParticipant"`
}

// ListFilters captures the public listing's query parameters.
type ListFilters struct {
	Search      string
	EventType   string
	Eligibility string
	StartDate   *time.Time
	EndDate     *time.Time
	OrganizerID uint
	Status      string
	FollowedIDs []int64
}

// AnalyticsResponse is the owner-facing rollup for one event.
type AnalyticsResponse struct {
	TotalRegistrations     int     `json:"total_registrations"`
	ConfirmedRegistrations int     `json:"confirmed_registrations"`
	PendingRegistrations   int     `json:"pending_registrations"`
	AttendedCount          int     `json:"attended_count"`
	Revenue                float64 `json:"revenue"`
	ViewCount              int     `json:"view_count"`
}

// ParticipantRow is one registered participant as shown to the owning
// organizer and in exports.
type ParticipantRow struct {
	TicketID      string    `json:"ticket_id"`
	Status        string    `json:"status"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contact_number"`
	CollegeName   string    `json:"college_name"`
	Attended      bool      `json:"attended"`
	RegisteredAt  time.Time `json:"registered_at"`
}
