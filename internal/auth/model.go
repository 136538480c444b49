package auth

import (
	"time"

	"github.com/lib/pq"
)

// Role names carried in the token claim. There is no shared user table:
// each role has its own principal store and the role is resolved from the
// claim alone.
const (
	RoleAdmin       = "admin"
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)

// Participant types
const (
	TypeIIIT    = "IIIT"
	TypeNonIIIT = "Non-IIIT"
)

type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Organizer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Derived once from the organizer name at creation, never edited.
	LoginEmail   string `gorm:"uniqueIndex;size:255;not null" json:"login_email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	OrganizerName string `gorm:"uniqueIndex;size:255;not null" json:"organizer_name"`
	Category      string `gorm:"size:100;not null" json:"category"`
	CollegeName   string `gorm:"size:255;not null" json:"college_name"`
	Description   string `gorm:"type:text" json:"description"`

	ContactEmail   string `gorm:"size:255;not null" json:"contact_email"`
	ContactNumber  string `gorm:"size:20" json:"contact_number"`
	DiscordWebhook string `gorm:"size:512" json:"discord_webhook"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Participant struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	FirstName     string `gorm:"size:100;not null" json:"first_name"`
	LastName      string `gorm:"size:100;not null" json:"last_name"`
	Email         string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	ContactNumber string `gorm:"size:20;not null" json:"contact_number"`
	PasswordHash  string `gorm:"size:255;not null" json:"-"`

	// IIIT or Non-IIIT. College name is forced to "IIIT Hyderabad" for
	// IIIT participants and required for the rest.
	ParticipantType string `gorm:"size:20;not null" json:"participant_type"`
	CollegeName     string `gorm:"size:255" json:"college_name"`

	Interests          pq.StringArray `gorm:"type:text[]" json:"interests"`
	FollowedOrganizers pq.Int64Array  `gorm:"type:bigint[]" json:"followed_organizers"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PasswordResetRequest is organizer-initiated and admin-processed. At
// most one pending request per organizer (checked by query).
type PasswordResetRequest struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrganizerID uint   `gorm:"not null;index" json:"organizer_id"`
	Reason      string `gorm:"type:text;not null" json:"reason"`
	Status      string `gorm:"size:20;not null;default:pending" json:"status"` // pending/approved/rejected

	AdminComment string     `gorm:"type:text" json:"admin_comment"`
	ProcessedBy  *uint      `json:"processed_by"`
	ProcessedAt  *time.Time `json:"processed_at"`

	Organizer *Organizer `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	ResetPending  = "pending"
	ResetApproved = "approved"
	ResetRejected = "rejected"
)

// Principal is the authenticated caller, resolved once in the auth
// middleware and passed explicitly into handlers. Exactly one of the
// three pointers is set, matching Role.
type Principal struct {
	Role        string
	Admin       *Admin
	Organizer   *Organizer
	Participant *Participant
}

// ID returns the principal's store id regardless of kind.
func (p Principal) ID() uint {
	switch p.Role {
	case RoleAdmin:
		return p.Admin.ID
	case RoleOrganizer:
		return p.Organizer.ID
	default:
		return p.Participant.ID
	}
}
