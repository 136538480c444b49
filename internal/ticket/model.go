package ticket

import (
	"time"

	"gorm.io/datatypes"
)

// Ticket statuses. Pending tickets are waiting on a payment decision;
// confirmed tickets carry a scannable QR code. Rejected and attended are
// terminal: a rejected payment releases the capacity slot, a scanned
// ticket never scans again.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
	StatusAttended  = "attended"
)

// Payment review states for fee-bearing tickets.
const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

type Ticket struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TicketID string `gorm:"size:40;uniqueIndex;not null" json:"ticket_id"`

	EventID       uint `gorm:"not null;index" json:"event_id"`
	ParticipantID uint `gorm:"not null;index" json:"participant_id"`

	Status string `gorm:"size:20;not null;default:pending;index" json:"status"`

	// Responses to the event's custom registration form, keyed by field
	// name.
	RegistrationData datatypes.JSON `gorm:"type:jsonb" json:"registration_data,omitempty"`

	// Merchandise purchases record the chosen variant; stock itself is
	// left untouched.
	VariantID    *uint  `json:"variant_id,omitempty"`
	VariantLabel string `gorm:"size:100" json:"variant_label,omitempty"`
	Quantity     int    `gorm:"default:0" json:"quantity,omitempty"`

	TotalAmount   *float64 `json:"total_amount,omitempty"`
	PaymentStatus *string  `gorm:"size:20" json:"payment_status,omitempty"`
	OrderID       *string  `gorm:"size:64" json:"order_id,omitempty"`

	// QR data URL, set once the ticket is confirmed.
	QRCode string `gorm:"type:text" json:"qr_code,omitempty"`

	Attended   bool       `gorm:"default:false" json:"attended"`
	AttendedAt *time.Time `json:"attended_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Populated on reads for the participant's ticket list.
	EventName      string    `gorm:"-" json:"event_name,omitempty"`
	EventStartDate time.Time `gorm:"-" json:"event_start_date,omitempty"`
}

// RegisterRequest is a normal-event registration.
type RegisterRequest struct {
	EventID  uint                   `json:"eventId"`
	FormData map[string]interface{} `json:"formData"`
}

// PurchaseRequest is a merchandise order.
type PurchaseRequest struct {
	EventID   uint `json:"eventId"`
	VariantID uint `json:"variantId"`
	Quantity  int  `json:"quantity"`
}

// VerifyResponse is what the scanner sees after submitting a ticket id.
type VerifyResponse struct {
	Valid           bool   `json:"valid"`
	Reason          string `json:"reason,omitempty"`
	TicketID        string `json:"ticket_id"`
	EventName       string `json:"event_name,omitempty"`
	ParticipantName string `json:"participant_name,omitempty"`
	Attended        bool   `json:"attended"`
}
