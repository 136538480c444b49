package ticket

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arpitmofficial/fest-management-system/internal/event"
)

var (
	ErrEventNotOpen      = errors.New("event is not open for registration")
	ErrDeadlinePassed    = errors.New("registration deadline has passed")
	ErrCapacityFull      = errors.New("event has reached its registration limit")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrPurchaseLimit     = errors.New("purchase limit for this item reached")
	ErrVariantNotFound   = errors.New("merchandise variant not found")
	ErrInsufficientStock = errors.New("not enough stock for this variant")
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// RegisterNormal inserts a registration ticket while holding a row lock
// on the event. Deadline, capacity and the duplicate check all happen
// under the lock so concurrent registrations cannot oversell the event.
// The registration counter moves in the same transaction, and the first
// registration locks the event's custom form for good.
func (r *Repository) RegisterNormal(t *Ticket) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var e event.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&e, t.EventID).Error; err != nil {
			return err
		}

		if e.Status != event.StatusPublished {
			return ErrEventNotOpen
		}
		if time.Now().After(e.RegistrationDeadline) {
			return ErrDeadlinePassed
		}
		if e.RegistrationLimit != nil && e.RegistrationCount >= *e.RegistrationLimit {
			return ErrCapacityFull
		}

		var existing int64
		if err := tx.Model(&Ticket{}).
			Where("event_id = ? AND participant_id = ? AND status NOT IN ?",
				t.EventID, t.ParticipantID, []string{StatusCancelled, StatusRejected}).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		if err := tx.Create(t).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"registration_count": gorm.Expr("registration_count + 1"),
		}
		if !e.FormLocked {
			updates["form_locked"] = true
		}
		return tx.Model(&event.Event{}).Where("id = ?", e.ID).
			Updates(updates).Error
	})
}

// PurchaseMerch inserts a merchandise ticket under the same event row
// lock. Stock and the per-participant limit are both checked under the
// lock; the limit counts quantities across that participant's live
// orders.
func (r *Repository) PurchaseMerch(t *Ticket) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var e event.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&e, t.EventID).Error; err != nil {
			return err
		}

		if e.Status != event.StatusPublished {
			return ErrEventNotOpen
		}
		if time.Now().After(e.RegistrationDeadline) {
			return ErrDeadlinePassed
		}

		var v event.MerchandiseVariant
		if err := tx.Where("id = ? AND event_id = ?", t.VariantID, t.EventID).
			First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}
		if v.Stock < t.Quantity {
			return ErrInsufficientStock
		}

		var bought int64
		err := tx.Model(&Ticket{}).
			Where("event_id = ? AND participant_id = ? AND status NOT IN ?",
				t.EventID, t.ParticipantID, []string{StatusCancelled, StatusRejected}).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&bought).Error
		if err != nil {
			return err
		}
		if int(bought)+t.Quantity > e.PurchaseLimitPerParticipant {
			return ErrPurchaseLimit
		}

		if err := tx.Create(t).Error; err != nil {
			return err
		}

		return tx.Model(&event.Event{}).Where("id = ?", e.ID).
			UpdateColumn("registration_count", gorm.Expr("registration_count + 1")).Error
	})
}

// Cancel flips the ticket to cancelled and releases its capacity slot in
// the same transaction.
func (r *Repository) Cancel(t *Ticket) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(t).Update("status", StatusCancelled).Error; err != nil {
			return err
		}
		return tx.Model(&event.Event{}).Where("id = ?", t.EventID).
			UpdateColumn("registration_count", gorm.Expr("registration_count - 1")).Error
	})
}

// Reject marks a declined payment and releases the capacity slot. The
// ticket ends up rejected, not cancelled.
func (r *Repository) Reject(t *Ticket) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(t).Updates(map[string]interface{}{
			"status":         StatusRejected,
			"payment_status": PaymentRejected,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&event.Event{}).Where("id = ?", t.EventID).
			UpdateColumn("registration_count", gorm.Expr("registration_count - 1")).Error
	})
}

func (r *Repository) Save(t *Ticket) error {
	return r.DB.Save(t).Error
}

func (r *Repository) GetByID(id uint) (*Ticket, error) {
	var t Ticket
	if err := r.DB.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) FindByTicketID(code string) (*Ticket, error) {
	var t Ticket
	if err := r.DB.Where("ticket_id = ?", code).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByParticipant returns the participant's tickets newest first, with
// event name and dates joined in.
func (r *Repository) ListByParticipant(participantID uint) ([]Ticket, error) {
	var tickets []Ticket
	err := r.DB.Model(&Ticket{}).
		Select("tickets.*, events.event_name AS event_name, events.event_start_date AS event_start_date").
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("tickets.participant_id = ?", participantID).
		Order("tickets.created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// PendingPaymentsByEvent lists fee-bearing tickets awaiting a decision,
// for the organizer's approval queue.
func (r *Repository) PendingPaymentsByEvent(eventID uint) ([]Ticket, error) {
	var tickets []Ticket
	err := r.DB.Where("event_id = ? AND status = ? AND payment_status = ?",
		eventID, StatusPending, PaymentPending).
		Order("created_at ASC").
		Find(&tickets).Error
	return tickets, err
}

// HasConfirmedOrAttended reports whether the participant holds a
// confirmed or attended ticket for the event.
func (r *Repository) HasConfirmedOrAttended(eventID, participantID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&Ticket{}).
		Where("event_id = ? AND participant_id = ? AND status IN ?",
			eventID, participantID, []string{StatusConfirmed, StatusAttended}).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) CountAll() (int64, error) {
	var n int64
	err := r.DB.Model(&Ticket{}).
		Where("status NOT IN ?", []string{StatusCancelled, StatusRejected}).
		Count(&n).Error
	return n, err
}
