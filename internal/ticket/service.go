package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/internal/payment"
	"github.com/arpitmofficial/fest-management-system/utils"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrNotTicketOwner = errors.New("ticket belongs to another participant")
	ErrNotEligible    = errors.New("you are not eligible for this event")
	ErrNotEventOwner  = errors.New("ticket belongs to another organizer's event")
)

type Service struct {
	Repo      *Repository
	EventRepo *event.Repository
	Gateway   *payment.Gateway
	AuditSvc  auditlog.Service
}

func NewService(r *Repository, eventRepo *event.Repository, gateway *payment.Gateway, auditSvc auditlog.Service) *Service {
	return &Service{Repo: r, EventRepo: eventRepo, Gateway: gateway, AuditSvc: auditSvc}
}

func eligible(e *event.Event, p *auth.Participant) bool {
	switch e.Eligibility {
	case event.EligibilityIIIT:
		return p.ParticipantType == auth.TypeIIIT
	case event.EligibilityNonIIIT:
		return p.ParticipantType == auth.TypeNonIIIT
	}
	return true
}

// validateFormData checks the submitted answers against the event's form
// definition: required fields must be present and unknown fields are
// rejected by name.
func validateFormData(fieldsJSON []byte, data map[string]interface{}) error {
	var fields []event.FormField
	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
			return fmt.Errorf("event form definition is corrupt: %w", err)
		}
	}

	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.FieldName] = true
		if !f.Required {
			continue
		}
		v, ok := data[f.FieldName]
		if !ok || v == nil || v == "" {
			return fmt.Errorf("required field %q is missing", f.FieldName)
		}
	}

	for name := range data {
		if !known[name] {
			return fmt.Errorf("field %q is not part of this event's form", name)
		}
	}
	return nil
}

// qrPayload is the JSON the scanner reads back from a ticket's QR code.
func qrPayload(t *Ticket) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"ticketId":      t.TicketID,
		"eventId":       t.EventID,
		"participantId": t.ParticipantID,
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// Register creates a ticket for a normal event. Free events confirm
// immediately with a QR code; paid events start pending and, when the
// gateway is configured, get a payment order attached best effort.
func (s *Service) Register(req *RegisterRequest, p *auth.Participant, ip string) (*Ticket, error) {
	e, err := s.EventRepo.GetByID(req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrNotFound
		}
		return nil, err
	}

	if e.EventType != event.TypeNormal {
		return nil, errors.New("use the purchase endpoint for merchandise")
	}
	if !eligible(e, p) {
		return nil, ErrNotEligible
	}
	if err := validateFormData(e.CustomFields, req.FormData); err != nil {
		return nil, err
	}

	code, err := NewTicketID()
	if err != nil {
		return nil, err
	}

	formJSON, err := json.Marshal(req.FormData)
	if err != nil {
		return nil, err
	}

	t := &Ticket{
		TicketID:         code,
		EventID:          e.ID,
		ParticipantID:    p.ID,
		RegistrationData: formJSON,
	}

	if e.RegistrationFee > 0 {
		fee := e.RegistrationFee
		pending := PaymentPending
		t.Status = StatusPending
		t.TotalAmount = &fee
		t.PaymentStatus = &pending

		if s.Gateway.Enabled() {
			orderID, err := s.Gateway.CreateOrder(fee, code, map[string]interface{}{
				"event_id":       e.ID,
				"participant_id": p.ID,
			})
			if err != nil {
				// The organizer can still approve an offline payment.
				log.Printf("payment order for ticket %s failed: %v", code, err)
			} else {
				t.OrderID = &orderID
			}
		}
	} else {
		t.Status = StatusConfirmed
		// A broken QR encoder must not block a valid registration; the
		// ticket still verifies by its human-readable id.
		if payload, err := qrPayload(t); err != nil {
			log.Printf("qr payload for ticket %s failed: %v", code, err)
		} else if qr, err := utils.GenerateQRDataURL(payload); err != nil {
			log.Printf("qr code for ticket %s failed: %v", code, err)
		} else {
			t.QRCode = qr
		}
	}

	if err := s.Repo.RegisterNormal(t); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "TICKET_REGISTERED",
		map[string]interface{}{"ticket_id": t.TicketID, "event_id": e.ID, "status": t.Status},
		ip, "success")

	return t, nil
}

// Purchase creates a merchandise order. Orders always wait for the
// organizer's payment approval; the chosen variant is recorded but its
// stock is left as is.
func (s *Service) Purchase(req *PurchaseRequest, p *auth.Participant, ip string) (*Ticket, error) {
	e, err := s.EventRepo.GetByID(req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrNotFound
		}
		return nil, err
	}

	if e.EventType != event.TypeMerchandise {
		return nil, errors.New("this event does not sell merchandise")
	}
	if !eligible(e, p) {
		return nil, ErrNotEligible
	}
	if req.Quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	var variant *event.MerchandiseVariant
	for i := range e.Variants {
		if e.Variants[i].ID == req.VariantID {
			variant = &e.Variants[i]
			break
		}
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	if variant.Stock < req.Quantity {
		return nil, ErrInsufficientStock
	}

	code, err := NewTicketID()
	if err != nil {
		return nil, err
	}

	total := variant.Price * float64(req.Quantity)
	pending := PaymentPending
	t := &Ticket{
		TicketID:      code,
		EventID:       e.ID,
		ParticipantID: p.ID,
		Status:        StatusPending,
		VariantID:     &variant.ID,
		VariantLabel:  fmt.Sprintf("%s / %s", variant.Size, variant.Color),
		Quantity:      req.Quantity,
		TotalAmount:   &total,
		PaymentStatus: &pending,
	}

	if s.Gateway.Enabled() {
		orderID, err := s.Gateway.CreateOrder(total, code, map[string]interface{}{
			"event_id":       e.ID,
			"participant_id": p.ID,
			"variant_id":     variant.ID,
		})
		if err != nil {
			log.Printf("payment order for ticket %s failed: %v", code, err)
		} else {
			t.OrderID = &orderID
		}
	}

	if err := s.Repo.PurchaseMerch(t); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "MERCH_PURCHASED",
		map[string]interface{}{"ticket_id": t.TicketID, "event_id": e.ID, "variant_id": variant.ID, "quantity": req.Quantity},
		ip, "success")

	return t, nil
}

func (s *Service) MyTickets(p *auth.Participant) ([]Ticket, error) {
	return s.Repo.ListByParticipant(p.ID)
}

// Get returns one ticket to its participant, the organizer owning the
// event, or an admin.
func (s *Service) Get(code string, principal *auth.Principal) (*Ticket, error) {
	t, err := s.Repo.FindByTicketID(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	e, err := s.EventRepo.GetByID(t.EventID)
	if err == nil {
		t.EventName = e.EventName
		t.EventStartDate = e.EventStartDate
	}

	switch principal.Role {
	case auth.RoleAdmin:
		return t, nil
	case auth.RoleParticipant:
		if principal.Participant != nil && principal.Participant.ID == t.ParticipantID {
			return t, nil
		}
		return nil, ErrNotTicketOwner
	case auth.RoleOrganizer:
		if e != nil && principal.Organizer != nil && principal.Organizer.ID == e.OrganizerID {
			return t, nil
		}
		return nil, ErrNotEventOwner
	}
	return nil, ErrNotTicketOwner
}

func (s *Service) getOwnTicket(code string, p *auth.Participant) (*Ticket, error) {
	t, err := s.Repo.FindByTicketID(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if t.ParticipantID != p.ID {
		return nil, ErrNotTicketOwner
	}
	return t, nil
}

// Cancel releases a pending or confirmed ticket. Attended tickets and
// tickets for finished events stay put.
func (s *Service) Cancel(code string, p *auth.Participant, ip string) error {
	t, err := s.getOwnTicket(code, p)
	if err != nil {
		return err
	}

	if t.Status == StatusCancelled || t.Status == StatusRejected {
		return errors.New("ticket is no longer active")
	}
	if t.Status == StatusAttended || t.Attended {
		return errors.New("attended tickets cannot be cancelled")
	}

	e, err := s.EventRepo.GetByID(t.EventID)
	if err != nil {
		return err
	}
	if e.Status == event.StatusCompleted || e.Status == event.StatusClosed {
		return errors.New("the event is already over")
	}

	if err := s.Repo.Cancel(t); err != nil {
		return err
	}

	s.AuditSvc.LogAction(context.Background(), &p.ID, auth.RoleParticipant, "TICKET_CANCELLED",
		map[string]interface{}{"ticket_id": t.TicketID, "event_id": t.EventID}, ip, "success")

	return nil
}

func (s *Service) ticketForOrganizer(code string, organizer *auth.Organizer) (*Ticket, *event.Event, error) {
	t, err := s.Repo.FindByTicketID(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTicketNotFound
		}
		return nil, nil, err
	}
	e, err := s.EventRepo.GetByID(t.EventID)
	if err != nil {
		return nil, nil, err
	}
	if e.OrganizerID != organizer.ID {
		return nil, nil, ErrNotEventOwner
	}
	return t, e, nil
}

// DecidePayment approves or rejects a pending payment. Approval confirms
// the ticket and mints its QR code; rejection cancels the ticket and
// releases the capacity slot.
func (s *Service) DecidePayment(code string, approve bool, organizer *auth.Organizer, ip string) (*Ticket, error) {
	t, _, err := s.ticketForOrganizer(code, organizer)
	if err != nil {
		return nil, err
	}

	if t.Status != StatusPending || t.PaymentStatus == nil || *t.PaymentStatus != PaymentPending {
		return nil, errors.New("ticket has no pending payment")
	}

	if approve {
		approved := PaymentApproved
		payload, err := qrPayload(t)
		if err != nil {
			return nil, err
		}
		qr, err := utils.GenerateQRDataURL(payload)
		if err != nil {
			return nil, err
		}
		t.Status = StatusConfirmed
		t.PaymentStatus = &approved
		t.QRCode = qr
		if err := s.Repo.Save(t); err != nil {
			return nil, err
		}
	} else {
		if err := s.Repo.Reject(t); err != nil {
			return nil, err
		}
		rejected := PaymentRejected
		t.Status = StatusRejected
		t.PaymentStatus = &rejected
	}

	action := "PAYMENT_REJECTED"
	if approve {
		action = "PAYMENT_APPROVED"
	}
	s.AuditSvc.LogAction(context.Background(), &organizer.ID, auth.RoleOrganizer, action,
		map[string]interface{}{"ticket_id": t.TicketID, "event_id": t.EventID}, ip, "success")

	return t, nil
}

func (s *Service) PendingPayments(eventID uint, organizer *auth.Organizer) ([]Ticket, error) {
	e, err := s.EventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrNotFound
		}
		return nil, err
	}
	if e.OrganizerID != organizer.ID {
		return nil, ErrNotEventOwner
	}
	return s.Repo.PendingPaymentsByEvent(eventID)
}

// Verify answers a scan without mutating anything.
func (s *Service) Verify(code string, organizer *auth.Organizer) (*VerifyResponse, error) {
	t, e, err := s.ticketForOrganizer(code, organizer)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return &VerifyResponse{Valid: false, Reason: "ticket not found", TicketID: code}, nil
		}
		return nil, err
	}

	resp := &VerifyResponse{TicketID: t.TicketID, EventName: e.EventName, Attended: t.Attended}
	switch {
	case t.Status == StatusCancelled:
		resp.Reason = "ticket was cancelled"
	case t.Status == StatusRejected:
		resp.Reason = "payment was rejected"
	case t.Status == StatusPending:
		resp.Reason = "payment not approved yet"
	case t.Status == StatusAttended || t.Attended:
		resp.Reason = "ticket already used"
	default:
		resp.Valid = true
	}
	return resp, nil
}

// MarkAttendance checks the holder in. A ticket scans successfully
// exactly once.
func (s *Service) MarkAttendance(code string, organizer *auth.Organizer, ip string) (*Ticket, error) {
	t, _, err := s.ticketForOrganizer(code, organizer)
	if err != nil {
		return nil, err
	}

	if t.Status == StatusAttended || t.Attended {
		return nil, errors.New("ticket already used")
	}
	if t.Status != StatusConfirmed {
		return nil, errors.New("only confirmed tickets can be checked in")
	}

	now := time.Now()
	t.Status = StatusAttended
	t.Attended = true
	t.AttendedAt = &now
	if err := s.Repo.Save(t); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &organizer.ID, auth.RoleOrganizer, "ATTENDANCE_MARKED",
		map[string]interface{}{"ticket_id": t.TicketID, "event_id": t.EventID}, ip, "success")

	return t, nil
}
