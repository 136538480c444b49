package event

import (
	"fmt"
)

// FieldNotPermittedError rejects an update that touches a field outside
// the current status's whitelist, naming the offender instead of
// silently dropping it.
type FieldNotPermittedError struct {
	Field  string
	Status string
}

func (e *FieldNotPermittedError) Error() string {
	return fmt.Sprintf("field %q is not editable while the event is %s", e.Field, e.Status)
}

// allowedFields returns the per-status whitelist. Draft events are fully
// editable; published events keep their identity but may adjust
// description, deadline, capacity and status; later states are
// status-only.
func allowedFields(status string) map[string]bool {
	switch status {
	case StatusDraft:
		return nil // nil means everything is allowed
	case StatusPublished:
		return map[string]bool{
			"eventDescription":     true,
			"registrationDeadline": true,
			"registrationLimit":    true,
			"status":               true,
		}
	default: // ongoing, completed, closed
		return map[string]bool{"status": true}
	}
}

// presentFields lists the JSON names carried by the request.
func presentFields(req *UpdateEventRequest) []string {
	var fields []string
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}
	add("eventName", req.EventName != nil)
	add("eventDescription", req.Description != nil)
	add("eventType", req.EventType != nil)
	add("eligibility", req.Eligibility != nil)
	add("registrationDeadline", req.RegistrationDeadline != nil)
	add("eventStartDate", req.EventStartDate != nil)
	add("eventEndDate", req.EventEndDate != nil)
	add("registrationLimit", req.RegistrationLimit != nil)
	add("registrationFee", req.RegistrationFee != nil)
	add("eventTags", req.EventTags != nil)
	add("status", req.Status != nil)
	add("customFields", req.CustomFields != nil)
	add("merchandiseVariants", req.Variants != nil)
	add("purchaseLimitPerParticipant", req.PurchaseLimit != nil)
	return fields
}

// ValidateUpdate enforces the status whitelist and the permanent form
// lock. The first offending field aborts the whole update.
func ValidateUpdate(req *UpdateEventRequest, status string, formLocked bool) error {
	allowed := allowedFields(status)
	for _, field := range presentFields(req) {
		if allowed != nil && !allowed[field] {
			return &FieldNotPermittedError{Field: field, Status: status}
		}
		if field == "customFields" && formLocked {
			return &FieldNotPermittedError{Field: "customFields", Status: "locked after first registration"}
		}
	}

	if req.Status != nil && !ValidStatus(*req.Status) {
		return fmt.Errorf("unknown status %q", *req.Status)
	}
	if req.EventType != nil && *req.EventType != TypeNormal && *req.EventType != TypeMerchandise {
		return fmt.Errorf("unknown event type %q", *req.EventType)
	}
	if req.Eligibility != nil {
		switch *req.Eligibility {
		case EligibilityAll, EligibilityIIIT, EligibilityNonIIIT:
		default:
			return fmt.Errorf("unknown eligibility %q", *req.Eligibility)
		}
	}
	if req.CustomFields != nil {
		for _, f := range *req.CustomFields {
			if !validFieldType(f.FieldType) {
				return fmt.Errorf("unknown form field type %q", f.FieldType)
			}
		}
	}
	return nil
}

// statusTransitions mirrors the handful of legal moves: draft is only
// left via publish, published runs forward, ongoing finishes, completed
// and closed are terminal.
var statusTransitions = map[string][]string{
	StatusPublished: {StatusOngoing, StatusCompleted, StatusClosed},
	StatusOngoing:   {StatusCompleted, StatusClosed},
}

// ValidTransition reports whether a direct status update may move the
// event from one state to the other.
func ValidTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
