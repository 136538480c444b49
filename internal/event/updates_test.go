package event

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestValidateUpdateDraftAllowsEverything(t *testing.T) {
	fee := 50.0
	req := &UpdateEventRequest{
		EventName:       strPtr("Robo Wars"),
		Description:     strPtr("updated"),
		RegistrationFee: &fee,
		EventTags:       &[]string{"robotics"},
		CustomFields:    &[]FormField{{FieldName: "Team Name", FieldType: "text", Required: true}},
	}

	if err := ValidateUpdate(req, StatusDraft, false); err != nil {
		t.Fatalf("draft update rejected: %v", err)
	}
}

func TestValidateUpdatePublishedWhitelist(t *testing.T) {
	cases := []struct {
		name    string
		req     *UpdateEventRequest
		wantErr bool
		field   string
	}{
		{
			name: "description and limit allowed",
			req:  &UpdateEventRequest{Description: strPtr("new"), RegistrationLimit: intPtr(200)},
		},
		{
			name:    "name rejected",
			req:     &UpdateEventRequest{EventName: strPtr("renamed")},
			wantErr: true,
			field:   "eventName",
		},
		{
			name:    "fee rejected",
			req:     &UpdateEventRequest{RegistrationFee: new(float64)},
			wantErr: true,
			field:   "registrationFee",
		},
		{
			name:    "custom fields rejected",
			req:     &UpdateEventRequest{CustomFields: &[]FormField{}},
			wantErr: true,
			field:   "customFields",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpdate(tc.req, StatusPublished, false)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var fieldErr *FieldNotPermittedError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("want FieldNotPermittedError, got %v", err)
			}
			if fieldErr.Field != tc.field {
				t.Fatalf("want offending field %q, got %q", tc.field, fieldErr.Field)
			}
		})
	}
}

func TestValidateUpdateOngoingIsStatusOnly(t *testing.T) {
	status := StatusCompleted
	if err := ValidateUpdate(&UpdateEventRequest{Status: &status}, StatusOngoing, false); err != nil {
		t.Fatalf("status-only update rejected: %v", err)
	}

	err := ValidateUpdate(&UpdateEventRequest{Description: strPtr("late edit")}, StatusOngoing, false)
	var fieldErr *FieldNotPermittedError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("want FieldNotPermittedError, got %v", err)
	}
}

func TestValidateUpdateFormLock(t *testing.T) {
	req := &UpdateEventRequest{CustomFields: &[]FormField{{FieldName: "x", FieldType: "text"}}}
	err := ValidateUpdate(req, StatusDraft, true)
	var fieldErr *FieldNotPermittedError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("locked form edit should fail with FieldNotPermittedError, got %v", err)
	}
	if fieldErr.Field != "customFields" {
		t.Fatalf("want customFields, got %q", fieldErr.Field)
	}
}

func TestValidateUpdateRejectsUnknownEnums(t *testing.T) {
	bad := "archived"
	if err := ValidateUpdate(&UpdateEventRequest{Status: &bad}, StatusPublished, false); err == nil {
		t.Fatal("unknown status accepted")
	}

	req := &UpdateEventRequest{CustomFields: &[]FormField{{FieldName: "x", FieldType: "slider"}}}
	if err := ValidateUpdate(req, StatusDraft, false); err == nil {
		t.Fatal("unknown field type accepted")
	}
}

func TestValidTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusPublished, StatusOngoing},
		{StatusPublished, StatusCompleted},
		{StatusPublished, StatusClosed},
		{StatusOngoing, StatusCompleted},
		{StatusOngoing, StatusClosed},
		{StatusOngoing, StatusOngoing},
	}
	for _, pair := range allowed {
		if !ValidTransition(pair[0], pair[1]) {
			t.Errorf("%s -> %s should be allowed", pair[0], pair[1])
		}
	}

	forbidden := [][2]string{
		{StatusDraft, StatusPublished}, // drafts go through the publish endpoint
		{StatusOngoing, StatusPublished},
		{StatusCompleted, StatusOngoing},
		{StatusClosed, StatusPublished},
		{StatusCompleted, StatusClosed},
	}
	for _, pair := range forbidden {
		if ValidTransition(pair[0], pair[1]) {
			t.Errorf("%s -> %s should be rejected", pair[0], pair[1])
		}
	}
}
