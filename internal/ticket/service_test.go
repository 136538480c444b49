package ticket

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
)

func mustFormJSON(t *testing.T, fields []event.FormField) []byte {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidateFormData(t *testing.T) {
	form := mustFormJSON(t, []event.FormField{
		{FieldName: "Team Name", FieldType: "text", Required: true},
		{FieldName: "T-Shirt Size", FieldType: "dropdown", Options: []string{"S", "M", "L"}},
	})

	t.Run("all required present", func(t *testing.T) {
		data := map[string]interface{}{"Team Name": "Null Pointers", "T-Shirt Size": "M"}
		if err := validateFormData(form, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("optional field may be omitted", func(t *testing.T) {
		data := map[string]interface{}{"Team Name": "Null Pointers"}
		if err := validateFormData(form, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		data := map[string]interface{}{"T-Shirt Size": "S"}
		err := validateFormData(form, data)
		if err == nil || !strings.Contains(err.Error(), "Team Name") {
			t.Fatalf("want missing-field error naming Team Name, got %v", err)
		}
	})

	t.Run("empty string fails required", func(t *testing.T) {
		data := map[string]interface{}{"Team Name": ""}
		if err := validateFormData(form, data); err == nil {
			t.Fatal("empty required field accepted")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		data := map[string]interface{}{"Team Name": "x", "Dietary": "veg"}
		err := validateFormData(form, data)
		if err == nil || !strings.Contains(err.Error(), "Dietary") {
			t.Fatalf("want unknown-field error naming Dietary, got %v", err)
		}
	})

	t.Run("empty form accepts empty data", func(t *testing.T) {
		if err := validateFormData(nil, map[string]interface{}{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestQRPayloadCarriesTicketEventAndParticipant(t *testing.T) {
	payload, err := qrPayload(&Ticket{TicketID: "TKT-ABC123-XY9Z", EventID: 7, ParticipantID: 42})
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		TicketID      string `json:"ticketId"`
		EventID       uint   `json:"eventId"`
		ParticipantID uint   `json:"participantId"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}

	if decoded.TicketID != "TKT-ABC123-XY9Z" || decoded.EventID != 7 || decoded.ParticipantID != 42 {
		t.Errorf("unexpected payload %s", payload)
	}
}

func TestEligible(t *testing.T) {
	iiit := &auth.Participant{ParticipantType: auth.TypeIIIT}
	outside := &auth.Participant{ParticipantType: auth.TypeNonIIIT}

	cases := []struct {
		eligibility string
		participant *auth.Participant
		want        bool
	}{
		{event.EligibilityAll, iiit, true},
		{event.EligibilityAll, outside, true},
		{event.EligibilityIIIT, iiit, true},
		{event.EligibilityIIIT, outside, false},
		{event.EligibilityNonIIIT, outside, true},
		{event.EligibilityNonIIIT, iiit, false},
	}

	for _, tc := range cases {
		e := &event.Event{Eligibility: tc.eligibility}
		if got := eligible(e, tc.participant); got != tc.want {
			t.Errorf("eligible(%s, %s) = %v, want %v",
				tc.eligibility, tc.participant.ParticipantType, got, tc.want)
		}
	}
}
