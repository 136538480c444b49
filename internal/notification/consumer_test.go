package notification

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBuildWebhookPayload(t *testing.T) {
	start := time.Date(2026, 2, 20, 18, 0, 0, 0, time.UTC)
	msg := &Message{
		DeliveryID:    "d-1",
		OrganizerName: "Music Club",
		EventName:     "Battle of Bands",
		Description:   "Annual inter-college band competition",
		StartDate:     start,
		Deadline:      start.Add(-48 * time.Hour),
		QueuedAt:      start.Add(-7 * 24 * time.Hour),
	}

	body, err := BuildWebhookPayload(msg)
	if err != nil {
		t.Fatalf("BuildWebhookPayload: %v", err)
	}

	var payload struct {
		Username string `json:"username"`
		Embeds   []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Fields      []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if payload.Username != "Music Club" {
		t.Errorf("username = %q, want Music Club", payload.Username)
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("want exactly one embed, got %d", len(payload.Embeds))
	}
	if payload.Embeds[0].Title != "Battle of Bands" {
		t.Errorf("embed title = %q", payload.Embeds[0].Title)
	}
	if len(payload.Embeds[0].Fields) != 2 {
		t.Errorf("want start and deadline fields, got %d", len(payload.Embeds[0].Fields))
	}
}

func TestBuildWebhookPayloadWithoutDates(t *testing.T) {
	msg := &Message{
		DeliveryID:    "d-2",
		OrganizerName: "Drama Society",
		EventName:     "Announcement",
		Description:   "Auditions postponed to next week",
		QueuedAt:      time.Now(),
	}

	body, err := BuildWebhookPayload(msg)
	if err != nil {
		t.Fatalf("BuildWebhookPayload: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	embeds := payload["embeds"].([]interface{})
	embed := embeds[0].(map[string]interface{})
	if _, hasFields := embed["fields"]; hasFields {
		t.Error("date-less messages should not carry embed fields")
	}
}
