package event

import (
	"strings"
	"testing"
	"time"
)

func TestICSContainsEventFields(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	e := &Event{
		ID:             42,
		EventName:      "Hack Night",
		Description:    "Overnight hackathon; bring laptops",
		EventStartDate: start,
		EventEndDate:   start.Add(12 * time.Hour),
		OrganizerName:  "Programming Club",
	}

	out := ICS(e)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:event-42@fest-management-system",
		"DTSTART:20260314T093000Z",
		"DTEND:20260314T213000Z",
		"SUMMARY:Hack Night",
		"DESCRIPTION:Overnight hackathon\\; bring laptops",
		"ORGANIZER;CN=Programming Club",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS output missing %q", want)
		}
	}

	if !strings.Contains(out, "\r\n") {
		t.Error("ICS lines must be CRLF terminated")
	}
}

func TestEscapeICS(t *testing.T) {
	got := escapeICS("a,b;c\nd\\e")
	want := "a\\,b\\;c\\nd\\\\e"
	if got != want {
		t.Fatalf("escapeICS = %q, want %q", got, want)
	}
}
