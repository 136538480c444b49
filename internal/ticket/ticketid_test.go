package ticket

import (
	"regexp"
	"testing"
)

var ticketIDPattern = regexp.MustCompile(`^TKT-[0-9A-Z]+-[0-9A-Z]{4}$`)

func TestNewTicketIDFormat(t *testing.T) {
	id, err := NewTicketID()
	if err != nil {
		t.Fatalf("NewTicketID: %v", err)
	}
	if !ticketIDPattern.MatchString(id) {
		t.Fatalf("ticket id %q does not match expected format", id)
	}
}

func TestNewTicketIDIsRandomized(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := NewTicketID()
		if err != nil {
			t.Fatalf("NewTicketID: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ticket id %q within 50 draws", id)
		}
		seen[id] = true
	}
}
