package ticket

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
)

// BuildReceipt renders a downloadable PDF receipt for one ticket.
func BuildReceipt(t *Ticket, e *event.Event, p *auth.Participant) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Ticket Receipt")
	pdf.Ln(16)

	row := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(55, 8, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(120, 8, value, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	row("Ticket ID", t.TicketID)
	row("Event", e.EventName)
	row("Participant", fmt.Sprintf("%s %s", p.FirstName, p.LastName))
	row("Email", p.Email)
	row("Status", t.Status)
	row("Event Date", e.EventStartDate.Format("2006-01-02 15:04"))

	if t.Quantity > 0 {
		row("Item", t.VariantLabel)
		row("Quantity", fmt.Sprintf("%d", t.Quantity))
	}
	if t.TotalAmount != nil {
		row("Amount Paid", fmt.Sprintf("INR %.2f", *t.TotalAmount))
		if t.PaymentStatus != nil {
			row("Payment", *t.PaymentStatus)
		}
	} else {
		row("Amount Paid", "Free")
	}
	row("Issued At", t.CreatedAt.Format("2006-01-02 15:04:05"))

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Present the QR code from your tickets page at the venue.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Receipt builds the PDF for a ticket owned by the calling participant.
func (s *Service) Receipt(code string, p *auth.Participant) ([]byte, string, error) {
	t, err := s.getOwnTicket(code, p)
	if err != nil {
		return nil, "", err
	}

	e, err := s.EventRepo.GetByID(t.EventID)
	if err != nil {
		return nil, "", err
	}

	data, err := BuildReceipt(t, e, p)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("receipt_%s.pdf", t.TicketID), nil
}
