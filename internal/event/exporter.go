package event

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// ParticipantExporter renders an event's participant list for download.
type ParticipantExporter interface {
	Export(format string, e *Event, rows []ParticipantRow) ([]byte, string, string, error)
}

type participantExporter struct{}

func NewParticipantExporter() ParticipantExporter {
	return &participantExporter{}
}

// Export returns the file bytes, a filename and the content type.
func (x *participantExporter) Export(format string, e *Event, rows []ParticipantRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatCSV:
		data, err := x.exportCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("participants_event%d_%s.csv", e.ID, timestamp)
		return data, filename, "text/csv", nil

	case FormatExcel:
		data, err := x.exportExcel(e, rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("participants_event%d_%s.xlsx", e.ID, timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := x.exportPDF(e, rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("participants_event%d_%s.pdf", e.ID, timestamp)
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func (x *participantExporter) exportCSV(rows []ParticipantRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Ticket ID", "First Name", "Last Name", "Email", "Contact Number", "College", "Status", "Attended", "Registered At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		attended := "no"
		if r.Attended {
			attended = "yes"
		}
		record := []string{
			r.TicketID,
			r.FirstName,
			r.LastName,
			r.Email,
			r.ContactNumber,
			r.CollegeName,
			r.Status,
			attended,
			r.RegisteredAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (x *participantExporter) exportExcel(e *Event, rows []ParticipantRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Participants"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Ticket ID", "First Name", "Last Name", "Email", "Contact Number", "College", "Status", "Attended", "Registered At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		attended := "no"
		if r.Attended {
			attended = "yes"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.TicketID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.FirstName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.LastName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Email)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.ContactNumber)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.CollegeName)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Status)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), attended)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.RegisteredAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (x *participantExporter) exportPDF(e *Event, rows []ParticipantRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Participants - %s", e.EventName))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{45, 25, 25, 55, 28, 40, 22, 18, 30}
	headers := []string{"Ticket ID", "First Name", "Last Name", "Email", "Contact", "College", "Status", "Attended", "Registered At"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		attended := "no"
		if r.Attended {
			attended = "yes"
		}

		college := r.CollegeName
		if len(college) > 25 {
			college = college[:22] + "..."
		}

		pdf.CellFormat(widths[0], 6, r.TicketID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.FirstName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.LastName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Email, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.ContactNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, college, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[6], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[7], 6, attended, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[8], 6, r.RegisteredAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
