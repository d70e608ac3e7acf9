package services

import (
	"bytes"
	"fmt"
	"sort"

	"helpdesk/internal/repositories"

	"github.com/phpdave11/gofpdf"
)

// ExportService renders printable ticket summary sheets.
type ExportService struct{}

// TicketSummary builds a one-page PDF for the ticket, custom fields
// included. Returns the document bytes and a suggested filename.
func (s ExportService) TicketSummary(t repositories.Ticket) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ticket "+t.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("Ticket #%s", t.Number))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Status     : %s", t.StatusName),
		fmt.Sprintf("Topic      : %s", orDash(t.TopicName)),
		fmt.Sprintf("Department : %s", orDash(t.DeptName)),
		fmt.Sprintf("Owner      : %s <%s>", t.UserName, t.UserEmail),
		fmt.Sprintf("Created    : %s", t.Created.Format("2006-01-02 15:04:05")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if len(t.CustomFields) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Custom fields")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 12)

		names := make([]string, 0, len(t.CustomFields))
		for name := range t.CustomFields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pdf.Cell(0, 7, fmt.Sprintf("%s : %v", name, t.CustomFields[name]))
			pdf.Ln(7)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ticket-%s.pdf", t.Number), nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
