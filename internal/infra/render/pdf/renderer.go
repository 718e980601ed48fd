package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"leihbar/internal/app/policies"
	domaincontracts "leihbar/internal/domain/contracts"
	domainrange "leihbar/internal/domain/shared/daterange"
)

// Renderer lays out a rental contract as an A4 PDF.
type Renderer struct{}

func NewRenderer() Renderer {
	return Renderer{}
}

func (Renderer) Render(ctx context.Context, c *domaincontracts.Contract) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Rental Contract", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RENTAL CONTRACT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Contract No.  : %s", c.ID),
		fmt.Sprintf("Booking No.   : %s", c.BookingID),
		fmt.Sprintf("Status        : %s", c.Status()),
		fmt.Sprintf("Created       : %s", c.CreatedAt.Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	writeParty(pdf, "Lessor (provider)", c.Lessor)
	writeParty(pdf, "Lessee (customer)", c.Lessee)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Subject of the agreement:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("%s (%s)", safe(c.OfferTitle), strings.ToLower(string(c.OfferType))), "", "", false)
	if desc := strings.TrimSpace(c.OfferDescription); desc != "" {
		pdf.MultiCell(0, 6, desc, "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rental period and price:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	details := []string{
		fmt.Sprintf("Period        : %s to %s (%d days, inclusive)",
			domainrange.FormatDay(c.Range.Start), domainrange.FormatDay(c.Range.End), c.DaysCount),
		fmt.Sprintf("Price per day : %s", c.PricePerDay),
		fmt.Sprintf("Total price   : %s", c.TotalPrice),
		fmt.Sprintf("Deposit       : %s (refundable)", c.DepositAmount),
	}
	for _, line := range details {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Terms and conditions:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, c.TermsAndConditions, "", "", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Signed by lessor : "+signatureLine(c.SignedByLessorAt))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Signed by lessee : "+signatureLine(c.SignedByLesseeAt))
	pdf.Ln(6)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeParty(pdf *gofpdf.Fpdf, label string, p domaincontracts.Party) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, label+":")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Name  : %s", safe(p.Name)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Email : %s", safe(p.Email)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("ID    : %s", safe(p.UserID)))
	pdf.Ln(9)
}

func signatureLine(signedAt time.Time) string {
	if signedAt.IsZero() {
		return "________________ (pending)"
	}
	return signedAt.Format("2006-01-02 15:04 MST")
}

func safe(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

var _ policies.DocumentRenderer = Renderer{}
