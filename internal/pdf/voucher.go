package pdf

import (
	"bytes"
	"fmt"

	"voucherbot/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// VoucherRenderer draws the e-voucher document
type VoucherRenderer struct {
	studio string
}

// NewVoucherRenderer creates a renderer that prints studio as the issuer
func NewVoucherRenderer(studio string) *VoucherRenderer {
	return &VoucherRenderer{studio: studio}
}

// Render returns a one-page landscape PDF with value, issue date and serial
func (r *VoucherRenderer) Render(v domain.Voucher) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.SetTitle("E-VOUCHER "+v.Code, true)
	pdf.SetCreator(r.studio, true)
	pdf.SetCreationDate(v.CreatedAt)
	pdf.AddPage()

	// frame
	pdf.SetFillColor(20, 20, 20)
	pdf.Rect(0, 0, 210, 148, "F")
	pdf.SetDrawColor(200, 30, 30)
	pdf.SetLineWidth(1.5)
	pdf.Rect(8, 8, 194, 132, "D")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetXY(8, 24)
	pdf.CellFormat(194, 14, "E-VOUCHER", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetX(8)
	pdf.CellFormat(194, 8, r.studio, "", 1, "C", false, 0, "")

	pdf.SetTextColor(200, 30, 30)
	pdf.SetFont("Helvetica", "B", 40)
	pdf.SetXY(8, 62)
	pdf.CellFormat(194, 20, fmt.Sprintf("%d PLN", v.Value), "", 1, "C", false, 0, "")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(20, 108)
	pdf.CellFormat(80, 8, "DATE: "+v.DateString(), "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, "SERIAL: "+v.Code, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetXY(8, 124)
	pdf.CellFormat(194, 6, "Non-refundable. Cannot be exchanged for cash.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render voucher %s: %w", v.Code, err)
	}
	return buf.Bytes(), nil
}
