package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDF renders the note as a letter-format PDF. The library is linked
// statically; no external renderer is invoked.
func PDF(doc *NoteDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	if doc.Practice != nil && doc.Practice.Name != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 7, doc.Practice.Name, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		if doc.Practice.Address != "" {
			pdf.CellFormat(0, 5, doc.Practice.Address, "", 1, "C", false, 0, "")
		}
		if doc.Practice.Phone != "" {
			pdf.CellFormat(0, 5, doc.Practice.Phone, "", 1, "C", false, 0, "")
		}
		if doc.Practice.NPI != "" {
			pdf.CellFormat(0, 5, "NPI: "+doc.Practice.NPI, "", 1, "C", false, 0, "")
		}
		pdf.Ln(3)
		pdf.SetDrawColor(40, 40, 40)
		pdf.Line(20, pdf.GetY(), 196, pdf.GetY())
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Patient: "+doc.Patient.FullName(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date of Service: "+doc.serviceDate(), "", 1, "L", false, 0, "")
	if doc.Note.CPTCode != "" {
		pdf.CellFormat(0, 6, "CPT: "+doc.Note.CPTCode, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	if doc.Note.Diagnosis != "" {
		writeSection(pdf, "DIAGNOSIS", doc.Note.Diagnosis)
	}

	fields, err := doc.Note.SectionMap()
	if err != nil {
		return nil, fmt.Errorf("failed to decode note fields: %w", err)
	}
	for _, section := range doc.Note.NoteStyle.Sections() {
		body := strings.TrimSpace(fields[section.Field])
		if body == "" {
			continue
		}
		writeSection(pdf, section.Header, body)
	}

	pdf.Ln(6)
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(20, pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, doc.signatureLine(), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render note pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, header, body string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, header, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(2)
}
