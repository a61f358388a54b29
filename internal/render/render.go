package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
)

// NoteDocument bundles everything a printable note needs: the practice
// letterhead, the patient, and the note itself.
type NoteDocument struct {
	Practice *model.PracticeInfo
	Patient  *model.Patient
	Note     *model.ProgressNote
}

// serviceDate picks the display date: explicit date of service first,
// then session date, then creation time.
func (d *NoteDocument) serviceDate() string {
	n := d.Note
	if n.DateOfService != "" {
		if n.TimeOfService != "" {
			return n.DateOfService + " " + n.TimeOfService
		}
		return n.DateOfService
	}
	if n.SessionDate != nil {
		return n.SessionDate.Format("2006-01-02")
	}
	return n.CreatedAt.Format("2006-01-02")
}

func (d *NoteDocument) signatureLine() string {
	n := d.Note
	if !n.IsSigned() || n.SignedBy == nil {
		return "UNSIGNED DRAFT"
	}
	line := "Electronically signed by " + *n.SignedBy
	if n.SignedAt != nil {
		line += " on " + n.SignedAt.Format(time.RFC1123)
	}
	if n.SignerIP != nil {
		line += " (IP: " + *n.SignerIP + ")"
	}
	return line
}

// Text renders the note as plain text for copy/export.
func Text(doc *NoteDocument) string {
	var b strings.Builder

	if doc.Practice != nil && doc.Practice.Name != "" {
		b.WriteString(doc.Practice.Name + "\n")
		if doc.Practice.Address != "" {
			b.WriteString(doc.Practice.Address + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Patient: %s\n", doc.Patient.FullName())
	fmt.Fprintf(&b, "Date of Service: %s\n", doc.serviceDate())
	if doc.Note.CPTCode != "" {
		fmt.Fprintf(&b, "CPT: %s\n", doc.Note.CPTCode)
	}
	if doc.Note.Diagnosis != "" {
		b.WriteString("Diagnosis:\n" + doc.Note.Diagnosis + "\n")
	}
	b.WriteString("\n")
	b.WriteString(doc.Note.Content)
	b.WriteString("\n\n")
	b.WriteString(doc.signatureLine())
	b.WriteString("\n")
	return b.String()
}
