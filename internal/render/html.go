package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var noteTemplate = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Clinical Note - {{.PatientName}}</title>
<style>
  body { font-family: Georgia, serif; margin: 2em auto; max-width: 48em; color: #222; }
  .letterhead { border-bottom: 2px solid #222; padding-bottom: 0.5em; margin-bottom: 1.5em; }
  .letterhead h1 { margin: 0; font-size: 1.3em; }
  .meta td { padding-right: 2em; }
  .section h2 { font-size: 1em; letter-spacing: 0.05em; margin-bottom: 0.2em; }
  .section p { margin-top: 0; white-space: pre-wrap; }
  .signature { margin-top: 2em; border-top: 1px solid #888; padding-top: 0.5em; font-style: italic; }
  .draft { color: #a00; font-weight: bold; }
</style>
</head>
<body>
{{if .PracticeName}}<div class="letterhead">
  <h1>{{.PracticeName}}</h1>
  {{if .PracticeAddress}}<div>{{.PracticeAddress}}</div>{{end}}
  {{if .PracticePhone}}<div>{{.PracticePhone}}</div>{{end}}
  {{if .NPI}}<div>NPI: {{.NPI}}</div>{{end}}
</div>{{end}}
<table class="meta">
  <tr><td><strong>Patient:</strong> {{.PatientName}}</td>
      <td><strong>Date of Service:</strong> {{.ServiceDate}}</td></tr>
  {{if .CPTCode}}<tr><td colspan="2"><strong>CPT:</strong> {{.CPTCode}}</td></tr>{{end}}
</table>
{{if .Diagnoses}}<div class="section">
  <h2>DIAGNOSIS</h2>
  <p>{{range .Diagnoses}}{{.}}<br>{{end}}</p>
</div>{{end}}
{{range .Sections}}<div class="section">
  <h2>{{.Header}}</h2>
  <p>{{.Body}}</p>
</div>{{end}}
<div class="signature{{if .Draft}} draft{{end}}">{{.Signature}}</div>
</body>
</html>
`))

type htmlSection struct {
	Header string
	Body   string
}

type htmlNote struct {
	PracticeName    string
	PracticeAddress string
	PracticePhone   string
	NPI             string
	PatientName     string
	ServiceDate     string
	CPTCode         string
	Diagnoses       []string
	Sections        []htmlSection
	Signature       string
	Draft           bool
}

// HTML renders the note as a standalone printable page.
func HTML(doc *NoteDocument) ([]byte, error) {
	data := htmlNote{
		PatientName: doc.Patient.FullName(),
		ServiceDate: doc.serviceDate(),
		CPTCode:     doc.Note.CPTCode,
		Signature:   doc.signatureLine(),
		Draft:       !doc.Note.IsSigned(),
	}
	if doc.Practice != nil {
		data.PracticeName = doc.Practice.Name
		data.PracticeAddress = doc.Practice.Address
		data.PracticePhone = doc.Practice.Phone
		data.NPI = doc.Practice.NPI
	}
	if doc.Note.Diagnosis != "" {
		for _, line := range strings.Split(doc.Note.Diagnosis, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				data.Diagnoses = append(data.Diagnoses, line)
			}
		}
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
		data.Sections = append(data.Sections, htmlSection{Header: section.Header, Body: body})
	}

	var buf bytes.Buffer
	if err := noteTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render note html: %w", err)
	}
	return buf.Bytes(), nil
}
