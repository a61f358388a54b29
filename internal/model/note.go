package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NoteType string

const (
	NoteTypeProgress           NoteType = "progress_note"
	NoteTypeChart              NoteType = "chart_note"
	NoteTypeDiagnosisTreatment NoteType = "diagnosis_treatment"
)

type NoteStyle string

const (
	NoteStyleSOAP          NoteStyle = "soap"
	NoteStyleDAP           NoteStyle = "dap"
	NoteStyleBIRP          NoteStyle = "birp"
	NoteStyleGIRP          NoteStyle = "girp"
	NoteStyleComprehensive NoteStyle = "comprehensive"
	NoteStyleFreeform      NoteStyle = "freeform"
)

type NoteStatus string

const (
	NoteStatusDraft  NoteStatus = "draft"
	NoteStatusSigned NoteStatus = "signed"
)

// NoteSection pairs a field key with its display header; the order of a
// style's sections is the order they are assembled and rendered in.
type NoteSection struct {
	Field  string
	Header string
}

// noteStyleSections defines, per style, the ordered sections and which of
// them must be present before the note can be signed. Required is a prefix
// property here: every listed section is required for its style.
var noteStyleSections = map[NoteStyle][]NoteSection{
	NoteStyleSOAP: {
		{Field: "subjective", Header: "SUBJECTIVE"},
		{Field: "objective", Header: "OBJECTIVE"},
		{Field: "assessment", Header: "ASSESSMENT"},
		{Field: "plan", Header: "PLAN"},
	},
	NoteStyleDAP: {
		{Field: "data", Header: "DATA"},
		{Field: "assessment", Header: "ASSESSMENT"},
		{Field: "plan", Header: "PLAN"},
	},
	NoteStyleBIRP: {
		{Field: "behavior", Header: "BEHAVIOR"},
		{Field: "intervention", Header: "INTERVENTION"},
		{Field: "response", Header: "RESPONSE"},
		{Field: "plan", Header: "PLAN"},
	},
	NoteStyleGIRP: {
		{Field: "goal", Header: "GOAL"},
		{Field: "intervention", Header: "INTERVENTION"},
		{Field: "response", Header: "RESPONSE"},
		{Field: "plan", Header: "PLAN"},
	},
	NoteStyleComprehensive: {
		{Field: "presenting_problem", Header: "PRESENTING PROBLEM"},
		{Field: "mental_status", Header: "MENTAL STATUS"},
		{Field: "risk_assessment", Header: "RISK ASSESSMENT"},
		{Field: "interventions", Header: "INTERVENTIONS"},
		{Field: "assessment", Header: "ASSESSMENT"},
		{Field: "plan", Header: "PLAN"},
	},
	NoteStyleFreeform: {
		{Field: "content", Header: "NOTE"},
	},
}

// Sections returns the ordered sections for a style, nil if unknown.
func (s NoteStyle) Sections() []NoteSection {
	return noteStyleSections[s]
}

// Valid reports whether the style is one of the known variants.
func (s NoteStyle) Valid() bool {
	_, ok := noteStyleSections[s]
	return ok
}

func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeProgress, NoteTypeChart, NoteTypeDiagnosisTreatment:
		return true
	}
	return false
}

// Numbered reports whether entries of this type take part in visit
// numbering. Chart notes and diagnosis/treatment records never do.
func (t NoteType) Numbered() bool {
	return t == NoteTypeProgress
}

type ProgressNote struct {
	Base
	LocationID    uuid.UUID  `db:"location_id" json:"location_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	ClinicianID   uuid.UUID  `db:"clinician_id" json:"clinician_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`

	NoteType  NoteType   `db:"note_type" json:"note_type"`
	NoteStyle NoteStyle  `db:"note_style" json:"note_style"`
	Status    NoteStatus `db:"status" json:"status"`

	// Fields holds the per-style section contents keyed by section field
	// name; Content is the assembled flat text derived from them.
	Fields  json.RawMessage `db:"fields" json:"fields,omitempty"`
	Content string          `db:"content" json:"content"`

	SessionDate   *time.Time `db:"session_date" json:"session_date,omitempty"`
	DateOfService string     `db:"date_of_service" json:"date_of_service,omitempty"`
	TimeOfService string     `db:"time_of_service" json:"time_of_service,omitempty"`
	DurationMins  int        `db:"duration_mins" json:"duration_mins,omitempty"`
	CPTCode       string     `db:"cpt_code" json:"cpt_code,omitempty"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis,omitempty"`

	SignedBy *string    `db:"signed_by" json:"signed_by,omitempty"`
	SignedAt *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	SignerIP *string    `db:"signer_ip" json:"signer_ip,omitempty"`
}

// SectionMap decodes the raw per-style fields.
func (n *ProgressNote) SectionMap() (map[string]string, error) {
	fields := map[string]string{}
	if len(n.Fields) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(n.Fields, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (n *ProgressNote) IsSigned() bool {
	return n.Status == NoteStatusSigned
}

type SaveDraftRequest struct {
	NoteType      NoteType          `json:"note_type" binding:"required"`
	NoteStyle     NoteStyle         `json:"note_style" binding:"required"`
	AppointmentID *uuid.UUID        `json:"appointment_id"`
	Fields        map[string]string `json:"fields"`
	SessionDate   *time.Time        `json:"session_date"`
	DateOfService string            `json:"date_of_service"`
	TimeOfService string            `json:"time_of_service"`
	DurationMins  int               `json:"duration_mins"`
	CPTCode       string            `json:"cpt_code"`
	Diagnosis     string            `json:"diagnosis"`
}

type SignNoteRequest struct {
	SaveDraftRequest
	SignatureName string `json:"signature_name" binding:"required"`
}

type NoteFilters struct {
	LocationID uuid.UUID
	PatientID  uuid.UUID
	NoteType   NoteType
	Status     NoteStatus
	StartDate  time.Time
	EndDate    time.Time
}
