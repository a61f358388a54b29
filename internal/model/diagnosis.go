package model

// Diagnosis is one selected ICD-10 code with its description. Patient
// diagnosis selections are an ordered list of these, stored as a single
// newline-delimited "CODE - description" text field for compatibility
// with free-text custom fields in downstream systems.
type Diagnosis struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type UpdateDiagnosisRequest struct {
	Diagnoses []Diagnosis `json:"diagnoses" binding:"required,dive"`
}

// ICDCode is a static ICD-10 catalog row.
type ICDCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// TreatmentPlanTemplate is static reference data used by the treatment
// plan builder: for one presenting problem it lists the goals,
// measurable objectives and interventions a clinician can pick from.
type TreatmentPlanTemplate struct {
	Problem       string   `json:"problem"`
	Goals         []string `json:"goals"`
	Objectives    []string `json:"objectives"`
	Interventions []string `json:"interventions"`
}
