package diagnosis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
)

// Service manages patient diagnosis selections and the static ICD-10
// and treatment-plan reference data behind the pickers.
type Service struct {
	patients repository.PatientRepository
	auditor  *audit.Service
}

func NewService(patients repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{patients: patients, auditor: auditor}
}

// Serialize flattens an ordered diagnosis list into the newline-delimited
// "CODE - description" form stored in the patient record.
func Serialize(diagnoses []model.Diagnosis) string {
	lines := make([]string, 0, len(diagnoses))
	for _, d := range diagnoses {
		lines = append(lines, fmt.Sprintf("%s - %s", d.Code, d.Description))
	}
	return strings.Join(lines, "\n")
}

// Parse is the inverse of Serialize. Lines without the separator are
// treated as a bare code; blank lines are skipped.
func Parse(s string) []model.Diagnosis {
	var diagnoses []model.Diagnosis
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		code, desc, found := strings.Cut(line, " - ")
		if !found {
			diagnoses = append(diagnoses, model.Diagnosis{Code: line})
			continue
		}
		diagnoses = append(diagnoses, model.Diagnosis{Code: code, Description: desc})
	}
	return diagnoses
}

func (s *Service) GetPatientDiagnoses(ctx context.Context, locationID, patientID uuid.UUID) ([]model.Diagnosis, error) {
	raw, err := s.patients.GetDiagnosis(ctx, locationID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient diagnoses: %w", err)
	}
	return Parse(raw), nil
}

func (s *Service) UpdatePatientDiagnoses(ctx context.Context, locationID, patientID uuid.UUID, diagnoses []model.Diagnosis) error {
	for _, d := range diagnoses {
		if strings.TrimSpace(d.Code) == "" {
			return apperrors.Validation("diagnosis code is required", nil)
		}
	}

	raw := Serialize(diagnoses)
	if err := s.patients.UpdateDiagnosis(ctx, locationID, patientID, raw); err != nil {
		return fmt.Errorf("failed to update patient diagnoses: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityPatient, patientID, &audit.LogOptions{
		Changes: map[string]interface{}{"diagnosis": raw},
	})
	return nil
}

// SearchCodes filters the static ICD-10 catalog by code prefix or
// description substring, case-insensitively.
func (s *Service) SearchCodes(query string, limit int) []model.ICDCode {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query = strings.ToLower(strings.TrimSpace(query))

	var results []model.ICDCode
	for _, code := range icdCatalog {
		if query != "" &&
			!strings.HasPrefix(strings.ToLower(code.Code), query) &&
			!strings.Contains(strings.ToLower(code.Description), query) {
			continue
		}
		results = append(results, code)
		if len(results) >= limit {
			break
		}
	}
	return results
}

// Templates returns the treatment plan template library, optionally
// filtered by presenting problem.
func (s *Service) Templates(problem string) []model.TreatmentPlanTemplate {
	if problem == "" {
		return treatmentPlanTemplates
	}
	problem = strings.ToLower(problem)
	var results []model.TreatmentPlanTemplate
	for _, t := range treatmentPlanTemplates {
		if strings.Contains(strings.ToLower(t.Problem), problem) {
			results = append(results, t)
		}
	}
	return results
}
