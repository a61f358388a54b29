package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
)

// MaxFileSize bounds uploaded patient documents; content is stored
// inline in the database row.
const MaxFileSize = 10 << 20

type Service struct {
	patients repository.PatientRepository
	files    repository.PatientFileRepository
	outbox   repository.OutboxRepository
	auditor  *audit.Service
	logger   *logger.Logger
}

func NewService(
	patients repository.PatientRepository,
	files repository.PatientFileRepository,
	outbox repository.OutboxRepository,
	auditor *audit.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		patients: patients,
		files:    files,
		outbox:   outbox,
		auditor:  auditor,
		logger:   log.WithComponent("patient"),
	}
}

func (s *Service) Create(ctx context.Context, locationID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		LocationID:  locationID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Address:     req.Address,
		Status:      string(model.PatientStatusActive),
	}
	patient.ID = uuid.New()

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.publishCreated(ctx, patient)
	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityPatient, patient.ID, &audit.LogOptions{
		Changes: map[string]interface{}{"name": patient.FullName(), "email": patient.Email},
	})
	return patient, nil
}

func (s *Service) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, err
	}
	s.auditor.Log(ctx, model.AuditActionRead, model.AuditEntityPatient, id, nil)
	return patient, nil
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int64, error) {
	filters.Normalize()
	return s.patients.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, locationID, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityPatient, id, &audit.LogOptions{
		Changes: req,
	})
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	err := s.patients.Delete(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	if err != nil {
		return err
	}
	s.auditor.Log(ctx, model.AuditActionDelete, model.AuditEntityPatient, id, nil)
	return nil
}

// UpdateAdminNotes replaces the free-text administrative notes shown on
// the patient header. These are not clinical notes and carry no
// signing semantics.
func (s *Service) UpdateAdminNotes(ctx context.Context, locationID, id uuid.UUID, notes string) error {
	err := s.patients.UpdateAdminNotes(ctx, locationID, id, notes)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	if err != nil {
		return err
	}
	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityPatient, id, &audit.LogOptions{
		Metadata: map[string]interface{}{"field": "admin_notes"},
	})
	return nil
}

func (s *Service) UpdateInsurance(ctx context.Context, locationID, id uuid.UUID, req *model.UpdateInsuranceRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, err
	}

	patient.InsurancePayer = req.Payer
	patient.InsuranceMember = req.MemberID
	patient.InsuranceGroup = req.GroupNumber
	patient.InsuranceCopay = req.CopayCents

	if err := s.patients.UpdateInsurance(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update insurance: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityPatient, id, &audit.LogOptions{
		Metadata: map[string]interface{}{"field": "insurance", "payer": req.Payer},
	})
	return patient, nil
}

func (s *Service) UploadFile(ctx context.Context, locationID, patientID uuid.UUID, name, contentType string, content []byte) (*model.PatientFile, error) {
	if len(content) == 0 {
		return nil, apperrors.Validation("file is empty", nil)
	}
	if len(content) > MaxFileSize {
		return nil, apperrors.Validation("file exceeds maximum size", nil)
	}
	if _, err := s.patients.Get(ctx, locationID, patientID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, err
	}

	sess := model.SessionFromContext(ctx)
	if sess == nil {
		return nil, apperrors.Unauthorized(errors.New("no session in context"))
	}

	file := &model.PatientFile{
		ID:          uuid.New(),
		PatientID:   patientID,
		LocationID:  locationID,
		Name:        name,
		ContentType: contentType,
		SizeBytes:   int64(len(content)),
		Content:     content,
		UploadedBy:  sess.UserID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityFile, file.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"patient_id": patientID, "name": name},
	})
	return file, nil
}

func (s *Service) GetFile(ctx context.Context, locationID, id uuid.UUID) (*model.PatientFile, error) {
	file, err := s.files.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("file", err)
	}
	return file, err
}

func (s *Service) ListFiles(ctx context.Context, locationID, patientID uuid.UUID) ([]*model.PatientFile, error) {
	return s.files.ListByPatient(ctx, locationID, patientID)
}

func (s *Service) DeleteFile(ctx context.Context, locationID, id uuid.UUID) error {
	err := s.files.Delete(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("file", err)
	}
	if err != nil {
		return err
	}
	s.auditor.Log(ctx, model.AuditActionDelete, model.AuditEntityFile, id, nil)
	return nil
}

func (s *Service) publishCreated(ctx context.Context, patient *model.Patient) {
	payload, err := json.Marshal(map[string]interface{}{
		"patient_id":  patient.ID,
		"location_id": patient.LocationID,
		"name":        patient.FullName(),
	})
	if err != nil {
		s.logger.Error(err, "failed to encode patient created event", "patient_id", patient.ID.String())
		return
	}
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventPatientCreated,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue patient created event", "patient_id", patient.ID.String())
	}
}
