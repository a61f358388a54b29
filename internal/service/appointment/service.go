package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	auditor      *audit.Service
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	auditor *audit.Service,
) *Service {
	return &Service{appointments: appointments, patients: patients, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, locationID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.Validation("end time must be after start time", nil)
	}
	if _, err := s.patients.Get(ctx, locationID, req.PatientID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, err
	}

	appt := &model.Appointment{
		LocationID:  locationID,
		PatientID:   req.PatientID,
		ClinicianID: req.ClinicianID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.AppointmentStatusScheduled,
		Notes:       req.Notes,
	}
	appt.ID = uuid.New()

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityAppointment, appt.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"patient_id": req.PatientID, "start_time": req.StartTime},
	})
	return appt, nil
}

func (s *Service) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.appointments.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	return appt, err
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, locationID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.appointments.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		appt.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		appt.EndTime = *req.EndTime
	}
	if !appt.EndTime.After(appt.StartTime) {
		return nil, apperrors.Validation("end time must be after start time", nil)
	}
	if req.Status != nil {
		switch *req.Status {
		case model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed,
			model.AppointmentStatusCancelled, model.AppointmentStatusCompleted:
		default:
			return nil, apperrors.Validation("unknown appointment status", nil)
		}
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}
	if req.CancelReason != nil {
		appt.CancelReason = req.CancelReason
	}
	if appt.Status == model.AppointmentStatusCancelled && appt.CancelReason == nil {
		reason := "cancelled without reason"
		appt.CancelReason = &reason
	}

	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityAppointment, id, &audit.LogOptions{
		Changes: req,
	})
	return appt, nil
}

func (s *Service) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	err := s.appointments.Delete(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return err
	}
	s.auditor.Log(ctx, model.AuditActionDelete, model.AuditEntityAppointment, id, nil)
	return nil
}
