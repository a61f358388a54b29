package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, location_id, patient_id, clinician_id, start_time, end_time,
			status, notes, cancel_reason, created_at, updated_at
		) VALUES (
			:id, :location_id, :patient_id, :clinician_id, :start_time, :end_time,
			:status, :notes, :cancel_reason, :created_at, :updated_at
		)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments SET
			start_time = :start_time, end_time = :end_time, status = :status,
			notes = :notes, cancel_reason = :cancel_reason, updated_at = :updated_at
		WHERE id = :id AND location_id = :location_id AND deleted_at IS NULL
	`
	appointment.UpdatedAt = time.Now()
	res, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return requireRow(res)
}

func (r *appointmentRepository) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	query := `UPDATE appointments SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return requireRow(res)
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	where := `WHERE location_id = $1 AND deleted_at IS NULL`
	args := []interface{}{filters.LocationID}

	if filters.PatientID != uuid.Nil {
		args = append(args, filters.PatientID)
		where += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if filters.ClinicianID != uuid.Nil {
		args = append(args, filters.ClinicianID)
		where += fmt.Sprintf(" AND clinician_id = $%d", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filters.StartDate.IsZero() {
		args = append(args, filters.StartDate)
		where += fmt.Sprintf(" AND start_time >= $%d", len(args))
	}
	if !filters.EndDate.IsZero() {
		args = append(args, filters.EndDate)
		where += fmt.Sprintf(" AND start_time <= $%d", len(args))
	}

	query := `SELECT * FROM appointments ` + where + ` ORDER BY start_time DESC`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
