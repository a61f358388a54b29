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

var ErrNotFound = errors.New("record not found")

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, location_id, first_name, last_name, email, phone,
			date_of_birth, gender, address, status, admin_notes,
			insurance_payer, insurance_member_id, insurance_group_number,
			insurance_copay_cents, created_at, updated_at
		) VALUES (
			:id, :location_id, :first_name, :last_name, :email, :phone,
			:date_of_birth, :gender, :address, :status, :admin_notes,
			:insurance_payer, :insurance_member_id, :insurance_group_number,
			:insurance_copay_cents, :created_at, :updated_at
		)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			first_name = :first_name, last_name = :last_name,
			email = :email, phone = :phone, date_of_birth = :date_of_birth,
			gender = :gender, address = :address, status = :status,
			updated_at = :updated_at
		WHERE id = :id AND location_id = :location_id AND deleted_at IS NULL
	`
	patient.UpdatedAt = time.Now()
	res, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return requireRow(res)
}

func (r *patientRepository) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	query := `UPDATE patients SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return requireRow(res)
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int64, error) {
	where := `WHERE location_id = $1 AND deleted_at IS NULL`
	args := []interface{}{filters.LocationID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.SearchTerm != "" {
		args = append(args, "%"+filters.SearchTerm+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM patients `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	filters.Normalize()
	args = append(args, filters.PageSize, filters.Offset())
	query := fmt.Sprintf(
		`SELECT * FROM patients %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}

func (r *patientRepository) UpdateAdminNotes(ctx context.Context, locationID, id uuid.UUID, notes string) error {
	query := `UPDATE patients SET admin_notes = $1, updated_at = NOW() WHERE id = $2 AND location_id = $3 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, notes, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to update admin notes: %w", err)
	}
	return requireRow(res)
}

func (r *patientRepository) GetDiagnosis(ctx context.Context, locationID, id uuid.UUID) (string, error) {
	query := `SELECT COALESCE(diagnosis, '') FROM patients WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	var diagnosis string
	err := r.db.GetContext(ctx, &diagnosis, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get diagnosis: %w", err)
	}
	return diagnosis, nil
}

func (r *patientRepository) UpdateDiagnosis(ctx context.Context, locationID, id uuid.UUID, diagnosis string) error {
	query := `UPDATE patients SET diagnosis = $1, updated_at = NOW() WHERE id = $2 AND location_id = $3 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, diagnosis, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to update diagnosis: %w", err)
	}
	return requireRow(res)
}

func (r *patientRepository) UpdateInsurance(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			insurance_payer = :insurance_payer,
			insurance_member_id = :insurance_member_id,
			insurance_group_number = :insurance_group_number,
			insurance_copay_cents = :insurance_copay_cents,
			updated_at = :updated_at
		WHERE id = :id AND location_id = :location_id AND deleted_at IS NULL
	`
	patient.UpdatedAt = time.Now()
	res, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("failed to update insurance: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
