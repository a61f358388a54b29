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

type patientFileRepository struct {
	db *sqlx.DB
}

func NewPatientFileRepository(db *sqlx.DB) repository.PatientFileRepository {
	return &patientFileRepository{db: db}
}

func (r *patientFileRepository) Create(ctx context.Context, file *model.PatientFile) error {
	query := `
		INSERT INTO patient_files (id, patient_id, location_id, name, content_type, size_bytes, content, uploaded_by, created_at)
		VALUES (:id, :patient_id, :location_id, :name, :content_type, :size_bytes, :content, :uploaded_by, :created_at)
	`
	file.CreatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("failed to create patient file: %w", err)
	}
	return nil
}

func (r *patientFileRepository) Get(ctx context.Context, locationID, id uuid.UUID) (*model.PatientFile, error) {
	query := `SELECT * FROM patient_files WHERE id = $1 AND location_id = $2`
	var file model.PatientFile
	err := r.db.GetContext(ctx, &file, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient file: %w", err)
	}
	return &file, nil
}

func (r *patientFileRepository) ListByPatient(ctx context.Context, locationID, patientID uuid.UUID) ([]*model.PatientFile, error) {
	// Content is omitted from listings; individual files are fetched by id.
	query := `
		SELECT id, patient_id, location_id, name, content_type, size_bytes, uploaded_by, created_at
		FROM patient_files WHERE location_id = $1 AND patient_id = $2 ORDER BY created_at DESC
	`
	var files []*model.PatientFile
	if err := r.db.SelectContext(ctx, &files, query, locationID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient files: %w", err)
	}
	return files, nil
}

func (r *patientFileRepository) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patient_files WHERE id = $1 AND location_id = $2`, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete patient file: %w", err)
	}
	return requireRow(res)
}
