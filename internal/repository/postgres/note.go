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

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

const noteColumns = `
	id, location_id, patient_id, clinician_id, appointment_id,
	note_type, note_style, status, fields, content,
	session_date, date_of_service, time_of_service, duration_mins,
	cpt_code, diagnosis, signed_by, signed_at, signer_ip,
	created_at, updated_at, deleted_at
`

const noteInsert = `
	INSERT INTO notes (
		id, location_id, patient_id, clinician_id, appointment_id,
		note_type, note_style, status, fields, content,
		session_date, date_of_service, time_of_service, duration_mins,
		cpt_code, diagnosis, signed_by, signed_at, signer_ip,
		created_at, updated_at
	) VALUES (
		:id, :location_id, :patient_id, :clinician_id, :appointment_id,
		:note_type, :note_style, :status, :fields, :content,
		:session_date, :date_of_service, :time_of_service, :duration_mins,
		:cpt_code, :diagnosis, :signed_by, :signed_at, :signer_ip,
		:created_at, :updated_at
	)
`

func (r *noteRepository) Create(ctx context.Context, note *model.ProgressNote) error {
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, noteInsert, note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *noteRepository) Get(ctx context.Context, locationID, id uuid.UUID) (*model.ProgressNote, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	var note model.ProgressNote
	err := r.db.GetContext(ctx, &note, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

func (r *noteRepository) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	// Signed notes are immutable; the guard lives in the service, this
	// query only protects against races.
	query := `
		UPDATE notes SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND location_id = $2 AND status <> 'signed' AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireRow(res)
}

func (r *noteRepository) List(ctx context.Context, filters *model.NoteFilters) ([]*model.ProgressNote, error) {
	where := `WHERE location_id = $1 AND deleted_at IS NULL`
	args := []interface{}{filters.LocationID}

	if filters.PatientID != uuid.Nil {
		args = append(args, filters.PatientID)
		where += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if filters.NoteType != "" {
		args = append(args, filters.NoteType)
		where += fmt.Sprintf(" AND note_type = $%d", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filters.StartDate.IsZero() {
		args = append(args, filters.StartDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filters.EndDate.IsZero() {
		args = append(args, filters.EndDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	query := `SELECT ` + noteColumns + ` FROM notes ` + where + ` ORDER BY created_at DESC`
	var notes []*model.ProgressNote
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) GetDraft(ctx context.Context, locationID, patientID uuid.UUID) (*model.ProgressNote, error) {
	query := `
		SELECT ` + noteColumns + ` FROM notes
		WHERE patient_id = $1 AND location_id = $2 AND status = 'draft' AND deleted_at IS NULL
	`
	var note model.ProgressNote
	err := r.db.GetContext(ctx, &note, query, patientID, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &note, nil
}

// UpsertDraft overwrites the patient's single draft slot. A repeated save
// keeps the original created_at and id; only updated_at moves.
func (r *noteRepository) UpsertDraft(ctx context.Context, note *model.ProgressNote) error {
	existing, err := r.GetDraft(ctx, note.LocationID, note.PatientID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if existing != nil {
		note.ID = existing.ID
		note.CreatedAt = existing.CreatedAt
		note.UpdatedAt = time.Now()
		query := `
			UPDATE notes SET
				clinician_id = :clinician_id, appointment_id = :appointment_id,
				note_type = :note_type, note_style = :note_style,
				fields = :fields, content = :content,
				session_date = :session_date, date_of_service = :date_of_service,
				time_of_service = :time_of_service, duration_mins = :duration_mins,
				cpt_code = :cpt_code, diagnosis = :diagnosis, updated_at = :updated_at
			WHERE id = :id AND location_id = :location_id AND status = 'draft'
		`
		res, err := r.db.NamedExecContext(ctx, query, note)
		if err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		return requireRow(res)
	}

	note.Status = model.NoteStatusDraft
	return r.Create(ctx, note)
}

func (r *noteRepository) DeleteDraft(ctx context.Context, locationID, patientID uuid.UUID) error {
	query := `DELETE FROM notes WHERE patient_id = $1 AND location_id = $2 AND status = 'draft'`
	res, err := r.db.ExecContext(ctx, query, patientID, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return requireRow(res)
}

// Sign inserts the signed note and clears the draft slot atomically, so
// a signed note and a surviving draft can never coexist.
func (r *noteRepository) Sign(ctx context.Context, note *model.ProgressNote) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sign transaction: %w", err)
	}
	defer tx.Rollback()

	// Keep the draft's created_at when one is carried over so the visit
	// timeline fallback timestamp survives signing.
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	note.UpdatedAt = time.Now()
	if _, err := tx.NamedExecContext(ctx, noteInsert, note); err != nil {
		return fmt.Errorf("failed to insert signed note: %w", err)
	}

	del := `DELETE FROM notes WHERE patient_id = $1 AND location_id = $2 AND status = 'draft'`
	if _, err := tx.ExecContext(ctx, del, note.PatientID, note.LocationID); err != nil {
		return fmt.Errorf("failed to clear draft slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sign transaction: %w", err)
	}
	return nil
}
