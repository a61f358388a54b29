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

type claimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) repository.ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *model.Claim) error {
	query := `
		INSERT INTO claims (
			id, location_id, patient_id, note_id, payer_id, cpt_code, icd_codes,
			charge_cents, status, submitted_at, clearinghouse_id, reject_reason,
			created_at, updated_at
		) VALUES (
			:id, :location_id, :patient_id, :note_id, :payer_id, :cpt_code, :icd_codes,
			:charge_cents, :status, :submitted_at, :clearinghouse_id, :reject_reason,
			:created_at, :updated_at
		)
	`
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, claim); err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}
	return nil
}

func (r *claimRepository) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Claim, error) {
	query := `SELECT * FROM claims WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	var claim model.Claim
	err := r.db.GetContext(ctx, &claim, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return &claim, nil
}

func (r *claimRepository) Update(ctx context.Context, claim *model.Claim) error {
	query := `
		UPDATE claims SET
			status = :status, submitted_at = :submitted_at,
			clearinghouse_id = :clearinghouse_id, reject_reason = :reject_reason,
			updated_at = :updated_at
		WHERE id = :id AND location_id = :location_id AND deleted_at IS NULL
	`
	claim.UpdatedAt = time.Now()
	res, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	return requireRow(res)
}

func (r *claimRepository) List(ctx context.Context, filters *model.ClaimFilters) ([]*model.Claim, int64, error) {
	where := `WHERE location_id = $1 AND deleted_at IS NULL`
	args := []interface{}{filters.LocationID}

	if filters.PatientID != uuid.Nil {
		args = append(args, filters.PatientID)
		where += fmt.Sprintf(" AND patient_id = $%d", len(args))
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

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM claims `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count claims: %w", err)
	}

	filters.Normalize()
	args = append(args, filters.PageSize, filters.Offset())
	query := fmt.Sprintf(`SELECT * FROM claims %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	var claims []*model.Claim
	if err := r.db.SelectContext(ctx, &claims, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, total, nil
}
