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

type locationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *model.Location) error {
	query := `
		INSERT INTO locations (id, name, timezone, status, created_at, updated_at)
		VALUES (:id, :name, :timezone, :status, :created_at, :updated_at)
	`
	location.CreatedAt = time.Now()
	location.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, location); err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (r *locationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	query := `SELECT * FROM locations WHERE id = $1 AND deleted_at IS NULL`
	var location model.Location
	err := r.db.GetContext(ctx, &location, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &location, nil
}

func (r *locationRepository) Update(ctx context.Context, location *model.Location) error {
	query := `
		UPDATE locations SET name = :name, timezone = :timezone, status = :status, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL
	`
	location.UpdatedAt = time.Now()
	res, err := r.db.NamedExecContext(ctx, query, location)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	return requireRow(res)
}

func (r *locationRepository) List(ctx context.Context) ([]*model.Location, error) {
	query := `SELECT * FROM locations WHERE deleted_at IS NULL ORDER BY name`
	var locations []*model.Location
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}
