package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
)

type Service struct {
	locations repository.LocationRepository
	auditor   *audit.Service
}

func NewService(locations repository.LocationRepository, auditor *audit.Service) *Service {
	return &Service{locations: locations, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, apperrors.Validation("unknown timezone", err)
	}

	loc := &model.Location{
		Name:     req.Name,
		Timezone: tz,
		Status:   model.LocationStatusActive,
	}
	loc.ID = uuid.New()

	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityLocation, loc.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"name": loc.Name},
	})
	return loc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	loc, err := s.locations.Get(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("location", err)
	}
	return loc, err
}

func (s *Service) List(ctx context.Context) ([]*model.Location, error) {
	return s.locations.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateLocationRequest) (*model.Location, error) {
	loc, err := s.locations.Get(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("location", err)
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, apperrors.Validation("unknown timezone", err)
		}
		loc.Timezone = *req.Timezone
	}
	if req.Status != nil {
		loc.Status = *req.Status
	}

	if err := s.locations.Update(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityLocation, id, &audit.LogOptions{Changes: req})
	return loc, nil
}
