package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
)

// Service writes and queries the audit trail. Writes are best-effort:
// an audit failure is logged but never interrupts the calling workflow.
type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

func NewService(repo repository.AuditRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log.WithComponent("audit")}
}

type LogOptions struct {
	Changes  interface{}
	Metadata interface{}
}

// Log records one audit entry for the acting session. Identity, tenant
// and network attribution all come from the session context.
func (s *Service) Log(ctx context.Context, action, entityType string, entityID uuid.UUID, opts *LogOptions) {
	sess := model.SessionFromContext(ctx)
	if sess == nil {
		s.logger.Warn("audit log dropped: no session in context",
			"action", action, "entity_type", entityType)
		return
	}

	entry := &model.AuditLog{
		ID:         uuid.New(),
		LocationID: sess.LocationID,
		UserID:     sess.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  sess.IPAddress,
		UserAgent:  sess.UserAgent,
		CreatedAt:  time.Now(),
	}

	if opts != nil {
		if opts.Changes != nil {
			if raw, err := json.Marshal(opts.Changes); err == nil {
				entry.Changes = raw
			}
		}
		if opts.Metadata != nil {
			if raw, err := json.Marshal(opts.Metadata); err == nil {
				entry.Metadata = raw
			}
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to write audit log",
			"action", action, "entity_type", entityType, "entity_id", entityID.String())
	}
}

func (s *Service) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, int64, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) GetAggregateStats(ctx context.Context, filters *model.AuditFilters) (*model.AggregateStats, error) {
	return s.repo.GetAggregateStats(ctx, filters)
}

func (s *Service) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.DeleteBefore(ctx, before)
}
