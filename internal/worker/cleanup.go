package worker

import (
	"context"
	"time"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
)

// RetentionWorker prunes expired audit logs and processed outbox rows.
// Audit retention defaults to seven years to satisfy record-keeping
// requirements; processed outbox rows only need to outlive debugging.
type RetentionWorker struct {
	auditor       *audit.Service
	outbox        repository.OutboxRepository
	retentionDays int
	interval      time.Duration
	logger        *logger.Logger
}

const processedOutboxRetention = 7 * 24 * time.Hour

func NewRetentionWorker(
	auditor *audit.Service,
	outbox repository.OutboxRepository,
	retentionDays int,
	interval time.Duration,
	log *logger.Logger,
) *RetentionWorker {
	if retentionDays <= 0 {
		retentionDays = 2555
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RetentionWorker{
		auditor:       auditor,
		outbox:        outbox,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        log.WithComponent("retention-worker"),
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("starting retention worker",
		"retention_days", w.retentionDays, "interval", w.interval.String())

	// One pass at startup so a rarely restarted worker still prunes.
	w.run(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down retention worker")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *RetentionWorker) run(ctx context.Context) {
	auditCutoff := time.Now().AddDate(0, 0, -w.retentionDays)
	if deleted, err := w.auditor.Cleanup(ctx, auditCutoff); err != nil {
		w.logger.Error(err, "failed to prune audit logs")
	} else if deleted > 0 {
		w.logger.Info("pruned audit logs", "deleted", deleted)
	}

	outboxCutoff := time.Now().Add(-processedOutboxRetention)
	if deleted, err := w.outbox.DeleteProcessedBefore(ctx, outboxCutoff); err != nil {
		w.logger.Error(err, "failed to prune outbox events")
	} else if deleted > 0 {
		w.logger.Info("pruned processed outbox events", "deleted", deleted)
	}
}
