package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/config"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	internalworker "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/worker"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/messaging/redis"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/metrics"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewBroker(redis.Config{URL: cfg.Redis.URL}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("ehr_worker")
	outboxRepo := postgres.NewOutboxRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	auditSvc := audit.NewService(auditRepo, log)

	processor := worker.NewOutboxProcessor(
		outboxRepo, broker, worker.DefaultOutboxProcessorConfig(), log, m)
	retention := internalworker.NewRetentionWorker(
		auditSvc, outboxRepo, cfg.Audit.RetentionDays, cfg.Audit.CleanupInterval, log)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		retention.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker")
	cancel()
	wg.Wait()
}
