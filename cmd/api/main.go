package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/config"
	appointmenthandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/appointment"
	audithandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/audit"
	authhandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/auth"
	billinghandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/billing"
	claimhandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/claim"
	diagnosishandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/diagnosis"
	healthhandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/health"
	locationhandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/location"
	notehandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/note"
	patienthandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/patient"
	timelinehandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/timeline"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/email"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/router"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/appointment"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/billing"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/claim"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/diagnosis"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/location"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/note"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/patient"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/timeline"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/user"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/auth"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/metrics"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      parseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("ehr")

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	fileRepo := postgres.NewPatientFileRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	feeRepo := postgres.NewFeeScheduleRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	payerRepo := postgres.NewPayerRepository(db)
	practiceRepo := postgres.NewPracticeInfoRepository(db)
	claimRepo := postgres.NewClaimRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	userRepo := postgres.NewUserRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Shared infrastructure
	tokens := auth.NewTokenManager(auth.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})
	hasher := security.NewBcryptHasher(0)

	var mailer email.Sender = email.NopSender{}
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPSender(&cfg.SMTP, log)
	}

	// Services
	auditSvc := audit.NewService(auditRepo, log)
	patientSvc := patient.NewService(patientRepo, fileRepo, outboxRepo, auditSvc, log)
	appointmentSvc := appointment.NewService(appointmentRepo, patientRepo, auditSvc)
	noteSvc := note.NewService(noteRepo, patientRepo, outboxRepo, auditSvc, m, log)
	timelineSvc := timeline.NewService(appointmentRepo, noteRepo, m, log)
	diagnosisSvc := diagnosis.NewService(patientRepo, auditSvc)
	billingSvc := billing.NewService(feeRepo, invoiceRepo, payerRepo, practiceRepo, patientRepo, auditSvc, log)
	claimSvc := claim.NewService(claimRepo, noteRepo, outboxRepo, billingSvc, auditSvc, mailer, m, log)
	userSvc := user.NewService(userRepo, hasher, tokens, auditSvc, log)
	locationSvc := location.NewService(locationRepo, auditSvc)

	locationMW := middleware.NewLocationMiddleware(locationSvc, middleware.DefaultLocationConfig())

	handlers := router.Handlers{
		Health:      healthhandler.NewHandler(db),
		Auth:        authhandler.NewHandler(userSvc),
		Location:    locationhandler.NewHandler(locationSvc),
		Patient:     patienthandler.NewHandler(patientSvc),
		Note:        notehandler.NewHandler(noteSvc, patientSvc, billingSvc),
		Timeline:    timelinehandler.NewHandler(timelineSvc),
		Diagnosis:   diagnosishandler.NewHandler(diagnosisSvc),
		Appointment: appointmenthandler.NewHandler(appointmentSvc),
		Billing:     billinghandler.NewHandler(billingSvc),
		Claim:       claimhandler.NewHandler(claimSvc),
		Audit:       audithandler.NewHandler(auditSvc),
	}

	routerCfg := router.DefaultConfig()
	if cfg.Server.RateLimitRPS > 0 {
		routerCfg.RateLimitPerSecond = float64(cfg.Server.RateLimitRPS)
	}
	if cfg.Server.RateLimitBurst > 0 {
		routerCfg.RateLimitBurst = cfg.Server.RateLimitBurst
	}
	if cfg.Server.TimeoutSeconds > 0 {
		routerCfg.Timeout.Duration = time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	}

	engine := router.New(tokens, locationMW, handlers, routerCfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("starting api server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down api server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "graceful shutdown failed")
	}
}

func parseLevel(s string) logger.Level {
	switch s {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
