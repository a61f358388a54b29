package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
)

// Fee schedule rows change rarely and are read on every invoice and
// claim build, so lookups sit behind a short in-process cache.
const (
	feeCacheTTL     = 5 * time.Minute
	feeCacheCleanup = 10 * time.Minute
)

type Service struct {
	fees     repository.FeeScheduleRepository
	invoices repository.InvoiceRepository
	payers   repository.PayerRepository
	practice repository.PracticeInfoRepository
	patients repository.PatientRepository
	auditor  *audit.Service
	cache    *cache.Cache
	logger   *logger.Logger
}

func NewService(
	fees repository.FeeScheduleRepository,
	invoices repository.InvoiceRepository,
	payers repository.PayerRepository,
	practice repository.PracticeInfoRepository,
	patients repository.PatientRepository,
	auditor *audit.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		fees:     fees,
		invoices: invoices,
		payers:   payers,
		practice: practice,
		patients: patients,
		auditor:  auditor,
		cache:    cache.New(feeCacheTTL, feeCacheCleanup),
		logger:   log.WithComponent("billing"),
	}
}

func feeCacheKey(locationID uuid.UUID, cptCode string) string {
	return "fee:" + locationID.String() + ":" + cptCode
}

// UpsertFee creates or replaces the fee schedule entry for a CPT code
// and invalidates its cached lookup.
func (s *Service) UpsertFee(ctx context.Context, locationID uuid.UUID, req *model.UpsertFeeScheduleRequest) (*model.FeeScheduleEntry, error) {
	entry := &model.FeeScheduleEntry{
		LocationID:  locationID,
		CPTCode:     req.CPTCode,
		Description: req.Description,
		ChargeCents: req.ChargeCents,
	}
	entry.ID = uuid.New()

	if err := s.fees.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to upsert fee schedule entry: %w", err)
	}
	s.cache.Delete(feeCacheKey(locationID, req.CPTCode))

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityFeeSchedule, entry.ID, &audit.LogOptions{
		Changes: map[string]interface{}{"cpt_code": req.CPTCode, "charge_cents": req.ChargeCents},
	})
	return entry, nil
}

// FeeForCPT returns the location's charge for a CPT code, cached.
func (s *Service) FeeForCPT(ctx context.Context, locationID uuid.UUID, cptCode string) (*model.FeeScheduleEntry, error) {
	key := feeCacheKey(locationID, cptCode)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.FeeScheduleEntry), nil
	}

	entry, err := s.fees.GetByCPT(ctx, locationID, cptCode)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("fee schedule entry", err)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, entry, cache.DefaultExpiration)
	return entry, nil
}

func (s *Service) ListFees(ctx context.Context, locationID uuid.UUID) ([]*model.FeeScheduleEntry, error) {
	return s.fees.List(ctx, locationID)
}

func (s *Service) DeleteFee(ctx context.Context, locationID, id uuid.UUID) error {
	err := s.fees.Delete(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("fee schedule entry", err)
	}
	if err != nil {
		return err
	}
	// The key is unknown here; flush the location's fee entries wholesale.
	s.cache.Flush()
	s.auditor.Log(ctx, model.AuditActionDelete, model.AuditEntityFeeSchedule, id, nil)
	return nil
}

// CreateInvoice bills a patient for a service. When no explicit amount
// is given the charge comes from the fee schedule.
func (s *Service) CreateInvoice(ctx context.Context, locationID uuid.UUID, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	if _, err := s.patients.Get(ctx, locationID, req.PatientID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, err
	}

	amount := int64(0)
	if req.AmountCents != nil {
		amount = *req.AmountCents
	} else {
		fee, err := s.FeeForCPT(ctx, locationID, req.CPTCode)
		if err != nil {
			return nil, err
		}
		amount = fee.ChargeCents
	}
	if amount < 0 {
		return nil, apperrors.Validation("amount must not be negative", nil)
	}

	invoice := &model.Invoice{
		LocationID:  locationID,
		PatientID:   req.PatientID,
		NoteID:      req.NoteID,
		CPTCode:     req.CPTCode,
		AmountCents: amount,
		Status:      model.InvoiceStatusDraft,
		ServiceDate: req.ServiceDate,
	}
	invoice.ID = uuid.New()

	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityInvoice, invoice.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"patient_id": req.PatientID, "amount_cents": amount},
	})
	return invoice, nil
}

func (s *Service) GetInvoice(ctx context.Context, locationID, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("invoice", err)
	}
	return invoice, err
}

func (s *Service) ListInvoices(ctx context.Context, locationID, patientID uuid.UUID) ([]*model.Invoice, error) {
	return s.invoices.ListByPatient(ctx, locationID, patientID)
}

func (s *Service) UpdateInvoice(ctx context.Context, locationID, id uuid.UUID, req *model.UpdateInvoiceRequest) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("invoice", err)
	}
	if err != nil {
		return nil, err
	}
	if invoice.Status == model.InvoiceStatusPaid || invoice.Status == model.InvoiceStatusVoid {
		return nil, apperrors.Conflict("invoice is closed", nil)
	}

	if req.Status != nil {
		switch *req.Status {
		case model.InvoiceStatusDraft, model.InvoiceStatusSent,
			model.InvoiceStatusPaid, model.InvoiceStatusVoid:
		default:
			return nil, apperrors.Validation("unknown invoice status", nil)
		}
		invoice.Status = *req.Status
	}
	if req.AmountCents != nil {
		if *req.AmountCents < 0 {
			return nil, apperrors.Validation("amount must not be negative", nil)
		}
		invoice.AmountCents = *req.AmountCents
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityInvoice, id, &audit.LogOptions{Changes: req})
	return invoice, nil
}

func (s *Service) CreatePayer(ctx context.Context, locationID uuid.UUID, req *model.UpsertPayerRequest) (*model.Payer, error) {
	payer := &model.Payer{
		LocationID: locationID,
		Name:       req.Name,
		PayerCode:  req.PayerCode,
		Electronic: req.Electronic,
		Address:    req.Address,
	}
	payer.ID = uuid.New()

	if err := s.payers.Create(ctx, payer); err != nil {
		return nil, fmt.Errorf("failed to create payer: %w", err)
	}
	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityPayer, payer.ID, nil)
	return payer, nil
}

func (s *Service) UpdatePayer(ctx context.Context, locationID, id uuid.UUID, req *model.UpsertPayerRequest) (*model.Payer, error) {
	payer, err := s.payers.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("payer", err)
	}
	if err != nil {
		return nil, err
	}

	payer.Name = req.Name
	payer.PayerCode = req.PayerCode
	payer.Electronic = req.Electronic
	payer.Address = req.Address

	if err := s.payers.Update(ctx, payer); err != nil {
		return nil, fmt.Errorf("failed to update payer: %w", err)
	}
	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityPayer, id, &audit.LogOptions{Changes: req})
	return payer, nil
}

func (s *Service) GetPayer(ctx context.Context, locationID, id uuid.UUID) (*model.Payer, error) {
	payer, err := s.payers.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("payer", err)
	}
	return payer, err
}

func (s *Service) ListPayers(ctx context.Context, locationID uuid.UUID) ([]*model.Payer, error) {
	return s.payers.List(ctx, locationID)
}

func (s *Service) DeletePayer(ctx context.Context, locationID, id uuid.UUID) error {
	err := s.payers.Delete(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("payer", err)
	}
	if err != nil {
		return err
	}
	s.auditor.Log(ctx, model.AuditActionDelete, model.AuditEntityPayer, id, nil)
	return nil
}

// GetPracticeInfo returns the location's practice profile; an empty
// profile is returned before the first save.
func (s *Service) GetPracticeInfo(ctx context.Context, locationID uuid.UUID) (*model.PracticeInfo, error) {
	info, err := s.practice.Get(ctx, locationID)
	if errors.Is(err, postgres.ErrNotFound) {
		return &model.PracticeInfo{LocationID: locationID}, nil
	}
	return info, err
}

func (s *Service) UpdatePracticeInfo(ctx context.Context, locationID uuid.UUID, req *model.UpdatePracticeInfoRequest) (*model.PracticeInfo, error) {
	info := &model.PracticeInfo{
		LocationID: locationID,
		Name:       req.Name,
		NPI:        req.NPI,
		TaxID:      req.TaxID,
		Address:    req.Address,
		Phone:      req.Phone,
	}
	if err := s.practice.Upsert(ctx, info); err != nil {
		return nil, fmt.Errorf("failed to update practice info: %w", err)
	}
	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityPractice, locationID, &audit.LogOptions{Changes: req})
	return info, nil
}
