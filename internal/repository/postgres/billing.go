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

type feeScheduleRepository struct {
	db *sqlx.DB
}

func NewFeeScheduleRepository(db *sqlx.DB) repository.FeeScheduleRepository {
	return &feeScheduleRepository{db: db}
}

func (r *feeScheduleRepository) Upsert(ctx context.Context, entry *model.FeeScheduleEntry) error {
	query := `
		INSERT INTO fee_schedule (id, location_id, cpt_code, description, charge_cents, created_at, updated_at)
		VALUES (:id, :location_id, :cpt_code, :description, :charge_cents, :created_at, :updated_at)
		ON CONFLICT (location_id, cpt_code) DO UPDATE SET
			description = EXCLUDED.description,
			charge_cents = EXCLUDED.charge_cents,
			updated_at = EXCLUDED.updated_at
	`
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to upsert fee schedule entry: %w", err)
	}
	return nil
}

func (r *feeScheduleRepository) GetByCPT(ctx context.Context, locationID uuid.UUID, cptCode string) (*model.FeeScheduleEntry, error) {
	query := `SELECT * FROM fee_schedule WHERE location_id = $1 AND cpt_code = $2 AND deleted_at IS NULL`
	var entry model.FeeScheduleEntry
	err := r.db.GetContext(ctx, &entry, query, locationID, cptCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fee schedule entry: %w", err)
	}
	return &entry, nil
}

func (r *feeScheduleRepository) List(ctx context.Context, locationID uuid.UUID) ([]*model.FeeScheduleEntry, error) {
	query := `SELECT * FROM fee_schedule WHERE location_id = $1 AND deleted_at IS NULL ORDER BY cpt_code`
	var entries []*model.FeeScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, locationID); err != nil {
		return nil, fmt.Errorf("failed to list fee schedule: %w", err)
	}
	return entries, nil
}

func (r *feeScheduleRepository) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	query := `UPDATE fee_schedule SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete fee schedule entry: %w", err)
	}
	return requireRow(res)
}

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (id, location_id, patient_id, note_id, cpt_code, amount_cents, status, service_date, created_at, updated_at)
		VALUES (:id, :location_id, :patient_id, :note_id, :cpt_code, :amount_cents, :status, :service_date, :created_at, :updated_at)
	`
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, invoice); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices SET status = :status, amount_cents = :amount_cents, updated_at = :updated_at
		WHERE id = :id AND location_id = :location_id AND deleted_at IS NULL
	`
	invoice.UpdatedAt = time.Now()
	res, err := r.db.NamedExecContext(ctx, query, invoice)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return requireRow(res)
}

func (r *invoiceRepository) ListByPatient(ctx context.Context, locationID, patientID uuid.UUID) ([]*model.Invoice, error) {
	query := `SELECT * FROM invoices WHERE location_id = $1 AND patient_id = $2 AND deleted_at IS NULL ORDER BY service_date DESC`
	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, locationID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

type payerRepository struct {
	db *sqlx.DB
}

func NewPayerRepository(db *sqlx.DB) repository.PayerRepository {
	return &payerRepository{db: db}
}

func (r *payerRepository) Create(ctx context.Context, payer *model.Payer) error {
	query := `
		INSERT INTO payers (id, location_id, name, payer_code, electronic, address, created_at, updated_at)
		VALUES (:id, :location_id, :name, :payer_code, :electronic, :address, :created_at, :updated_at)
	`
	payer.CreatedAt = time.Now()
	payer.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, payer); err != nil {
		return fmt.Errorf("failed to create payer: %w", err)
	}
	return nil
}

func (r *payerRepository) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Payer, error) {
	query := `SELECT * FROM payers WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	var payer model.Payer
	err := r.db.GetContext(ctx, &payer, query, id, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payer: %w", err)
	}
	return &payer, nil
}

func (r *payerRepository) Update(ctx context.Context, payer *model.Payer) error {
	query := `
		UPDATE payers SET name = :name, payer_code = :payer_code, electronic = :electronic,
			address = :address, updated_at = :updated_at
		WHERE id = :id AND location_id = :location_id AND deleted_at IS NULL
	`
	payer.UpdatedAt = time.Now()
	res, err := r.db.NamedExecContext(ctx, query, payer)
	if err != nil {
		return fmt.Errorf("failed to update payer: %w", err)
	}
	return requireRow(res)
}

func (r *payerRepository) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	query := `UPDATE payers SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete payer: %w", err)
	}
	return requireRow(res)
}

func (r *payerRepository) List(ctx context.Context, locationID uuid.UUID) ([]*model.Payer, error) {
	query := `SELECT * FROM payers WHERE location_id = $1 AND deleted_at IS NULL ORDER BY name`
	var payers []*model.Payer
	if err := r.db.SelectContext(ctx, &payers, query, locationID); err != nil {
		return nil, fmt.Errorf("failed to list payers: %w", err)
	}
	return payers, nil
}

type practiceInfoRepository struct {
	db *sqlx.DB
}

func NewPracticeInfoRepository(db *sqlx.DB) repository.PracticeInfoRepository {
	return &practiceInfoRepository{db: db}
}

func (r *practiceInfoRepository) Get(ctx context.Context, locationID uuid.UUID) (*model.PracticeInfo, error) {
	query := `SELECT * FROM practice_info WHERE location_id = $1`
	var info model.PracticeInfo
	err := r.db.GetContext(ctx, &info, query, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practice info: %w", err)
	}
	return &info, nil
}

func (r *practiceInfoRepository) Upsert(ctx context.Context, info *model.PracticeInfo) error {
	query := `
		INSERT INTO practice_info (location_id, name, npi, tax_id, address, phone, updated_at)
		VALUES (:location_id, :name, :npi, :tax_id, :address, :phone, :updated_at)
		ON CONFLICT (location_id) DO UPDATE SET
			name = EXCLUDED.name, npi = EXCLUDED.npi, tax_id = EXCLUDED.tax_id,
			address = EXCLUDED.address, phone = EXCLUDED.phone, updated_at = EXCLUDED.updated_at
	`
	info.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, info); err != nil {
		return fmt.Errorf("failed to upsert practice info: %w", err)
	}
	return nil
}
