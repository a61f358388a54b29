package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, locationID, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, locationID, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int64, error)
	UpdateAdminNotes(ctx context.Context, locationID, id uuid.UUID, notes string) error
	GetDiagnosis(ctx context.Context, locationID, id uuid.UUID) (string, error)
	UpdateDiagnosis(ctx context.Context, locationID, id uuid.UUID, diagnosis string) error
	UpdateInsurance(ctx context.Context, patient *model.Patient) error
}

type PatientFileRepository interface {
	Create(ctx context.Context, file *model.PatientFile) error
	Get(ctx context.Context, locationID, id uuid.UUID) (*model.PatientFile, error)
	ListByPatient(ctx context.Context, locationID, patientID uuid.UUID) ([]*model.PatientFile, error)
	Delete(ctx context.Context, locationID, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, locationID, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, locationID, id uuid.UUID) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.ProgressNote) error
	Get(ctx context.Context, locationID, id uuid.UUID) (*model.ProgressNote, error)
	Delete(ctx context.Context, locationID, id uuid.UUID) error
	List(ctx context.Context, filters *model.NoteFilters) ([]*model.ProgressNote, error)

	// Draft slot: at most one draft per patient per location.
	GetDraft(ctx context.Context, locationID, patientID uuid.UUID) (*model.ProgressNote, error)
	UpsertDraft(ctx context.Context, note *model.ProgressNote) error
	DeleteDraft(ctx context.Context, locationID, patientID uuid.UUID) error

	// Sign persists the signed note and removes the draft slot in one
	// transaction.
	Sign(ctx context.Context, note *model.ProgressNote) error
}

type FeeScheduleRepository interface {
	Upsert(ctx context.Context, entry *model.FeeScheduleEntry) error
	GetByCPT(ctx context.Context, locationID uuid.UUID, cptCode string) (*model.FeeScheduleEntry, error)
	List(ctx context.Context, locationID uuid.UUID) ([]*model.FeeScheduleEntry, error)
	Delete(ctx context.Context, locationID, id uuid.UUID) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Get(ctx context.Context, locationID, id uuid.UUID) (*model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	ListByPatient(ctx context.Context, locationID, patientID uuid.UUID) ([]*model.Invoice, error)
}

type PayerRepository interface {
	Create(ctx context.Context, payer *model.Payer) error
	Get(ctx context.Context, locationID, id uuid.UUID) (*model.Payer, error)
	Update(ctx context.Context, payer *model.Payer) error
	Delete(ctx context.Context, locationID, id uuid.UUID) error
	List(ctx context.Context, locationID uuid.UUID) ([]*model.Payer, error)
}

type PracticeInfoRepository interface {
	Get(ctx context.Context, locationID uuid.UUID) (*model.PracticeInfo, error)
	Upsert(ctx context.Context, info *model.PracticeInfo) error
}

type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) error
	Get(ctx context.Context, locationID, id uuid.UUID) (*model.Claim, error)
	Update(ctx context.Context, claim *model.Claim) error
	List(ctx context.Context, filters *model.ClaimFilters) ([]*model.Claim, int64, error)
}

type AuditRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, int64, error)
	GetAggregateStats(ctx context.Context, filters *model.AuditFilters) (*model.AggregateStats, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]*model.User, error)
}

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	Get(ctx context.Context, id uuid.UUID) (*model.Location, error)
	Update(ctx context.Context, location *model.Location) error
	List(ctx context.Context) ([]*model.Location, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
