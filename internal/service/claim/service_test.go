package claim

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/billing"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("claim_test")

type fakeClaimRepo struct {
	claims map[uuid.UUID]*model.Claim
}

func (r *fakeClaimRepo) Create(_ context.Context, c *model.Claim) error {
	r.claims[c.ID] = c
	return nil
}

func (r *fakeClaimRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Claim, error) {
	c, ok := r.claims[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *c // each fetch yields a fresh row, like a real scan
	return &cp, nil
}

func (r *fakeClaimRepo) Update(_ context.Context, c *model.Claim) error {
	r.claims[c.ID] = c
	return nil
}

func (r *fakeClaimRepo) List(_ context.Context, _ *model.ClaimFilters) ([]*model.Claim, int64, error) {
	var out []*model.Claim
	for _, c := range r.claims {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

type fakeNoteRepo struct {
	notes map[uuid.UUID]*model.ProgressNote
}

func (r *fakeNoteRepo) Create(_ context.Context, n *model.ProgressNote) error { return nil }

func (r *fakeNoteRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.ProgressNote, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return n, nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }
func (r *fakeNoteRepo) List(_ context.Context, _ *model.NoteFilters) ([]*model.ProgressNote, error) {
	return nil, nil
}
func (r *fakeNoteRepo) GetDraft(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*model.ProgressNote, error) {
	return nil, postgres.ErrNotFound
}
func (r *fakeNoteRepo) UpsertDraft(_ context.Context, _ *model.ProgressNote) error { return nil }
func (r *fakeNoteRepo) DeleteDraft(_ context.Context, _ uuid.UUID, _ uuid.UUID) error {
	return nil
}
func (r *fakeNoteRepo) Sign(_ context.Context, _ *model.ProgressNote) error { return nil }

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return r.events, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeFeeRepo struct {
	entries map[string]*model.FeeScheduleEntry
}

func (r *fakeFeeRepo) Upsert(_ context.Context, e *model.FeeScheduleEntry) error {
	r.entries[e.CPTCode] = e
	return nil
}

func (r *fakeFeeRepo) GetByCPT(_ context.Context, _ uuid.UUID, cptCode string) (*model.FeeScheduleEntry, error) {
	e, ok := r.entries[cptCode]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return e, nil
}

func (r *fakeFeeRepo) List(_ context.Context, _ uuid.UUID) ([]*model.FeeScheduleEntry, error) {
	return nil, nil
}

func (r *fakeFeeRepo) Delete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }

type fakeInvoiceRepo struct{}

func (fakeInvoiceRepo) Create(_ context.Context, _ *model.Invoice) error { return nil }
func (fakeInvoiceRepo) Get(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*model.Invoice, error) {
	return nil, postgres.ErrNotFound
}
func (fakeInvoiceRepo) Update(_ context.Context, _ *model.Invoice) error { return nil }
func (fakeInvoiceRepo) ListByPatient(_ context.Context, _ uuid.UUID, _ uuid.UUID) ([]*model.Invoice, error) {
	return nil, nil
}

type fakePayerRepo struct {
	payers map[uuid.UUID]*model.Payer
}

func (r *fakePayerRepo) Create(_ context.Context, p *model.Payer) error { return nil }

func (r *fakePayerRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Payer, error) {
	p, ok := r.payers[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return p, nil
}

func (r *fakePayerRepo) Update(_ context.Context, _ *model.Payer) error          { return nil }
func (r *fakePayerRepo) Delete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }
func (r *fakePayerRepo) List(_ context.Context, _ uuid.UUID) ([]*model.Payer, error) {
	return nil, nil
}

type fakePracticeRepo struct{}

func (fakePracticeRepo) Get(_ context.Context, _ uuid.UUID) (*model.PracticeInfo, error) {
	return nil, postgres.ErrNotFound
}
func (fakePracticeRepo) Upsert(_ context.Context, _ *model.PracticeInfo) error { return nil }

type fakePatientRepo struct{}

func (fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }
func (fakePatientRepo) Get(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*model.Patient, error) {
	return &model.Patient{}, nil
}
func (fakePatientRepo) Update(_ context.Context, _ *model.Patient) error          { return nil }
func (fakePatientRepo) Delete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error  { return nil }
func (fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, int64, error) {
	return nil, 0, nil
}
func (fakePatientRepo) UpdateAdminNotes(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) error {
	return nil
}
func (fakePatientRepo) GetDiagnosis(_ context.Context, _ uuid.UUID, _ uuid.UUID) (string, error) {
	return "", nil
}
func (fakePatientRepo) UpdateDiagnosis(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) error {
	return nil
}
func (fakePatientRepo) UpdateInsurance(_ context.Context, _ *model.Patient) error { return nil }

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, int64, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) GetAggregateStats(_ context.Context, _ *model.AuditFilters) (*model.AggregateStats, error) {
	return &model.AggregateStats{}, nil
}
func (fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type captureMailer struct {
	to, subject string
	sent        int
}

func (m *captureMailer) Send(to, subject, _ string) error {
	m.to, m.subject = to, subject
	m.sent++
	return nil
}

type claimFixture struct {
	svc        *Service
	outbox     *fakeOutboxRepo
	mailer     *captureMailer
	locationID uuid.UUID
	noteID     uuid.UUID
}

func newClaimFixture(t *testing.T) *claimFixture {
	t.Helper()

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	auditor := audit.NewService(fakeAuditRepo{}, log)

	locationID := uuid.New()
	fees := &fakeFeeRepo{entries: map[string]*model.FeeScheduleEntry{
		"90837": {LocationID: locationID, CPTCode: "90837", ChargeCents: 18000},
	}}
	billingSvc := billing.NewService(fees, fakeInvoiceRepo{}, &fakePayerRepo{payers: map[uuid.UUID]*model.Payer{}},
		fakePracticeRepo{}, fakePatientRepo{}, auditor, log)

	signedBy := "Jordan Reyes, LCSW"
	note := &model.ProgressNote{
		LocationID: locationID,
		PatientID:  uuid.New(),
		NoteType:   model.NoteTypeProgress,
		NoteStyle:  model.NoteStyleSOAP,
		Status:     model.NoteStatusSigned,
		CPTCode:    "90837",
		Diagnosis:  "F32.1 - Major depressive disorder, single episode, moderate",
		SignedBy:   &signedBy,
	}
	note.ID = uuid.New()
	notes := &fakeNoteRepo{notes: map[uuid.UUID]*model.ProgressNote{note.ID: note}}

	outbox := &fakeOutboxRepo{}
	mailer := &captureMailer{}

	return &claimFixture{
		svc: NewService(&fakeClaimRepo{claims: map[uuid.UUID]*model.Claim{}}, notes, outbox,
			billingSvc, auditor, mailer, testMetrics, log),
		outbox:     outbox,
		mailer:     mailer,
		locationID: locationID,
		noteID:     note.ID,
	}
}

func (f *claimFixture) ctx() context.Context {
	return model.WithSession(context.Background(), &model.SessionContext{
		UserID:     uuid.New(),
		Email:      "clinician@example.com",
		LocationID: f.locationID,
	})
}

func TestCreateClaimFromSignedNote(t *testing.T) {
	f := newClaimFixture(t)

	claim, err := f.svc.Create(f.ctx(), f.locationID, &model.CreateClaimRequest{NoteID: f.noteID})
	require.NoError(t, err)

	assert.Equal(t, model.ClaimStatusPending, claim.Status)
	assert.Equal(t, "90837", claim.CPTCode)
	assert.Equal(t, int64(18000), claim.ChargeCents)
	require.Len(t, claim.ICDCodes, 1)
	assert.Equal(t, "F32.1", claim.ICDCodes[0])
}

func TestCreateClaimRejectsUnsignedNote(t *testing.T) {
	f := newClaimFixture(t)
	ctx := f.ctx()

	draft := &model.ProgressNote{
		LocationID: f.locationID,
		NoteType:   model.NoteTypeProgress,
		Status:     model.NoteStatusDraft,
		CPTCode:    "90837",
		Diagnosis:  "F32.1 - Major depressive disorder",
	}
	draft.ID = uuid.New()
	f.svc.notes.(*fakeNoteRepo).notes[draft.ID] = draft

	_, err := f.svc.Create(ctx, f.locationID, &model.CreateClaimRequest{NoteID: draft.ID})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestSubmitAndResubmitLifecycle(t *testing.T) {
	f := newClaimFixture(t)
	ctx := f.ctx()

	claim, err := f.svc.Create(ctx, f.locationID, &model.CreateClaimRequest{NoteID: f.noteID})
	require.NoError(t, err)

	claim, err = f.svc.Submit(ctx, f.locationID, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusSubmitted, claim.Status)
	require.NotNil(t, claim.SubmittedAt)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, model.EventClaimSubmitted, f.outbox.events[0].EventType)

	// Resubmitting a submitted claim is not a valid move.
	_, err = f.svc.Submit(ctx, f.locationID, claim.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// Reject, then resubmission clears the reason.
	reason := "missing subscriber ID"
	claim, err = f.svc.UpdateStatus(ctx, f.locationID, claim.ID, &model.UpdateClaimStatusRequest{
		Status:       model.ClaimStatusRejected,
		RejectReason: &reason,
	})
	require.NoError(t, err)
	require.NotNil(t, claim.RejectReason)

	claim, err = f.svc.Submit(ctx, f.locationID, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusSubmitted, claim.Status)
	assert.Nil(t, claim.RejectReason)
}

func TestRejectRequiresReasonAndNotifies(t *testing.T) {
	f := newClaimFixture(t)
	ctx := f.ctx()

	claim, err := f.svc.Create(ctx, f.locationID, &model.CreateClaimRequest{NoteID: f.noteID})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.locationID, claim.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.locationID, claim.ID, &model.UpdateClaimStatusRequest{
		Status: model.ClaimStatusRejected,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Zero(t, f.mailer.sent)

	reason := "invalid diagnosis pointer"
	_, err = f.svc.UpdateStatus(ctx, f.locationID, claim.ID, &model.UpdateClaimStatusRequest{
		Status:       model.ClaimStatusRejected,
		RejectReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.mailer.sent)
	assert.Equal(t, "clinician@example.com", f.mailer.to)
}

func TestCreateClaimUnknownPayer(t *testing.T) {
	f := newClaimFixture(t)

	payerID := uuid.New()
	_, err := f.svc.Create(f.ctx(), f.locationID, &model.CreateClaimRequest{
		NoteID:  f.noteID,
		PayerID: &payerID,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
