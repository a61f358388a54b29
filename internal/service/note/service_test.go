package note

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
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/metrics"
)

// Registered once per test binary; prometheus panics on duplicates.
var testMetrics = metrics.NewMetrics("note_test")

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

type fakeNoteRepo struct {
	notes  map[uuid.UUID]*model.ProgressNote
	drafts map[uuid.UUID]*model.ProgressNote // keyed by patient ID
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{
		notes:  map[uuid.UUID]*model.ProgressNote{},
		drafts: map[uuid.UUID]*model.ProgressNote{},
	}
}

func (r *fakeNoteRepo) Create(_ context.Context, n *model.ProgressNote) error {
	r.notes[n.ID] = n
	return nil
}

func (r *fakeNoteRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.ProgressNote, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return n, nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if _, ok := r.notes[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *fakeNoteRepo) List(_ context.Context, _ *model.NoteFilters) ([]*model.ProgressNote, error) {
	var out []*model.ProgressNote
	for _, n := range r.notes {
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNoteRepo) GetDraft(_ context.Context, _ uuid.UUID, patientID uuid.UUID) (*model.ProgressNote, error) {
	d, ok := r.drafts[patientID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return d, nil
}

func (r *fakeNoteRepo) UpsertDraft(_ context.Context, n *model.ProgressNote) error {
	if existing, ok := r.drafts[n.PatientID]; ok {
		n.CreatedAt = existing.CreatedAt
	} else if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.drafts[n.PatientID] = n
	return nil
}

func (r *fakeNoteRepo) DeleteDraft(_ context.Context, _ uuid.UUID, patientID uuid.UUID) error {
	if _, ok := r.drafts[patientID]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.drafts, patientID)
	return nil
}

func (r *fakeNoteRepo) Sign(_ context.Context, n *model.ProgressNote) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.notes[n.ID] = n
	delete(r.drafts, n.PatientID)
	return nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error { return nil }

func (r *fakePatientRepo) Delete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }

func (r *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, int64, error) {
	return nil, 0, nil
}

func (r *fakePatientRepo) UpdateAdminNotes(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) error {
	return nil
}

func (r *fakePatientRepo) GetDiagnosis(_ context.Context, _ uuid.UUID, _ uuid.UUID) (string, error) {
	return "", nil
}

func (r *fakePatientRepo) UpdateDiagnosis(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) error {
	return nil
}

func (r *fakePatientRepo) UpdateInsurance(_ context.Context, _ *model.Patient) error { return nil }

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

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, e *model.AuditLog) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func (r *fakeAuditRepo) GetAggregateStats(_ context.Context, _ *model.AuditFilters) (*model.AggregateStats, error) {
	return &model.AggregateStats{}, nil
}

func (r *fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type noteFixture struct {
	svc        *Service
	notes      *fakeNoteRepo
	outbox     *fakeOutboxRepo
	locationID uuid.UUID
	patientID  uuid.UUID
	session    *model.SessionContext
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()

	log := testLogger()
	notes := newFakeNoteRepo()
	outbox := &fakeOutboxRepo{}
	auditor := audit.NewService(&fakeAuditRepo{}, log)

	locationID := uuid.New()
	patient := &model.Patient{}
	patient.ID = uuid.New()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}}

	return &noteFixture{
		svc:        NewService(notes, patients, outbox, auditor, testMetrics, log),
		notes:      notes,
		outbox:     outbox,
		locationID: locationID,
		patientID:  patient.ID,
		session: &model.SessionContext{
			UserID:     uuid.New(),
			Name:       "Jordan Reyes",
			LocationID: locationID,
			IPAddress:  "203.0.113.7",
		},
	}
}

func (f *noteFixture) ctx() context.Context {
	return model.WithSession(context.Background(), f.session)
}

func soapFields() map[string]string {
	return map[string]string{
		"subjective": "Reports improved sleep.",
		"objective":  "Calm, engaged.",
		"assessment": "Progressing toward goals.",
		"plan":       "Continue weekly sessions.",
	}
}

func signRequest(fields map[string]string) *model.SignNoteRequest {
	return &model.SignNoteRequest{
		SaveDraftRequest: model.SaveDraftRequest{
			NoteType:      model.NoteTypeProgress,
			NoteStyle:     model.NoteStyleSOAP,
			Fields:        fields,
			DateOfService: "2025-06-10",
			TimeOfService: "14:00",
		},
		SignatureName: "Jordan Reyes, LCSW",
	}
}

func TestSignRequiresSignatureName(t *testing.T) {
	f := newNoteFixture(t)

	req := signRequest(soapFields())
	req.SignatureName = "   "

	_, err := f.svc.Sign(f.ctx(), f.locationID, f.patientID, req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestSignRequiresAllSections(t *testing.T) {
	f := newNoteFixture(t)

	fields := soapFields()
	delete(fields, "plan")

	_, err := f.svc.Sign(f.ctx(), f.locationID, f.patientID, signRequest(fields))
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "PLAN")
}

func TestSignFinalizesNote(t *testing.T) {
	f := newNoteFixture(t)

	note, err := f.svc.Sign(f.ctx(), f.locationID, f.patientID, signRequest(soapFields()))
	require.NoError(t, err)

	assert.Equal(t, model.NoteStatusSigned, note.Status)
	require.NotNil(t, note.SignedBy)
	assert.Equal(t, "Jordan Reyes, LCSW", *note.SignedBy)
	require.NotNil(t, note.SignedAt)
	require.NotNil(t, note.SignerIP)
	assert.Equal(t, "203.0.113.7", *note.SignerIP)
	assert.Contains(t, note.Content, "SUBJECTIVE\nReports improved sleep.")

	// Signing clears the draft slot and announces the event.
	_, err = f.svc.GetDraft(f.ctx(), f.locationID, f.patientID)
	assert.Error(t, err)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, model.EventNoteSigned, f.outbox.events[0].EventType)
}

func TestSignWithoutSessionIP(t *testing.T) {
	f := newNoteFixture(t)
	f.session.IPAddress = ""

	note, err := f.svc.Sign(f.ctx(), f.locationID, f.patientID, signRequest(soapFields()))
	require.NoError(t, err)
	require.NotNil(t, note.SignerIP)
	assert.Equal(t, "Unknown", *note.SignerIP)
}

func TestSignKeepsDraftCreatedAt(t *testing.T) {
	f := newNoteFixture(t)
	ctx := f.ctx()

	draft, err := f.svc.SaveDraft(ctx, f.locationID, f.patientID, &signRequest(soapFields()).SaveDraftRequest)
	require.NoError(t, err)
	firstCreated := draft.CreatedAt
	require.False(t, firstCreated.IsZero())

	// A later save keeps the original created_at.
	time.Sleep(5 * time.Millisecond)
	draft, err = f.svc.SaveDraft(ctx, f.locationID, f.patientID, &signRequest(soapFields()).SaveDraftRequest)
	require.NoError(t, err)
	assert.Equal(t, firstCreated, draft.CreatedAt)

	// Signing carries it into the signed note.
	note, err := f.svc.Sign(ctx, f.locationID, f.patientID, signRequest(soapFields()))
	require.NoError(t, err)
	assert.Equal(t, firstCreated, note.CreatedAt)
}

func TestSignUnknownPatient(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.svc.Sign(f.ctx(), f.locationID, uuid.New(), signRequest(soapFields()))
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestSaveDraftRequiresSession(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.svc.SaveDraft(context.Background(), f.locationID, f.patientID, &signRequest(soapFields()).SaveDraftRequest)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestDeleteSignedNoteForbidden(t *testing.T) {
	f := newNoteFixture(t)

	note, err := f.svc.Sign(f.ctx(), f.locationID, f.patientID, signRequest(soapFields()))
	require.NoError(t, err)

	err = f.svc.Delete(f.ctx(), f.locationID, note.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	// The note is still there.
	_, err = f.svc.Get(f.ctx(), f.locationID, note.ID)
	assert.NoError(t, err)
}
