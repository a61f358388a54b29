package appointment

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
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if _, ok := r.appointments[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }

func (r *fakePatientRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error         { return nil }
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

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, int64, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) GetAggregateStats(_ context.Context, _ *model.AuditFilters) (*model.AggregateStats, error) {
	return &model.AggregateStats{}, nil
}
func (fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func newFixture(t *testing.T) (*Service, uuid.UUID, uuid.UUID, context.Context) {
	t.Helper()

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	patient := &model.Patient{}
	patient.ID = uuid.New()

	svc := NewService(
		&fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{}},
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}},
		audit.NewService(fakeAuditRepo{}, log),
	)

	locationID := uuid.New()
	ctx := model.WithSession(context.Background(), &model.SessionContext{
		UserID:     uuid.New(),
		LocationID: locationID,
	})
	return svc, locationID, patient.ID, ctx
}

func createRequest(patientID uuid.UUID) *model.CreateAppointmentRequest {
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	return &model.CreateAppointmentRequest{
		PatientID:   patientID,
		ClinicianID: uuid.New(),
		StartTime:   start,
		EndTime:     start.Add(50 * time.Minute),
	}
}

func TestCreateAppointment(t *testing.T) {
	svc, locationID, patientID, ctx := newFixture(t)

	appt, err := svc.Create(ctx, locationID, createRequest(patientID))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, patientID, appt.PatientID)
}

func TestCreateAppointmentEndBeforeStart(t *testing.T) {
	svc, locationID, patientID, ctx := newFixture(t)

	req := createRequest(patientID)
	req.EndTime = req.StartTime

	_, err := svc.Create(ctx, locationID, req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestCreateAppointmentUnknownPatient(t *testing.T) {
	svc, locationID, _, ctx := newFixture(t)

	_, err := svc.Create(ctx, locationID, createRequest(uuid.New()))
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestCancelWithoutReasonGetsDefault(t *testing.T) {
	svc, locationID, patientID, ctx := newFixture(t)

	appt, err := svc.Create(ctx, locationID, createRequest(patientID))
	require.NoError(t, err)

	cancelled := model.AppointmentStatusCancelled
	updated, err := svc.Update(ctx, locationID, appt.ID, &model.UpdateAppointmentRequest{
		Status: &cancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelReason)
	assert.Equal(t, "cancelled without reason", *updated.CancelReason)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc, locationID, patientID, ctx := newFixture(t)

	appt, err := svc.Create(ctx, locationID, createRequest(patientID))
	require.NoError(t, err)

	bogus := model.AppointmentStatus("rebooked")
	_, err = svc.Update(ctx, locationID, appt.ID, &model.UpdateAppointmentRequest{Status: &bogus})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}
