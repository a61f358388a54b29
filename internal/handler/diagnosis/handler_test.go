package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	diagnosissvc "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/diagnosis"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
)

type fakePatientRepo struct {
	diagnoses map[uuid.UUID]string
}

func (r *fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*model.Patient, error) {
	return &model.Patient{}, nil
}
func (r *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error         { return nil }
func (r *fakePatientRepo) Delete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }
func (r *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, int64, error) {
	return nil, 0, nil
}
func (r *fakePatientRepo) UpdateAdminNotes(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) error {
	return nil
}
func (r *fakePatientRepo) GetDiagnosis(_ context.Context, _ uuid.UUID, id uuid.UUID) (string, error) {
	raw, ok := r.diagnoses[id]
	if !ok {
		return "", postgres.ErrNotFound
	}
	return raw, nil
}
func (r *fakePatientRepo) UpdateDiagnosis(_ context.Context, _ uuid.UUID, id uuid.UUID, raw string) error {
	r.diagnoses[id] = raw
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

func newTestRouter(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := diagnosissvc.NewService(
		&fakePatientRepo{diagnoses: map[uuid.UUID]string{}},
		audit.NewService(fakeAuditRepo{}, log),
	)

	locationID := uuid.New()
	r := gin.New()
	api := r.Group("/api/v1")
	// Stand-in for the auth and location middleware chain.
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextLocationID, locationID)
		sess := &model.SessionContext{UserID: uuid.New(), LocationID: locationID}
		c.Request = c.Request.WithContext(model.WithSession(c.Request.Context(), sess))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api)
	return r, locationID
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateAndGetDiagnoses(t *testing.T) {
	r, _ := newTestRouter(t)
	patientID := uuid.New()

	w := doJSON(t, r, http.MethodPut, "/api/v1/patients/"+patientID.String()+"/diagnoses", gin.H{
		"diagnoses": []gin.H{
			{"code": "F32.1", "description": "Major depressive disorder, single episode, moderate"},
			{"code": "F41.1", "description": "Generalized anxiety disorder"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/patients/"+patientID.String()+"/diagnoses", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Data   []model.Diagnosis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "F32.1", resp.Data[0].Code)
	assert.Equal(t, "F41.1", resp.Data[1].Code)
}

func TestUpdateDiagnosesRejectsEmptyCode(t *testing.T) {
	r, _ := newTestRouter(t)
	patientID := uuid.New()

	w := doJSON(t, r, http.MethodPut, "/api/v1/patients/"+patientID.String()+"/diagnoses", gin.H{
		"diagnoses": []gin.H{{"code": "  ", "description": "missing"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDiagnosesInvalidPatientID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/patients/not-a-uuid/diagnoses", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchCodes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/icd-codes?q=F33&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.ICDCode `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	assert.LessOrEqual(t, len(resp.Data), 5)
	for _, code := range resp.Data {
		assert.Contains(t, code.Code, "F33")
	}
}

func TestListTemplates(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/treatment-plan-templates?problem=anxiety", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.TreatmentPlanTemplate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
}
