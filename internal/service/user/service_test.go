package user

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/auth"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ *model.User) error { return nil }

func (r *fakeUserRepo) List(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.byEmail {
		out = append(out, u)
	}
	return out, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, int64, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) GetAggregateStats(_ context.Context, _ *model.AuditFilters) (*model.AggregateStats, error) {
	return &model.AggregateStats{}, nil
}
func (fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func newUserService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	repo := &fakeUserRepo{byEmail: map[string]*model.User{}}
	svc := NewService(
		repo,
		security.NewBcryptHasher(4), // min cost keeps the tests fast
		auth.NewTokenManager(auth.Config{Secret: "test-secret", ExpiryHours: 1}),
		audit.NewService(fakeAuditRepo{}, log),
		log,
	)
	return svc, repo
}

func createRequest() *model.CreateUserRequest {
	return &model.CreateUserRequest{
		Email:    "Clinician@Example.com",
		Password: "correct horse battery",
		Name:     "Jordan Reyes",
		Role:     model.UserRoleClinician,
	}
}

func TestCreateAndLogin(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, "clinician@example.com", created.Email, "email is stored lowercased")
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "CLINICIAN@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, created.ID, resp.User.ID)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	_, unknownEmailErr := svc.Login(ctx, &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever here",
	})
	_, badPasswordErr := svc.Login(ctx, &model.LoginRequest{
		Email:    "clinician@example.com",
		Password: "wrong password",
	})

	require.Error(t, unknownEmailErr)
	require.Error(t, badPasswordErr)

	// The caller must not be able to tell which factor failed.
	a, ok := apperrors.AsAppError(unknownEmailErr)
	require.True(t, ok)
	b, ok := apperrors.AsAppError(badPasswordErr)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, a.Code)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
}

func TestCreateRejectsInvalidRequest(t *testing.T) {
	svc, _ := newUserService(t)

	req := createRequest()
	req.Email = "not-an-email"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.True(t, strings.Contains(strings.ToLower(appErr.Message), "email"))
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc, _ := newUserService(t)

	req := createRequest()
	req.Password = "short"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestCreateDuplicateEmailConflict(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, createRequest())
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}
