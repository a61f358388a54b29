package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/auth"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/security"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/validator"
)

type Service struct {
	users    repository.UserRepository
	hasher   security.PasswordHasher
	tokens   *auth.TokenManager
	auditor  *audit.Service
	validate *validator.Validator
	logger   *logger.Logger
}

func NewService(
	users repository.UserRepository,
	hasher security.PasswordHasher,
	tokens *auth.TokenManager,
	auditor *audit.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		auditor:  auditor,
		validate: validator.New(),
		logger:   log.WithComponent("user"),
	}
}

// Login verifies credentials and issues a JWT. Failures return the same
// error regardless of whether the email exists.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn("failed login attempt", "email", email)
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Name, string(user.Role), user.LocationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionLogin, model.AuditEntityUser, user.ID, nil)
	return &model.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.Expiry().Seconds()),
		User:      user,
	}, nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, security.ErrPasswordTooShort) {
		return nil, apperrors.Validation("password too short", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email)); err == nil {
		return nil, apperrors.Conflict("email already registered", nil)
	} else if !errors.Is(err, postgres.ErrNotFound) {
		return nil, err
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		Credentials:  req.Credentials,
		Role:         req.Role,
		LocationIDs:  req.LocationIDs,
	}
	user.ID = uuid.New()

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityUser, user.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"email": user.Email, "role": user.Role},
	})
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	return user, err
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}
