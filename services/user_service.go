package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/utils"
	"agrihire-backend/utils/logger"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	repo   repository.UserRepositoryInterface
	db     dal.Handler
	logger logger.Logger
}

func NewUserService(repo repository.UserRepositoryInterface, db dal.Handler, log logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		db:     db,
		logger: log,
	}
}

// Register creates a job seeker or employer account.
func (s *UserService) Register(ctx context.Context, req *models.RegisterUser) (*models.User, error) {
	if req.Role != models.UserRoleJobSeeker && req.Role != models.UserRoleEmployer {
		return nil, &models.ValidationError{
			Entity:     "user",
			Violations: models.Violations{"role": "role must be one of job_seeker, employer"},
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
	}
	created, err := s.repo.CreateUser(ctx, s.db, user)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Registered %s user %s", created.Role, created.ID)
	return created, nil
}

// Authenticate checks credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, s.db, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		s.logger.Warnf("Failed login for user %s", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, models.ErrForbidden
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, s.db, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, s.db, id)
}

// EnsureAdmin creates an admin account unless one already exists for the
// email. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, name string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.GetUserByEmail(ctx, s.db, email)
	switch {
	case err == nil:
		if existing.Role != models.UserRoleAdmin {
			return nil, false, fmt.Errorf("user %s exists with role %s", email, existing.Role)
		}
		return existing, false, nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, s.db, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.UserRoleAdmin,
		IsVerified:   true,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// SetUserActive activates or deactivates an account. Only admins may do it
// and never to themselves; tokens of a deactivated user stop working.
func (s *UserService) SetUserActive(ctx context.Context, identity models.Identity, id string, active bool) (*models.User, error) {
	if !identity.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if identity.UserID == id && !active {
		return nil, &models.ValidationError{
			Entity:     "user",
			Violations: models.Violations{"isActive": "admins cannot deactivate themselves"},
		}
	}
	if err := s.repo.SetActive(ctx, s.db, id, active); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("User %s active=%t set by %s", id, active, identity.UserID)
	return user, nil
}
