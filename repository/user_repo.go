package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/utils"
	"agrihire-backend/utils/logger"
)

type UserRepository struct {
	config *models.Config
	logger logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		config: cfg,
		logger: log,
	}
}

const userColumns = `id, email, password_hash, name, phone, role, is_verified, is_active,
	last_login_at, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, h dal.Handler, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	user.ID = utils.GenerateUUID()
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now

	query := h.Rebind(`INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := h.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Role,
		user.IsVerified, user.IsActive, user.LastLoginAt, user.CreatedAt, user.UpdatedAt)
	if err := dal.WrapError(err); err != nil {
		if errors.Is(err, dal.ErrDuplicateKey) {
			return nil, &models.DuplicateKeyError{Entity: "user", Key: "email " + user.Email}
		}
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("User created successfully: %s", user.ID)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, h dal.Handler, id string) (*models.User, error) {
	return r.getUser(ctx, h, "id", id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, h dal.Handler, email string) (*models.User, error) {
	return r.getUser(ctx, h, "email", email)
}

func (r *UserRepository) getUser(ctx context.Context, h dal.Handler, column, value string) (*models.User, error) {
	var user models.User
	query := h.Rebind(fmt.Sprintf("SELECT %s FROM users WHERE %s = ?", userColumns, column))
	if err := dal.WrapError(h.GetContext(ctx, &user, query, value)); err != nil {
		if errors.Is(err, dal.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetActive flips the soft-delete flag. Users are never removed.
func (r *UserRepository) SetActive(ctx context.Context, h dal.Handler, id string, active bool) error {
	query := h.Rebind("UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?")
	res, err := h.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, h dal.Handler, id string, at time.Time) error {
	at = at.UTC()
	query := h.Rebind("UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?")
	res, err := h.ExecContext(ctx, query, at, at, id)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}
