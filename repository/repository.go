package repository

import (
	"context"
	"database/sql"
	"errors"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/utils/logger"
)

type Repository struct {
	User         *UserRepository
	Organization *OrganizationRepository
	Job          *JobRepository
	Application  *ApplicationRepository
	Profile      *EmployeeProfileRepository
}

func NewRepository(cfg *models.Config, codec *Codec, log logger.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(cfg, log),
		Organization: NewOrganizationRepository(cfg, codec, log),
		Job:          NewJobRepository(cfg, codec, log),
		Application:  NewApplicationRepository(cfg, log),
		Profile:      NewEmployeeProfileRepository(cfg, codec, log),
	}
}

func (r *Repository) GetUserRepository() UserRepositoryInterface { return r.User }

func (r *Repository) GetOrganizationRepository() OrganizationRepositoryInterface {
	return r.Organization
}

func (r *Repository) GetJobRepository() JobRepositoryInterface { return r.Job }

func (r *Repository) GetApplicationRepository() ApplicationRepositoryInterface {
	return r.Application
}

func (r *Repository) GetEmployeeProfileRepository() EmployeeProfileRepositoryInterface {
	return r.Profile
}

// notFound maps a missing row to models.ErrNotFound.
func notFound(err error) error {
	err = dal.WrapError(err)
	if errors.Is(err, dal.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// compareAndSet runs an UPDATE guarded by the expected current value and
// reports ErrStaleState when no row matched.
func compareAndSet(ctx context.Context, h dal.Handler, query string, args ...interface{}) error {
	res, err := h.ExecContext(ctx, h.Rebind(query), args...)
	if err != nil {
		return dal.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrStaleState
	}
	return nil
}

func rowExists(ctx context.Context, h dal.Handler, query string, args ...interface{}) (bool, error) {
	var one int
	err := dal.WrapError(h.GetContext(ctx, &one, h.Rebind(query), args...))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, dal.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}
