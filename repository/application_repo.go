package repository

import (
	"context"
	"errors"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/utils"
	"agrihire-backend/utils/logger"
)

type ApplicationRepository struct {
	config *models.Config
	logger logger.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(cfg *models.Config, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		config: cfg,
		logger: log,
	}
}

const applicationColumns = `id, job_id, job_seeker_id, status, applied_at, cover_letter, notes, updated_at`

// CreateApplication inserts a pending application. A second application by
// the same job seeker to the same job is a DuplicateKeyError, whatever the
// status of the first one.
func (r *ApplicationRepository) CreateApplication(ctx context.Context, h dal.Handler, app *models.Application) (*models.Application, error) {
	now := time.Now().UTC()
	app.ID = utils.GenerateUUID()
	app.Status = models.ApplicationStatusPending
	app.AppliedAt = now
	app.UpdatedAt = now

	query := h.Rebind(`INSERT INTO applications (` + applicationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := h.ExecContext(ctx, query,
		app.ID, app.JobID, app.JobSeekerID, app.Status, app.AppliedAt, app.CoverLetter, app.Notes, app.UpdatedAt)
	switch err := dal.WrapError(err); {
	case err == nil:
	case errors.Is(err, dal.ErrDuplicateKey):
		return nil, &models.DuplicateKeyError{Entity: "application", Key: "job " + app.JobID + " by " + app.JobSeekerID}
	case errors.Is(err, dal.ErrForeignKey):
		return nil, &models.ReferentialIntegrityError{
			Entity:    "application",
			Reference: "job " + app.JobID,
			Reason:    "job or job seeker does not exist",
		}
	default:
		r.logger.Errorf("Failed to create application: %v", err)
		return nil, err
	}

	r.logger.Infof("Application created successfully: %s", app.ID)
	return app, nil
}

func (r *ApplicationRepository) GetApplication(ctx context.Context, h dal.Handler, id string) (*models.Application, error) {
	return r.getApplication(ctx, h, id, "")
}

// GetApplicationForUpdate reads an application and locks the row where the
// driver supports it.
func (r *ApplicationRepository) GetApplicationForUpdate(ctx context.Context, h dal.Handler, id string) (*models.Application, error) {
	return r.getApplication(ctx, h, id, dal.LockClause(h))
}

func (r *ApplicationRepository) getApplication(ctx context.Context, h dal.Handler, id, lock string) (*models.Application, error) {
	var app models.Application
	query := h.Rebind(`SELECT ` + applicationColumns + ` FROM applications WHERE id = ?` + lock)
	if err := notFound(h.GetContext(ctx, &app, query, id)); err != nil {
		return nil, err
	}
	return &app, nil
}

// ApplicationExists reports whether the job seeker already applied to the job.
func (r *ApplicationRepository) ApplicationExists(ctx context.Context, h dal.Handler, jobID, jobSeekerID string) (bool, error) {
	return rowExists(ctx, h, "SELECT 1 FROM applications WHERE job_id = ? AND job_seeker_id = ?", jobID, jobSeekerID)
}

func (r *ApplicationRepository) ListApplicationsByJob(ctx context.Context, h dal.Handler, jobID string) ([]*models.Application, error) {
	return r.list(ctx, h, "job_id", jobID)
}

func (r *ApplicationRepository) ListApplicationsBySeeker(ctx context.Context, h dal.Handler, jobSeekerID string) ([]*models.Application, error) {
	return r.list(ctx, h, "job_seeker_id", jobSeekerID)
}

func (r *ApplicationRepository) list(ctx context.Context, h dal.Handler, column, value string) ([]*models.Application, error) {
	apps := []*models.Application{}
	query := h.Rebind(`SELECT ` + applicationColumns + ` FROM applications WHERE ` + column + ` = ? ORDER BY applied_at DESC, id`)
	if err := h.SelectContext(ctx, &apps, query, value); err != nil {
		return nil, dal.WrapError(err)
	}
	return apps, nil
}

// UpdateApplicationNotes replaces the internal notes of an application.
func (r *ApplicationRepository) UpdateApplicationNotes(ctx context.Context, h dal.Handler, id, notes string) error {
	query := h.Rebind("UPDATE applications SET notes = ?, updated_at = ? WHERE id = ?")
	res, err := h.ExecContext(ctx, query, notes, time.Now().UTC(), id)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}

// UpdateApplicationStatus moves an application from one status to another.
// It fails with ErrStaleState when the stored status is no longer from.
func (r *ApplicationRepository) UpdateApplicationStatus(ctx context.Context, h dal.Handler, id string, from, to models.ApplicationStatus) error {
	return compareAndSet(ctx, h,
		"UPDATE applications SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		to, time.Now().UTC(), id, from)
}
