package services

import (
	"context"
	"errors"

	"agrihire-backend/dal"
	"agrihire-backend/lifecycle"
	"agrihire-backend/metrics"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/utils/logger"
)

type ApplicationService struct {
	applications  repository.ApplicationRepositoryInterface
	jobs          repository.JobRepositoryInterface
	organizations repository.OrganizationRepositoryInterface
	db            dal.DatabaseClientInterface
	logger        logger.Logger
}

func NewApplicationService(repos repository.RepositoryContainerInterface, db dal.DatabaseClientInterface, log logger.Logger) *ApplicationService {
	return &ApplicationService{
		applications:  repos.GetApplicationRepository(),
		jobs:          repos.GetJobRepository(),
		organizations: repos.GetOrganizationRepository(),
		db:            db,
		logger:        log,
	}
}

// TransitionApplicationStatus moves an application on behalf of an
// employer-side member of the job's organization, or an admin.
func (s *ApplicationService) TransitionApplicationStatus(ctx context.Context, identity models.Identity, applicationID string, to models.ApplicationStatus) (*models.Application, error) {
	var app *models.Application
	var from models.ApplicationStatus
	err := s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		var err error
		app, err = s.applications.GetApplicationForUpdate(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		from = app.Status
		job, err := s.jobs.GetJob(ctx, tx, app.JobID)
		if err != nil {
			return err
		}
		actor, err := actorFor(ctx, s.organizations, tx, identity, job.OrganizationID)
		if err != nil {
			return err
		}
		if err := lifecycle.TransitionApplication(app, to, actor); err != nil {
			return err
		}
		if err := s.applications.UpdateApplicationStatus(ctx, tx, app.ID, from, to); err != nil {
			return err
		}
		app.Status = to
		return nil
	})

	var illegal *models.IllegalTransitionError
	switch {
	case err == nil:
		metrics.Transitions.WithLabelValues("application", string(from), string(to), "ok").Inc()
	case errors.As(err, &illegal):
		metrics.Transitions.WithLabelValues("application", string(from), string(to), "illegal").Inc()
		return nil, err
	case errors.Is(err, models.ErrStaleState):
		metrics.Transitions.WithLabelValues("application", string(from), string(to), "stale").Inc()
		return nil, err
	default:
		return nil, err
	}

	s.logger.Infof("Application %s moved from %s to %s by %s", app.ID, from, to, identity.UserID)
	return app, nil
}

// canReview reports whether the identity may see the applications of a job.
func (s *ApplicationService) canReview(ctx context.Context, identity models.Identity, job *models.Job) (bool, error) {
	return s.canReviewWith(ctx, s.db, identity, job)
}

func (s *ApplicationService) canReviewWith(ctx context.Context, h dal.Handler, identity models.Identity, job *models.Job) (bool, error) {
	if identity.IsAdmin() {
		return true, nil
	}
	m, err := membershipOf(ctx, s.organizations, h, identity, job.OrganizationID)
	if err != nil {
		return false, err
	}
	return m != nil && lifecycle.CanPost(m.Role), nil
}

// GetApplication returns an application to its applicant or to reviewers of
// its job.
func (s *ApplicationService) GetApplication(ctx context.Context, identity models.Identity, id string) (*models.Application, error) {
	app, err := s.applications.GetApplication(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if app.JobSeekerID == identity.UserID && !identity.IsAdmin() {
		app.Notes = ""
		return app, nil
	}
	job, err := s.jobs.GetJob(ctx, s.db, app.JobID)
	if err != nil {
		return nil, err
	}
	ok, err := s.canReview(ctx, identity, job)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrForbidden
	}
	return app, nil
}

func (s *ApplicationService) ListApplicationsByJob(ctx context.Context, identity models.Identity, jobID string) ([]*models.Application, error) {
	job, err := s.jobs.GetJob(ctx, s.db, jobID)
	if err != nil {
		return nil, err
	}
	ok, err := s.canReview(ctx, identity, job)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrForbidden
	}
	return s.applications.ListApplicationsByJob(ctx, s.db, jobID)
}

func (s *ApplicationService) ListApplicationsBySeeker(ctx context.Context, identity models.Identity, jobSeekerID string) ([]*models.Application, error) {
	if jobSeekerID != identity.UserID && !identity.IsAdmin() {
		return nil, models.ErrForbidden
	}
	apps, err := s.applications.ListApplicationsBySeeker(ctx, s.db, jobSeekerID)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		for _, app := range apps {
			app.Notes = ""
		}
	}
	return apps, nil
}

// UpdateApplicationNotes sets the internal notes of an application. Only
// reviewers of the job may write them.
func (s *ApplicationService) UpdateApplicationNotes(ctx context.Context, identity models.Identity, applicationID, notes string) (*models.Application, error) {
	var app *models.Application
	err := s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		var err error
		app, err = s.applications.GetApplicationForUpdate(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		job, err := s.jobs.GetJob(ctx, tx, app.JobID)
		if err != nil {
			return err
		}
		if app.JobSeekerID == identity.UserID && !identity.IsAdmin() {
			return models.ErrForbidden
		}
		ok, err := s.canReviewWith(ctx, tx, identity, job)
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrForbidden
		}
		if err := s.applications.UpdateApplicationNotes(ctx, tx, app.ID, notes); err != nil {
			return err
		}
		app.Notes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Notes on application %s updated by %s", app.ID, identity.UserID)
	return app, nil
}
