package services

import (
	"context"
	"errors"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/lifecycle"
	"agrihire-backend/metrics"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/utils/logger"
)

type JobService struct {
	jobs          repository.JobRepositoryInterface
	organizations repository.OrganizationRepositoryInterface
	db            dal.DatabaseClientInterface
	logger        logger.Logger
}

func NewJobService(repos repository.RepositoryContainerInterface, db dal.DatabaseClientInterface, log logger.Logger) *JobService {
	return &JobService{
		jobs:          repos.GetJobRepository(),
		organizations: repos.GetOrganizationRepository(),
		db:            db,
		logger:        log,
	}
}

// TransitionJobStatus moves a job to the requested status. The read, the
// authority check and the guarded write share one transaction; a concurrent
// change to the same job surfaces as ErrStaleState.
func (s *JobService) TransitionJobStatus(ctx context.Context, identity models.Identity, jobID string, to models.JobStatus) (*models.Job, error) {
	var job *models.Job
	var from models.JobStatus
	err := s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		var err error
		job, err = s.jobs.GetJobForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}
		from = job.Status
		actor, err := actorFor(ctx, s.organizations, tx, identity, job.OrganizationID)
		if err != nil {
			return err
		}
		if err := lifecycle.TransitionJob(job, to, actor); err != nil {
			return err
		}
		if err := s.jobs.UpdateJobStatus(ctx, tx, job.ID, from, to); err != nil {
			return err
		}
		job.Status = to
		return nil
	})

	var illegal *models.IllegalTransitionError
	switch {
	case err == nil:
		metrics.Transitions.WithLabelValues("job", string(from), string(to), "ok").Inc()
	case errors.As(err, &illegal):
		metrics.Transitions.WithLabelValues("job", string(from), string(to), "illegal").Inc()
		return nil, err
	case errors.Is(err, models.ErrStaleState):
		metrics.Transitions.WithLabelValues("job", string(from), string(to), "stale").Inc()
		return nil, err
	default:
		return nil, err
	}

	if lifecycle.IsOverride(from, to) {
		s.logger.Infof("Admin %s reopened job %s for review", identity.UserID, job.ID)
	} else {
		s.logger.Infof("Job %s moved from %s to %s by %s", job.ID, from, to, identity.UserID)
	}
	return job, nil
}

// ListJobs applies a filter for callers allowed to see unpublished jobs:
// admins, and members listing their own organization. Everybody else only
// sees the public listing narrowed by the filter.
func (s *JobService) ListJobs(ctx context.Context, identity models.Identity, filter *models.JobFilter) ([]*models.Job, error) {
	f := models.JobFilter{}
	if filter != nil {
		f = *filter
	}
	if !identity.IsAdmin() {
		member := false
		if f.OrganizationID != "" {
			m, err := membershipOf(ctx, s.organizations, s.db, identity, f.OrganizationID)
			if err != nil {
				return nil, err
			}
			member = m != nil
		}
		if !member {
			f.Status = models.JobStatusApproved
			f.ActiveOnly = true
		}
	}
	return s.jobs.GetJobsByFilter(ctx, s.db, &f)
}

// ListPublicJobs returns approved jobs inside their active window.
func (s *JobService) ListPublicJobs(ctx context.Context) ([]*models.Job, error) {
	return s.jobs.GetJobsByFilter(ctx, s.db, &models.JobFilter{Status: models.JobStatusApproved, ActiveOnly: true})
}

// GetJob returns a job that is publicly listed, or any job to admins and
// members of its organization. Other jobs read as not found.
func (s *JobService) GetJob(ctx context.Context, identity models.Identity, id string) (*models.Job, error) {
	job, err := s.jobs.GetJob(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if identity.IsAdmin() || job.IsListable(time.Now().UTC()) {
		return job, nil
	}
	m, err := membershipOf(ctx, s.organizations, s.db, identity, job.OrganizationID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, models.ErrNotFound
	}
	return job, nil
}

// DeleteJob removes a job and its applications.
func (s *JobService) DeleteJob(ctx context.Context, identity models.Identity, id string) error {
	return s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		job, err := s.jobs.GetJobForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := requireManager(ctx, s.organizations, tx, identity, job.OrganizationID); err != nil {
			return err
		}
		if err := s.jobs.DeleteJob(ctx, tx, id); err != nil {
			return err
		}
		s.logger.Infof("Job %s deleted by %s", id, identity.UserID)
		return nil
	})
}

// DeactivateExpiredJobs clears the active flag of jobs past their expiry
// date and returns how many were changed.
func (s *JobService) DeactivateExpiredJobs(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		var err error
		n, err = s.jobs.DeactivateExpired(ctx, tx, time.Now().UTC())
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.ExpiredJobs.Add(float64(n))
	if n > 0 {
		s.logger.Infof("Deactivated %d expired jobs", n)
	}
	return n, nil
}
