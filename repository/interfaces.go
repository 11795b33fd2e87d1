package repository

import (
	"context"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, h dal.Handler, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, h dal.Handler, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, h dal.Handler, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, h dal.Handler, id string, at time.Time) error
	SetActive(ctx context.Context, h dal.Handler, id string, active bool) error
}

// OrganizationRepositoryInterface defines the contract for organizations,
// their memberships and their details
type OrganizationRepositoryInterface interface {
	CreateOrganization(ctx context.Context, h dal.Handler, org *models.Organization) (*models.Organization, error)
	GetOrganization(ctx context.Context, h dal.Handler, id string) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, h dal.Handler, org *models.Organization) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, h dal.Handler, id string) error
	ListOrganizationsForUser(ctx context.Context, h dal.Handler, userID string) ([]*models.Organization, error)

	CreateMembership(ctx context.Context, h dal.Handler, m *models.OrganizationMembership) (*models.OrganizationMembership, error)
	GetMembership(ctx context.Context, h dal.Handler, userID, organizationID string) (*models.OrganizationMembership, error)
	ListMemberships(ctx context.Context, h dal.Handler, userID string) ([]*models.OrganizationMembership, error)
	UpdateMembership(ctx context.Context, h dal.Handler, m *models.OrganizationMembership) error
	ClearPrimary(ctx context.Context, h dal.Handler, userID string) error
	CountOwners(ctx context.Context, h dal.Handler, organizationID string) (int, error)

	GetDetails(ctx context.Context, h dal.Handler, organizationID string) (*models.OrganizationDetails, error)
	UpsertDetails(ctx context.Context, h dal.Handler, d *models.OrganizationDetails) (bool, error)
}

// JobRepositoryInterface defines the contract for job repository operations
type JobRepositoryInterface interface {
	CreateJob(ctx context.Context, h dal.Handler, job *models.Job) (*models.Job, error)
	GetJob(ctx context.Context, h dal.Handler, id string) (*models.Job, error)
	GetJobForUpdate(ctx context.Context, h dal.Handler, id string) (*models.Job, error)
	GetJobsByFilter(ctx context.Context, h dal.Handler, filter *models.JobFilter) ([]*models.Job, error)
	UpdateJob(ctx context.Context, h dal.Handler, job *models.Job) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, h dal.Handler, id string, from, to models.JobStatus) error
	IncrementApplications(ctx context.Context, h dal.Handler, id string) error
	DeactivateExpired(ctx context.Context, h dal.Handler, now time.Time) (int64, error)
	DeleteJob(ctx context.Context, h dal.Handler, id string) error
}

// ApplicationRepositoryInterface defines the contract for application repository operations
type ApplicationRepositoryInterface interface {
	CreateApplication(ctx context.Context, h dal.Handler, app *models.Application) (*models.Application, error)
	GetApplication(ctx context.Context, h dal.Handler, id string) (*models.Application, error)
	GetApplicationForUpdate(ctx context.Context, h dal.Handler, id string) (*models.Application, error)
	ApplicationExists(ctx context.Context, h dal.Handler, jobID, jobSeekerID string) (bool, error)
	ListApplicationsByJob(ctx context.Context, h dal.Handler, jobID string) ([]*models.Application, error)
	ListApplicationsBySeeker(ctx context.Context, h dal.Handler, jobSeekerID string) ([]*models.Application, error)
	UpdateApplicationStatus(ctx context.Context, h dal.Handler, id string, from, to models.ApplicationStatus) error
	UpdateApplicationNotes(ctx context.Context, h dal.Handler, id, notes string) error
}

// EmployeeProfileRepositoryInterface defines the contract for employee profile repository operations
type EmployeeProfileRepositoryInterface interface {
	GetProfileByUser(ctx context.Context, h dal.Handler, userID string) (*models.EmployeeProfile, error)
	UpsertProfile(ctx context.Context, h dal.Handler, p *models.EmployeeProfile) (bool, error)
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetUserRepository() UserRepositoryInterface
	GetOrganizationRepository() OrganizationRepositoryInterface
	GetJobRepository() JobRepositoryInterface
	GetApplicationRepository() ApplicationRepositoryInterface
	GetEmployeeProfileRepository() EmployeeProfileRepositoryInterface
}
