package services

import (
	"context"

	"agrihire-backend/models"
	"agrihire-backend/validation"
)

// UserServiceInterface defines the contract for user service
type UserServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterUser) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, password, name string) (*models.User, bool, error)
	SetUserActive(ctx context.Context, identity models.Identity, id string, active bool) (*models.User, error)
}

// EntityServiceInterface validates drafts and writes them with the
// semantics of each entity's natural key
type EntityServiceInterface interface {
	ValidateStep(entity validation.EntityType, step int, draft any) models.Violations
	ValidateFull(ctx context.Context, identity models.Identity, entity validation.EntityType, draft any) (models.Violations, error)
	CreateOrUpdate(ctx context.Context, identity models.Identity, entity validation.EntityType, draft any) (*models.UpsertResult, error)
	SubmitJobPosting(ctx context.Context, identity models.Identity, draft *models.JobPostingDraft) (*models.JobPostingResult, error)
}

// JobServiceInterface defines the contract for job service
type JobServiceInterface interface {
	TransitionJobStatus(ctx context.Context, identity models.Identity, jobID string, to models.JobStatus) (*models.Job, error)
	ListJobs(ctx context.Context, identity models.Identity, filter *models.JobFilter) ([]*models.Job, error)
	ListPublicJobs(ctx context.Context) ([]*models.Job, error)
	GetJob(ctx context.Context, identity models.Identity, id string) (*models.Job, error)
	DeleteJob(ctx context.Context, identity models.Identity, id string) error
	DeactivateExpiredJobs(ctx context.Context) (int64, error)
}

// ApplicationServiceInterface defines the contract for application service
type ApplicationServiceInterface interface {
	TransitionApplicationStatus(ctx context.Context, identity models.Identity, applicationID string, to models.ApplicationStatus) (*models.Application, error)
	GetApplication(ctx context.Context, identity models.Identity, id string) (*models.Application, error)
	ListApplicationsByJob(ctx context.Context, identity models.Identity, jobID string) ([]*models.Application, error)
	ListApplicationsBySeeker(ctx context.Context, identity models.Identity, jobSeekerID string) ([]*models.Application, error)
	UpdateApplicationNotes(ctx context.Context, identity models.Identity, applicationID, notes string) (*models.Application, error)
}

// OrganizationServiceInterface defines the contract for organization service
type OrganizationServiceInterface interface {
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	GetOrganizationDetails(ctx context.Context, organizationID string) (*models.OrganizationDetails, error)
	ListOrganizations(ctx context.Context, identity models.Identity) ([]*models.Organization, error)
	ChangeMembershipRole(ctx context.Context, identity models.Identity, organizationID, userID string, role models.MembershipRole) (*models.OrganizationMembership, error)
	DeleteOrganization(ctx context.Context, identity models.Identity, id string) error
}

// ProfileServiceInterface defines the contract for employee profile service
type ProfileServiceInterface interface {
	GetEmployeeProfile(ctx context.Context, identity models.Identity, userID string) (*models.EmployeeProfile, error)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetUserService() UserServiceInterface
	GetEntityService() EntityServiceInterface
	GetJobService() JobServiceInterface
	GetApplicationService() ApplicationServiceInterface
	GetOrganizationService() OrganizationServiceInterface
	GetProfileService() ProfileServiceInterface
}
