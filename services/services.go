package services

import (
	"context"
	"errors"

	"agrihire-backend/dal"
	"agrihire-backend/lifecycle"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"
)

// Service implements ServiceContainerInterface
type Service struct {
	userService         UserServiceInterface
	entityService       EntityServiceInterface
	jobService          JobServiceInterface
	applicationService  ApplicationServiceInterface
	organizationService OrganizationServiceInterface
	profileService      ProfileServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	db dal.DatabaseClientInterface,
	validator *validation.Validator,
	logger logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	return &Service{
		userService:         NewUserService(repoContainer.GetUserRepository(), db, logger),
		entityService:       NewEntityService(repoContainer, db, validator, logger),
		jobService:          NewJobService(repoContainer, db, logger),
		applicationService:  NewApplicationService(repoContainer, db, logger),
		organizationService: NewOrganizationService(repoContainer, db, logger),
		profileService:      NewProfileService(repoContainer, db, logger),
	}
}

// GetUserService returns the user service interface
func (s *Service) GetUserService() UserServiceInterface {
	return s.userService
}

// GetEntityService returns the entity service interface
func (s *Service) GetEntityService() EntityServiceInterface {
	return s.entityService
}

// GetJobService returns the job service interface
func (s *Service) GetJobService() JobServiceInterface {
	return s.jobService
}

// GetApplicationService returns the application service interface
func (s *Service) GetApplicationService() ApplicationServiceInterface {
	return s.applicationService
}

// GetOrganizationService returns the organization service interface
func (s *Service) GetOrganizationService() OrganizationServiceInterface {
	return s.organizationService
}

// GetProfileService returns the employee profile service interface
func (s *Service) GetProfileService() ProfileServiceInterface {
	return s.profileService
}

// membershipOf returns the identity's membership in an organization, or nil
// when it has none.
func membershipOf(ctx context.Context, repo repository.OrganizationRepositoryInterface, h dal.Handler, identity models.Identity, organizationID string) (*models.OrganizationMembership, error) {
	m, err := repo.GetMembership(ctx, h, identity.UserID, organizationID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return m, err
}

func actorFor(ctx context.Context, repo repository.OrganizationRepositoryInterface, h dal.Handler, identity models.Identity, organizationID string) (lifecycle.Actor, error) {
	m, err := membershipOf(ctx, repo, h, identity, organizationID)
	if err != nil {
		return lifecycle.Actor{}, err
	}
	return lifecycle.Actor{Identity: identity, Membership: m}, nil
}

// canManage reports whether a membership may edit the organization itself.
func canManage(m *models.OrganizationMembership) bool {
	return m != nil && (m.Role == models.MembershipOwner || m.Role == models.MembershipManager)
}

// requireManager fails with ErrForbidden unless the identity is an admin or
// manages the organization.
func requireManager(ctx context.Context, repo repository.OrganizationRepositoryInterface, h dal.Handler, identity models.Identity, organizationID string) error {
	if identity.IsAdmin() {
		return nil
	}
	m, err := membershipOf(ctx, repo, h, identity, organizationID)
	if err != nil {
		return err
	}
	if !canManage(m) {
		return models.ErrForbidden
	}
	return nil
}

// requirePoster fails with ErrForbidden unless the identity is an admin or
// may post jobs for the organization.
func requirePoster(ctx context.Context, repo repository.OrganizationRepositoryInterface, h dal.Handler, identity models.Identity, organizationID string) error {
	if identity.IsAdmin() {
		return nil
	}
	m, err := membershipOf(ctx, repo, h, identity, organizationID)
	if err != nil {
		return err
	}
	if m == nil || !lifecycle.CanPost(m.Role) {
		return models.ErrForbidden
	}
	return nil
}
