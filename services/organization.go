package services

import (
	"context"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/utils/logger"
)

type OrganizationService struct {
	organizationRepo repository.OrganizationRepositoryInterface
	db               dal.DatabaseClientInterface
	logger           logger.Logger
}

func NewOrganizationService(repos repository.RepositoryContainerInterface, db dal.DatabaseClientInterface, logger logger.Logger) *OrganizationService {
	return &OrganizationService{
		organizationRepo: repos.GetOrganizationRepository(),
		db:               db,
		logger:           logger,
	}
}

func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	return s.organizationRepo.GetOrganization(ctx, s.db, id)
}

// GetOrganizationDetails returns ErrNotFound when the organization has not
// completed its details yet.
func (s *OrganizationService) GetOrganizationDetails(ctx context.Context, organizationID string) (*models.OrganizationDetails, error) {
	return s.organizationRepo.GetDetails(ctx, s.db, organizationID)
}

// ListOrganizations returns the organizations the identity belongs to,
// primary first.
func (s *OrganizationService) ListOrganizations(ctx context.Context, identity models.Identity) ([]*models.Organization, error) {
	return s.organizationRepo.ListOrganizationsForUser(ctx, s.db, identity.UserID)
}

// ChangeMembershipRole edits an existing membership. Only owners and admins
// may change roles, and an organization always keeps at least one owner.
func (s *OrganizationService) ChangeMembershipRole(ctx context.Context, identity models.Identity, organizationID, userID string, role models.MembershipRole) (*models.OrganizationMembership, error) {
	if !models.Contains(models.MembershipRoles, role) {
		return nil, &models.ValidationError{
			Entity:     "membership",
			Violations: models.Violations{"role": "role must be one of owner, manager, recruiter, viewer"},
		}
	}

	var m *models.OrganizationMembership
	err := s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		if !identity.IsAdmin() {
			actor, err := membershipOf(ctx, s.organizationRepo, tx, identity, organizationID)
			if err != nil {
				return err
			}
			if actor == nil || actor.Role != models.MembershipOwner {
				return models.ErrForbidden
			}
		}

		var err error
		m, err = s.organizationRepo.GetMembership(ctx, tx, userID, organizationID)
		if err != nil {
			return err
		}
		if m.Role == models.MembershipOwner && role != models.MembershipOwner {
			owners, err := s.organizationRepo.CountOwners(ctx, tx, organizationID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return &models.ValidationError{
					Entity:     "membership",
					Violations: models.Violations{"role": "an organization must keep at least one owner"},
				}
			}
		}
		m.Role = role
		return s.organizationRepo.UpdateMembership(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("User %s is now %s of organization %s", userID, role, organizationID)
	return m, nil
}

// DeleteOrganization removes an organization with its details, memberships,
// jobs and their applications.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, identity models.Identity, id string) error {
	return s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		if _, err := s.organizationRepo.GetOrganization(ctx, tx, id); err != nil {
			return err
		}
		if !identity.IsAdmin() {
			m, err := membershipOf(ctx, s.organizationRepo, tx, identity, id)
			if err != nil {
				return err
			}
			if m == nil || m.Role != models.MembershipOwner {
				return models.ErrForbidden
			}
		}
		if err := s.organizationRepo.DeleteOrganization(ctx, tx, id); err != nil {
			return err
		}
		s.logger.Infof("Organization %s deleted by %s", id, identity.UserID)
		return nil
	})
}
