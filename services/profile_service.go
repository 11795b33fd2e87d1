package services

import (
	"context"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/utils/logger"
)

type ProfileService struct {
	profiles repository.EmployeeProfileRepositoryInterface
	db       dal.DatabaseClientInterface
	logger   logger.Logger
}

func NewProfileService(repos repository.RepositoryContainerInterface, db dal.DatabaseClientInterface, log logger.Logger) *ProfileService {
	return &ProfileService{
		profiles: repos.GetEmployeeProfileRepository(),
		db:       db,
		logger:   log,
	}
}

// GetEmployeeProfile returns a job seeker's profile to the seeker, to
// employers and to admins.
func (s *ProfileService) GetEmployeeProfile(ctx context.Context, identity models.Identity, userID string) (*models.EmployeeProfile, error) {
	if userID != identity.UserID && identity.Role == models.UserRoleJobSeeker {
		return nil, models.ErrForbidden
	}
	return s.profiles.GetProfileByUser(ctx, s.db, userID)
}
