package services

import (
	"agrihire-backend/models"
	"agrihire-backend/validation"
)

func (s *EntityServiceTestSuite) TestChangeMembershipRole_KeepsLastOwner() {
	posted := s.post()

	_, err := s.services.GetOrganizationService().ChangeMembershipRole(s.ctx, s.employer, posted.OrganizationID, s.employer.UserID, models.MembershipManager)

	var verr *models.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Violations, "role")
}

func (s *EntityServiceTestSuite) TestChangeMembershipRole_SecondOwnerCanStepDown() {
	posted := s.post()
	partner := s.register("ruth@example.com", models.UserRoleEmployer)
	_, err := s.services.GetEntityService().CreateOrUpdate(s.ctx, s.employer, validation.EntityMembership,
		&models.OrganizationMembership{UserID: partner.UserID, OrganizationID: posted.OrganizationID, Role: models.MembershipOwner})
	s.Require().NoError(err)

	m, err := s.services.GetOrganizationService().ChangeMembershipRole(s.ctx, s.employer, posted.OrganizationID, s.employer.UserID, models.MembershipRecruiter)
	s.Require().NoError(err)
	s.Equal(models.MembershipRecruiter, m.Role)

	_, err = s.services.GetOrganizationService().ChangeMembershipRole(s.ctx, s.employer, posted.OrganizationID, partner.UserID, models.MembershipViewer)
	s.ErrorIs(err, models.ErrForbidden)
}

func (s *EntityServiceTestSuite) TestChangeMembershipRole_UnknownRole() {
	posted := s.post()

	_, err := s.services.GetOrganizationService().ChangeMembershipRole(s.ctx, s.admin, posted.OrganizationID, s.employer.UserID, models.MembershipRole("boss"))

	var verr *models.ValidationError
	s.ErrorAs(err, &verr)
}

func (s *EntityServiceTestSuite) TestOrganizationDetailsAndListing() {
	posted := s.post()

	details, err := s.services.GetOrganizationService().GetOrganizationDetails(s.ctx, posted.OrganizationID)
	s.Require().NoError(err)
	s.Equal(models.EnterpriseMixedFarm, details.EnterpriseType)

	orgs, err := s.services.GetOrganizationService().ListOrganizations(s.ctx, s.employer)
	s.Require().NoError(err)
	s.Len(orgs, 1)

	org := models.Organization{Name: "Bare Org", Type: models.OrganizationTypeFarm, Description: "No details yet"}
	created, err := s.services.GetEntityService().CreateOrUpdate(s.ctx, s.employer, validation.EntityOrganization, &org)
	s.Require().NoError(err)
	_, err = s.services.GetOrganizationService().GetOrganizationDetails(s.ctx, created.ID)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *EntityServiceTestSuite) TestDeleteOrganization_OwnerOnly() {
	posted := s.post()
	s.approve(posted.JobID)
	s.apply(posted.JobID)

	s.ErrorIs(s.services.GetOrganizationService().DeleteOrganization(s.ctx, s.seeker, posted.OrganizationID), models.ErrForbidden)
	s.Require().NoError(s.services.GetOrganizationService().DeleteOrganization(s.ctx, s.employer, posted.OrganizationID))

	_, err := s.repo.Job.GetJob(s.ctx, s.db, posted.JobID)
	s.ErrorIs(err, models.ErrNotFound)
	apps, err := s.repo.Application.ListApplicationsBySeeker(s.ctx, s.db, s.seeker.UserID)
	s.Require().NoError(err)
	s.Empty(apps)
}
