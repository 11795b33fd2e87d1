package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/dal/daltest"
	"agrihire-backend/models"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation/validationtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *dal.DB
	repo     *Repository
	warnings []models.DataQualityWarning
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = daltest.OpenSqlite(s.T())
	s.warnings = nil
	codec := NewCodecWithReporter(func(w models.DataQualityWarning) {
		s.warnings = append(s.warnings, w)
	})
	s.repo = NewRepository(&models.Config{}, codec, logger.NewLogger("error", "text"))
}

func (s *RepositoryTestSuite) createUser(email string, role models.UserRole) *models.User {
	user, err := s.repo.User.CreateUser(s.ctx, s.db, &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         role,
	})
	s.Require().NoError(err)
	return user
}

func (s *RepositoryTestSuite) createOrganization(owner *models.User) *models.Organization {
	org := validationtest.Organization()
	org.CreatedBy = owner.ID
	created, err := s.repo.Organization.CreateOrganization(s.ctx, s.db, &org)
	s.Require().NoError(err)
	return created
}

func (s *RepositoryTestSuite) createJob(org *models.Organization, poster *models.User, status models.JobStatus) *models.Job {
	job := validationtest.Job()
	job.OrganizationID = org.ID
	job.PostedBy = poster.ID
	job.Status = status
	created, err := s.repo.Job.CreateJob(s.ctx, s.db, &job)
	s.Require().NoError(err)
	return created
}

func (s *RepositoryTestSuite) TestCreateUser_DuplicateEmail() {
	s.createUser("grace@example.com", models.UserRoleJobSeeker)

	_, err := s.repo.User.CreateUser(s.ctx, s.db, &models.User{
		Email: "grace@example.com", PasswordHash: "x", Name: "Other", Role: models.UserRoleEmployer,
	})
	var dup *models.DuplicateKeyError
	s.Require().ErrorAs(err, &dup)
	s.Equal("user", dup.Entity)
}

func (s *RepositoryTestSuite) TestGetUser_NotFound() {
	_, err := s.repo.User.GetUserByEmail(s.ctx, s.db, "missing@example.com")
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUpdateLastLogin() {
	user := s.createUser("grace@example.com", models.UserRoleJobSeeker)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.User.UpdateLastLogin(s.ctx, s.db, user.ID, at))

	got, err := s.repo.User.GetUserByID(s.ctx, s.db, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.LastLoginAt)
	s.True(at.Equal(*got.LastLoginAt))
}

func (s *RepositoryTestSuite) TestSetActive() {
	user := s.createUser("grace@example.com", models.UserRoleJobSeeker)
	s.True(user.IsActive)

	s.Require().NoError(s.repo.User.SetActive(s.ctx, s.db, user.ID, false))
	got, err := s.repo.User.GetUserByID(s.ctx, s.db, user.ID)
	s.Require().NoError(err)
	s.False(got.IsActive)

	s.ErrorIs(s.repo.User.SetActive(s.ctx, s.db, "missing", false), models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestMembership_Duplicate() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)

	m := &models.OrganizationMembership{UserID: owner.ID, OrganizationID: org.ID, Role: models.MembershipOwner, IsPrimary: true}
	_, err := s.repo.Organization.CreateMembership(s.ctx, s.db, m)
	s.Require().NoError(err)

	_, err = s.repo.Organization.CreateMembership(s.ctx, s.db, &models.OrganizationMembership{
		UserID: owner.ID, OrganizationID: org.ID, Role: models.MembershipViewer,
	})
	var dup *models.DuplicateKeyError
	s.Require().ErrorAs(err, &dup)
	s.Equal("membership", dup.Entity)
}

func (s *RepositoryTestSuite) TestMembership_UnknownOrganization() {
	user := s.createUser("owner@example.com", models.UserRoleEmployer)

	_, err := s.repo.Organization.CreateMembership(s.ctx, s.db, &models.OrganizationMembership{
		UserID: user.ID, OrganizationID: "missing", Role: models.MembershipOwner,
	})
	var ref *models.ReferentialIntegrityError
	s.ErrorAs(err, &ref)
}

func (s *RepositoryTestSuite) TestUpsertDetails_CreatesThenReplaces() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)

	d := validationtest.Details()
	d.OrganizationID = org.ID
	created, err := s.repo.Organization.UpsertDetails(s.ctx, s.db, &d)
	s.Require().NoError(err)
	s.True(created)

	d.MainEnterprises = []string{"coffee"}
	d.FarmSizeAcres = nil
	created, err = s.repo.Organization.UpsertDetails(s.ctx, s.db, &d)
	s.Require().NoError(err)
	s.False(created)

	got, err := s.repo.Organization.GetDetails(s.ctx, s.db, org.ID)
	s.Require().NoError(err)
	s.Equal([]string{"coffee"}, got.MainEnterprises)
	s.Nil(got.FarmSizeAcres)
	s.Equal(d.Location, got.Location)
}

func (s *RepositoryTestSuite) TestJob_RoundTrip() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)

	job := validationtest.Job()
	job.OrganizationID = org.ID
	job.PostedBy = owner.ID
	job.Status = models.JobStatusPendingReview
	job.Requirements.TechnicalSkills = []string{"milking", `say "hello", then, [leave]`, "ñ"}
	job.Requirements.Certifications = nil
	job.Preferences.EthnicPreferences = []string{}

	created, err := s.repo.Job.CreateJob(s.ctx, s.db, &job)
	s.Require().NoError(err)

	got, err := s.repo.Job.GetJob(s.ctx, s.db, created.ID)
	s.Require().NoError(err)
	s.Equal([]string{"milking", `say "hello", then, [leave]`, "ñ"}, got.Requirements.TechnicalSkills)
	s.Equal([]string{}, got.Requirements.Certifications)
	s.Equal([]string{}, got.Preferences.EthnicPreferences)
	s.Equal(job.Requirements.LanguagePreferences, got.Requirements.LanguagePreferences)
	s.True(job.Conditions.SalaryMin.Equal(*got.Conditions.SalaryMin))
	s.True(job.Conditions.SalaryMax.Equal(*got.Conditions.SalaryMax))
	s.Equal(3, *got.TotalWorkersNeeded)
	s.Nil(got.ContractDurationMonths)
	s.Equal(models.JobStatusPendingReview, got.Status)
	s.Equal(0, got.ApplicationsCount)
	s.True(got.IsActive)
	s.Require().NotNil(got.ExpiryDate)
	s.WithinDuration(*job.ExpiryDate, *got.ExpiryDate, time.Millisecond)
	s.Empty(s.warnings)
}

func (s *RepositoryTestSuite) TestJob_CorruptListIsReadAsEmpty() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)
	job := s.createJob(org, owner, models.JobStatusApproved)

	_, err := s.db.ExecContext(s.ctx, "UPDATE jobs SET soft_skills = ? WHERE id = ?", "teamwork, honesty", job.ID)
	s.Require().NoError(err)

	got, err := s.repo.Job.GetJob(s.ctx, s.db, job.ID)
	s.Require().NoError(err)
	s.Equal([]string{}, got.Requirements.SoftSkills)
	s.Equal(job.Requirements.TechnicalSkills, got.Requirements.TechnicalSkills)
	s.Require().Len(s.warnings, 1)
	s.Equal("job", s.warnings[0].Entity)
	s.Equal(job.ID, s.warnings[0].ID)
	s.Equal("requirements.softSkills", s.warnings[0].Field)
}

func (s *RepositoryTestSuite) TestUpdateJob_KeepsStatusAndCounters() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)
	job := s.createJob(org, owner, models.JobStatusApproved)
	s.Require().NoError(s.repo.Job.IncrementApplications(s.ctx, s.db, job.ID))

	job.Title = "Senior dairy hand"
	job.Status = models.JobStatusRejected
	updated, err := s.repo.Job.UpdateJob(s.ctx, s.db, job)
	s.Require().NoError(err)
	s.Equal("Senior dairy hand", updated.Title)
	s.Equal(models.JobStatusApproved, updated.Status)
	s.Equal(1, updated.ApplicationsCount)
}

func (s *RepositoryTestSuite) TestUpdateJobStatus_StaleState() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)
	job := s.createJob(org, owner, models.JobStatusPendingReview)

	s.Require().NoError(s.repo.Job.UpdateJobStatus(s.ctx, s.db, job.ID, models.JobStatusPendingReview, models.JobStatusApproved))

	err := s.repo.Job.UpdateJobStatus(s.ctx, s.db, job.ID, models.JobStatusPendingReview, models.JobStatusRejected)
	s.ErrorIs(err, models.ErrStaleState)

	got, err := s.repo.Job.GetJob(s.ctx, s.db, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusApproved, got.Status)
}

func (s *RepositoryTestSuite) TestGetJobsByFilter() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)
	approved := s.createJob(org, owner, models.JobStatusApproved)
	s.createJob(org, owner, models.JobStatusPendingReview)
	expired := s.createJob(org, owner, models.JobStatusApproved)

	_, err := s.db.ExecContext(s.ctx, "UPDATE jobs SET expiry_date = ? WHERE id = ?", time.Now().UTC().Add(-time.Hour), expired.ID)
	s.Require().NoError(err)

	all, err := s.repo.Job.GetJobsByFilter(s.ctx, s.db, nil)
	s.Require().NoError(err)
	s.Len(all, 3)

	listed, err := s.repo.Job.GetJobsByFilter(s.ctx, s.db, &models.JobFilter{Status: models.JobStatusApproved, ActiveOnly: true})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(approved.ID, listed[0].ID)
}

func (s *RepositoryTestSuite) TestDeactivateExpired() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)
	live := s.createJob(org, owner, models.JobStatusApproved)
	stale := s.createJob(org, owner, models.JobStatusApproved)

	now := time.Now().UTC()
	_, err := s.db.ExecContext(s.ctx, "UPDATE jobs SET expiry_date = ? WHERE id = ?", now.Add(-time.Minute), stale.ID)
	s.Require().NoError(err)

	n, err := s.repo.Job.DeactivateExpired(s.ctx, s.db, now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	got, err := s.repo.Job.GetJob(s.ctx, s.db, stale.ID)
	s.Require().NoError(err)
	s.False(got.IsActive)
	got, err = s.repo.Job.GetJob(s.ctx, s.db, live.ID)
	s.Require().NoError(err)
	s.True(got.IsActive)

	n, err = s.repo.Job.DeactivateExpired(s.ctx, s.db, now)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RepositoryTestSuite) TestApplication_DuplicateAfterRejection() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	seeker := s.createUser("seeker@example.com", models.UserRoleJobSeeker)
	org := s.createOrganization(owner)
	job := s.createJob(org, owner, models.JobStatusApproved)

	app, err := s.repo.Application.CreateApplication(s.ctx, s.db, &models.Application{JobID: job.ID, JobSeekerID: seeker.ID})
	s.Require().NoError(err)
	s.Equal(models.ApplicationStatusPending, app.Status)
	s.Require().NoError(s.repo.Application.UpdateApplicationStatus(s.ctx, s.db, app.ID, models.ApplicationStatusPending, models.ApplicationStatusReviewed))
	s.Require().NoError(s.repo.Application.UpdateApplicationStatus(s.ctx, s.db, app.ID, models.ApplicationStatusReviewed, models.ApplicationStatusRejected))

	_, err = s.repo.Application.CreateApplication(s.ctx, s.db, &models.Application{JobID: job.ID, JobSeekerID: seeker.ID})
	var dup *models.DuplicateKeyError
	s.Require().ErrorAs(err, &dup)
	s.Equal("application", dup.Entity)

	exists, err := s.repo.Application.ApplicationExists(s.ctx, s.db, job.ID, seeker.ID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RepositoryTestSuite) TestApplication_StaleState() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	seeker := s.createUser("seeker@example.com", models.UserRoleJobSeeker)
	org := s.createOrganization(owner)
	job := s.createJob(org, owner, models.JobStatusApproved)
	app, err := s.repo.Application.CreateApplication(s.ctx, s.db, &models.Application{JobID: job.ID, JobSeekerID: seeker.ID})
	s.Require().NoError(err)

	err = s.repo.Application.UpdateApplicationStatus(s.ctx, s.db, app.ID, models.ApplicationStatusReviewed, models.ApplicationStatusHired)
	s.ErrorIs(err, models.ErrStaleState)
}

func (s *RepositoryTestSuite) TestDeleteOrganization_Cascades() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	seeker := s.createUser("seeker@example.com", models.UserRoleJobSeeker)
	org := s.createOrganization(owner)
	_, err := s.repo.Organization.CreateMembership(s.ctx, s.db, &models.OrganizationMembership{
		UserID: owner.ID, OrganizationID: org.ID, Role: models.MembershipOwner, IsPrimary: true,
	})
	s.Require().NoError(err)
	job := s.createJob(org, owner, models.JobStatusApproved)
	app, err := s.repo.Application.CreateApplication(s.ctx, s.db, &models.Application{JobID: job.ID, JobSeekerID: seeker.ID})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Organization.DeleteOrganization(s.ctx, s.db, org.ID))

	_, err = s.repo.Job.GetJob(s.ctx, s.db, job.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.repo.Application.GetApplication(s.ctx, s.db, app.ID)
	s.ErrorIs(err, models.ErrNotFound)
	memberships, err := s.repo.Organization.ListMemberships(s.ctx, s.db, owner.ID)
	s.Require().NoError(err)
	s.Empty(memberships)
}

func (s *RepositoryTestSuite) TestUpsertProfile_ReplacesWholesale() {
	seeker := s.createUser("seeker@example.com", models.UserRoleJobSeeker)

	profile := validationtest.EmployeeProfile(seeker.ID)
	created, err := s.repo.Profile.UpsertProfile(s.ctx, s.db, &profile)
	s.Require().NoError(err)
	s.True(created)
	firstID := profile.ID

	replacement := validationtest.EmployeeProfile(seeker.ID)
	replacement.Competencies.SkillProficiency = map[string]int{"pruning": 3}
	replacement.Experience.CropsCaredFor = nil
	created, err = s.repo.Profile.UpsertProfile(s.ctx, s.db, &replacement)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(firstID, replacement.ID)

	got, err := s.repo.Profile.GetProfileByUser(s.ctx, s.db, seeker.ID)
	s.Require().NoError(err)
	s.Equal(firstID, got.ID)
	s.Equal(map[string]int{"pruning": 3}, got.Competencies.SkillProficiency)
	s.Equal([]string{}, got.Experience.CropsCaredFor)
	s.Equal(replacement.Experience.References, got.Experience.References)
	s.Equal(replacement.Education.Qualifications, got.Education.Qualifications)
	s.Empty(s.warnings)
}

// A lost insert race falls back to an update inside the same transaction.
func (s *RepositoryTestSuite) TestUpsertProfile_ConflictKeepsTransactionUsable() {
	seeker := s.createUser("seeker@example.com", models.UserRoleJobSeeker)
	first := validationtest.EmployeeProfile(seeker.ID)
	_, err := s.repo.Profile.UpsertProfile(s.ctx, s.db, &first)
	s.Require().NoError(err)

	err = s.db.TransactionContext(s.ctx, func(tx *dal.Tx) error {
		second := validationtest.EmployeeProfile(seeker.ID)
		second.Personal.FullName = "Second Writer"
		second.CreatedAt = time.Now().UTC()
		inserted, err := s.repo.Profile.insert(s.ctx, tx, &second)
		s.Require().NoError(err)
		s.False(inserted)

		created, err := s.repo.Profile.UpsertProfile(s.ctx, tx, &second)
		s.Require().NoError(err)
		s.False(created)
		return nil
	})
	s.Require().NoError(err)

	got, err := s.repo.Profile.GetProfileByUser(s.ctx, s.db, seeker.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, got.ID)
	s.Equal("Second Writer", got.Personal.FullName)
}

func (s *RepositoryTestSuite) TestUpsertDetails_ConflictKeepsTransactionUsable() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	org := s.createOrganization(owner)
	d := validationtest.Details()
	d.OrganizationID = org.ID
	_, err := s.repo.Organization.UpsertDetails(s.ctx, s.db, &d)
	s.Require().NoError(err)

	err = s.db.TransactionContext(s.ctx, func(tx *dal.Tx) error {
		again := validationtest.Details()
		again.OrganizationID = org.ID
		again.ContactPersonName = "Second Writer"
		again.CreatedAt = time.Now().UTC()
		again.UpdatedAt = again.CreatedAt
		inserted, err := s.repo.Organization.insertDetails(s.ctx, tx, &again)
		s.Require().NoError(err)
		s.False(inserted)

		created, err := s.repo.Organization.UpsertDetails(s.ctx, tx, &again)
		s.Require().NoError(err)
		s.False(created)
		return nil
	})
	s.Require().NoError(err)

	got, err := s.repo.Organization.GetDetails(s.ctx, s.db, org.ID)
	s.Require().NoError(err)
	s.Equal("Second Writer", got.ContactPersonName)
}

func (s *RepositoryTestSuite) TestUpsertProfile_UnknownUser() {
	profile := validationtest.EmployeeProfile("missing")
	_, err := s.repo.Profile.UpsertProfile(s.ctx, s.db, &profile)
	var ref *models.ReferentialIntegrityError
	s.ErrorAs(err, &ref)
}

func (s *RepositoryTestSuite) TestTransactionRollsBackComposite() {
	owner := s.createUser("owner@example.com", models.UserRoleEmployer)
	boom := errors.New("boom")

	err := s.db.TransactionContext(s.ctx, func(tx *dal.Tx) error {
		org := validationtest.Organization()
		org.CreatedBy = owner.ID
		if _, err := s.repo.Organization.CreateOrganization(s.ctx, tx, &org); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	orgs, err := s.repo.Organization.ListOrganizationsForUser(s.ctx, s.db, owner.ID)
	s.Require().NoError(err)
	s.Empty(orgs)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestDecodeList(t *testing.T) {
	var warnings []models.DataQualityWarning
	c := NewCodecWithReporter(func(w models.DataQualityWarning) { warnings = append(warnings, w) })

	assert.Equal(t, []string{}, decodeList[string](c, "job", "1", "f", ""))
	assert.Equal(t, []string{}, decodeList[string](c, "job", "1", "f", "null"))
	assert.Equal(t, []string{"a", "b"}, decodeList[string](c, "job", "1", "f", `["a","b"]`))
	assert.Empty(t, warnings)

	assert.Equal(t, []string{}, decodeList[string](c, "job", "1", "f", `{"a":1}`))
	assert.Equal(t, []string{}, decodeList[string](c, "job", "1", "f", `[1,2]`))
	require.Len(t, warnings, 2)
	assert.Equal(t, "f", warnings[1].Field)
}

func TestEncodeList(t *testing.T) {
	s, err := encodeList[string](nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	m, err := encodeMap[int](nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", m)
}
