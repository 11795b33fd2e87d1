package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/utils"
	"agrihire-backend/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}

// MockUserRepository implements the UserRepositoryInterface for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, h dal.Handler, user *models.User) (*models.User, error) {
	args := m.Called(ctx, h, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, h dal.Handler, id string) (*models.User, error) {
	args := m.Called(ctx, h, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, h dal.Handler, email string) (*models.User, error) {
	args := m.Called(ctx, h, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, h dal.Handler, id string, at time.Time) error {
	args := m.Called(ctx, h, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, h dal.Handler, id string, active bool) error {
	args := m.Called(ctx, h, id, active)
	return args.Error(0)
}

// UserServiceTestSuite contains the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	mockRepo   *MockUserRepository
	mockLogger *MockLogger
	service    *UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = &MockUserRepository{}
	suite.mockLogger = &MockLogger{}

	suite.mockLogger.On("Debugf", mock.Anything, mock.Anything).Maybe()
	suite.mockLogger.On("Infof", mock.Anything, mock.Anything).Maybe()
	suite.mockLogger.On("Warnf", mock.Anything, mock.Anything).Maybe()
	suite.mockLogger.On("Errorf", mock.Anything, mock.Anything).Maybe()

	suite.service = NewUserService(suite.mockRepo, nil, suite.mockLogger)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestRegister_HashesAndNormalizes() {
	req := &models.RegisterUser{
		Email:    "  Grace@Example.com ",
		Password: "securePassword123",
		Name:     "Grace Akello",
		Role:     models.UserRoleJobSeeker,
	}
	suite.mockRepo.On("CreateUser", suite.ctx, mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "grace@example.com" &&
			u.Role == models.UserRoleJobSeeker &&
			utils.CheckPassword(u.PasswordHash, "securePassword123")
	})).Return(&models.User{ID: "user-1", Email: "grace@example.com", Role: models.UserRoleJobSeeker}, nil)

	user, err := suite.service.Register(suite.ctx, req)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "user-1", user.ID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_RejectsAdminRole() {
	_, err := suite.service.Register(suite.ctx, &models.RegisterUser{
		Email: "root@example.com", Password: "securePassword123", Name: "Root", Role: models.UserRoleAdmin,
	})

	var verr *models.ValidationError
	suite.Require().ErrorAs(err, &verr)
	assert.Contains(suite.T(), verr.Violations, "role")
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	dup := &models.DuplicateKeyError{Entity: "user", Key: "email grace@example.com"}
	suite.mockRepo.On("CreateUser", suite.ctx, mock.Anything, mock.Anything).Return(nil, dup)

	_, err := suite.service.Register(suite.ctx, &models.RegisterUser{
		Email: "grace@example.com", Password: "securePassword123", Name: "Grace", Role: models.UserRoleEmployer,
	})

	assert.ErrorIs(suite.T(), err, dup)
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	hash, err := utils.HashPassword("securePassword123")
	suite.Require().NoError(err)
	stored := &models.User{ID: "user-1", Email: "grace@example.com", PasswordHash: hash, IsActive: true}
	suite.mockRepo.On("GetUserByEmail", suite.ctx, mock.Anything, "grace@example.com").Return(stored, nil)
	suite.mockRepo.On("UpdateLastLogin", suite.ctx, mock.Anything, "user-1", mock.AnythingOfType("time.Time")).Return(nil)

	user, err := suite.service.Authenticate(suite.ctx, "Grace@example.com", "securePassword123")

	suite.Require().NoError(err)
	suite.Require().NotNil(user.LastLoginAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	hash, err := utils.HashPassword("securePassword123")
	suite.Require().NoError(err)
	suite.mockRepo.On("GetUserByEmail", suite.ctx, mock.Anything, "grace@example.com").
		Return(&models.User{ID: "user-1", PasswordHash: hash, IsActive: true}, nil)

	_, err = suite.service.Authenticate(suite.ctx, "grace@example.com", "wrong")

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownEmail() {
	suite.mockRepo.On("GetUserByEmail", suite.ctx, mock.Anything, "nobody@example.com").Return(nil, models.ErrNotFound)

	_, err := suite.service.Authenticate(suite.ctx, "nobody@example.com", "whatever")

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestAuthenticate_InactiveUser() {
	hash, err := utils.HashPassword("securePassword123")
	suite.Require().NoError(err)
	suite.mockRepo.On("GetUserByEmail", suite.ctx, mock.Anything, "grace@example.com").
		Return(&models.User{ID: "user-1", PasswordHash: hash, IsActive: false}, nil)

	_, err = suite.service.Authenticate(suite.ctx, "grace@example.com", "securePassword123")

	assert.ErrorIs(suite.T(), err, models.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestEnsureAdmin_CreatesOnce() {
	suite.mockRepo.On("GetUserByEmail", suite.ctx, mock.Anything, "admin@example.com").Return(nil, models.ErrNotFound).Once()
	suite.mockRepo.On("CreateUser", suite.ctx, mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.UserRoleAdmin
	})).Return(&models.User{ID: "admin-1", Role: models.UserRoleAdmin}, nil).Once()

	user, created, err := suite.service.EnsureAdmin(suite.ctx, "admin@example.com", "adminPassword1", "Admin")
	suite.Require().NoError(err)
	assert.True(suite.T(), created)
	assert.Equal(suite.T(), "admin-1", user.ID)

	suite.mockRepo.On("GetUserByEmail", suite.ctx, mock.Anything, "admin@example.com").
		Return(&models.User{ID: "admin-1", Role: models.UserRoleAdmin}, nil).Once()
	_, created, err = suite.service.EnsureAdmin(suite.ctx, "admin@example.com", "adminPassword1", "Admin")
	suite.Require().NoError(err)
	assert.False(suite.T(), created)
}

func (suite *UserServiceTestSuite) TestEnsureAdmin_ExistingNonAdmin() {
	suite.mockRepo.On("GetUserByEmail", suite.ctx, mock.Anything, "grace@example.com").
		Return(&models.User{ID: "user-1", Role: models.UserRoleEmployer}, nil)

	_, _, err := suite.service.EnsureAdmin(suite.ctx, "grace@example.com", "x", "Grace")

	assert.Error(suite.T(), err)
}

func (suite *UserServiceTestSuite) TestGetUserByID_PropagatesError() {
	boom := errors.New("boom")
	suite.mockRepo.On("GetUserByID", suite.ctx, mock.Anything, "user-1").Return(nil, boom)

	_, err := suite.service.GetUserByID(suite.ctx, "user-1")

	assert.ErrorIs(suite.T(), err, boom)
}

func (suite *UserServiceTestSuite) TestSetUserActive() {
	admin := models.Identity{UserID: "admin-1", Role: models.UserRoleAdmin}
	suite.mockRepo.On("SetActive", suite.ctx, mock.Anything, "user-1", false).Return(nil).Once()
	suite.mockRepo.On("GetUserByID", suite.ctx, mock.Anything, "user-1").
		Return(&models.User{ID: "user-1", IsActive: false}, nil).Once()

	user, err := suite.service.SetUserActive(suite.ctx, admin, "user-1", false)

	suite.Require().NoError(err)
	assert.False(suite.T(), user.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestSetUserActive_Rules() {
	employer := models.Identity{UserID: "user-2", Role: models.UserRoleEmployer}
	_, err := suite.service.SetUserActive(suite.ctx, employer, "user-1", false)
	assert.ErrorIs(suite.T(), err, models.ErrForbidden)

	admin := models.Identity{UserID: "admin-1", Role: models.UserRoleAdmin}
	_, err = suite.service.SetUserActive(suite.ctx, admin, "admin-1", false)
	var verr *models.ValidationError
	assert.ErrorAs(suite.T(), err, &verr)

	suite.mockRepo.On("SetActive", suite.ctx, mock.Anything, "missing", true).Return(models.ErrNotFound).Once()
	_, err = suite.service.SetUserActive(suite.ctx, admin, "missing", true)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetUserByID", suite.ctx, mock.Anything, "missing")
}
