package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agrihire-backend/dal/daltest"
	"agrihire-backend/middelware"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"
	"agrihire-backend/validation/validationtest"
	"agrihire-backend/wizard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

// ControllerTestSuite drives the routes end to end against SQLite.
type ControllerTestSuite struct {
	suite.Suite
	ctx      context.Context
	router   *gin.Engine
	services services.ServiceContainerInterface
	jwt      *middelware.JWTManager

	admin    string
	employer string
	seeker   string
	seekerID string
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctx = context.Background()

	cfg := &models.Config{
		AppName:      "AgriHire Test",
		AppVersion:   "test",
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
	}
	log := logger.NewLogger("error", "text")
	db := daltest.OpenSqlite(s.T())
	repo := repository.NewRepository(cfg, repository.NewCodec(log), log)
	v := validation.New(validation.Options{})
	s.services = services.NewService(repo, db, v, log, cfg)

	wizards, err := wizard.NewManager(v, 16, log)
	s.Require().NoError(err)
	s.jwt = middelware.NewJWTManager(cfg, log, s.services.GetUserService())

	s.router = gin.New()
	NewController(cfg, s.services, v, wizards, s.jwt, nil, log).RegisterRoutes(s.router, "/api/v1")

	admin, _, err := s.services.GetUserService().EnsureAdmin(s.ctx, "admin@example.com", "admin-password", "Admin")
	s.Require().NoError(err)
	s.admin = s.token(admin)
	s.employer = s.token(s.registerUser("sarah@example.com", models.UserRoleEmployer))
	seeker := s.registerUser("john@example.com", models.UserRoleJobSeeker)
	s.seeker = s.token(seeker)
	s.seekerID = seeker.ID
}

func (s *ControllerTestSuite) registerUser(email string, role models.UserRole) *models.User {
	user, err := s.services.GetUserService().Register(s.ctx, &models.RegisterUser{
		Email: email, Password: "password123", Name: "Test User", Role: role,
	})
	s.Require().NoError(err)
	return user
}

func (s *ControllerTestSuite) token(user *models.User) string {
	token, _, err := s.jwt.GenerateToken(user)
	s.Require().NoError(err)
	return token
}

// do sends a request and returns the recorder and the parsed envelope.
func (s *ControllerTestSuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, gjson.Result) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w, gjson.ParseBytes(w.Body.Bytes())
}

// postJob submits a posting as the employer and returns the job id.
func (s *ControllerTestSuite) postJob() string {
	w, resp := s.do(http.MethodPost, "/entities/job_posting", s.employer, validationtest.JobPosting())
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return resp.Get("data.jobId").String()
}

func (s *ControllerTestSuite) TestHealth() {
	w, resp := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("healthy", resp.Get("status").String())
	s.False(resp.Get("worker").Exists())
}

func (s *ControllerTestSuite) TestRegisterLoginAndMe() {
	w, resp := s.do(http.MethodPost, "/user/register", "", models.RegisterUser{
		Email: "Grace@Example.com", Password: "password123", Name: "Grace Akello", Role: models.UserRoleJobSeeker,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("grace@example.com", resp.Get("data.email").String())
	s.False(resp.Get("data.passwordHash").Exists())

	w, _ = s.do(http.MethodPost, "/user/register", "", models.RegisterUser{
		Email: "grace@example.com", Password: "password123", Name: "Grace Again", Role: models.UserRoleJobSeeker,
	})
	s.Equal(http.StatusConflict, w.Code)

	w, resp = s.do(http.MethodPost, "/user/login", "", models.LoginRequest{Email: "grace@example.com", Password: "password123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	token := resp.Get("data.token").String()
	s.NotEmpty(token)

	w, resp = s.do(http.MethodGet, "/user/me", token, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("job_seeker", resp.Get("data.role").String())

	w, _ = s.do(http.MethodPost, "/user/logout", token, nil)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/user/me", token, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ControllerTestSuite) TestRegister_BadRequests() {
	w, resp := s.do(http.MethodPost, "/user/register", "", `{"email":"not-an-email"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("error", resp.Get("status").String())

	w, _ = s.do(http.MethodPost, "/user/register", "", models.RegisterUser{
		Email: "boss@example.com", Password: "password123", Name: "Boss", Role: models.UserRoleAdmin,
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) TestLogin_WrongPassword() {
	w, resp := s.do(http.MethodPost, "/user/login", "", models.LoginRequest{Email: "john@example.com", Password: "wrong-password"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("AuthenticationError", resp.Get("error.type").String())
}

func (s *ControllerTestSuite) TestAuthRequired() {
	w, _ := s.do(http.MethodGet, "/jobs", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/jobs/public", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *ControllerTestSuite) TestUnknownEntity() {
	w, resp := s.do(http.MethodPost, "/entities/tractor", s.employer, `{}`)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("entity", resp.Get("error.field").String())
}

func (s *ControllerTestSuite) TestSteps() {
	w, resp := s.do(http.MethodGet, "/entities/job_posting/steps", s.employer, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Len(resp.Get("data").Array(), 6)
}

func (s *ControllerTestSuite) TestValidateStep() {
	w, resp := s.do(http.MethodPost, "/entities/job_posting/steps/1/validate", s.employer, `{"organization":{"name":""}}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.True(resp.Get("error.violations.organization\\.name").Exists())

	w, _ = s.do(http.MethodPost, "/entities/job_posting/steps/1/validate", s.employer, validationtest.JobPosting())
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/entities/job_posting/steps/one/validate", s.employer, `{}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) TestPostJob_Violations() {
	draft := validationtest.JobPosting()
	draft.Job.Title = ""

	w, resp := s.do(http.MethodPost, "/entities/job_posting", s.employer, draft)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("ValidationError", resp.Get("error.type").String())
	s.True(resp.Get("error.violations.job\\.title").Exists())
}

func (s *ControllerTestSuite) TestPostJob_SeekerForbidden() {
	w, _ := s.do(http.MethodPost, "/entities/job_posting", s.seeker, validationtest.JobPosting())
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ControllerTestSuite) TestJobReviewAndApply() {
	jobID := s.postJob()

	w, _ := s.do(http.MethodGet, "/jobs/"+jobID, s.seeker, nil)
	s.Equal(http.StatusNotFound, w.Code, "pending jobs are hidden from job seekers")

	w, resp := s.do(http.MethodPatch, "/jobs/"+jobID+"/status", s.admin, models.StatusChangeRequest{Status: "approved"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("approved", resp.Get("data.status").String())

	w, resp = s.do(http.MethodPatch, "/jobs/"+jobID+"/status", s.admin, models.StatusChangeRequest{Status: "rejected"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("IllegalTransitionError", resp.Get("error.type").String())
	s.Equal("approved", resp.Get("error.transition.currentStatus").String())

	w, resp = s.do(http.MethodGet, "/jobs/public", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Len(resp.Get("data").Array(), 1)

	application := models.Application{JobID: jobID, CoverLetter: "I have milked cows for five years."}
	w, resp = s.do(http.MethodPost, "/entities/application", s.seeker, application)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	appID := resp.Get("data.id").String()

	w, _ = s.do(http.MethodPost, "/entities/application", s.seeker, application)
	s.Equal(http.StatusConflict, w.Code)

	w, resp = s.do(http.MethodGet, "/jobs/"+jobID+"/applications", s.employer, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Len(resp.Get("data").Array(), 1)

	w, resp = s.do(http.MethodPatch, "/applications/"+appID+"/status", s.seeker, models.StatusChangeRequest{Status: "reviewed"})
	s.Equal(http.StatusConflict, w.Code)
	s.Empty(resp.Get("error.transition.allowedStatuses").Array(), "applicants cannot move their own application")

	w, resp = s.do(http.MethodPatch, "/applications/"+appID+"/status", s.employer, models.StatusChangeRequest{Status: "reviewed"})
	s.Equal(http.StatusOK, w.Code)
	s.Equal("reviewed", resp.Get("data.status").String())

	w, resp = s.do(http.MethodGet, "/users/"+s.seekerID+"/applications", s.seeker, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Len(resp.Get("data").Array(), 1)
}

func (s *ControllerTestSuite) TestGetJob_NotFound() {
	w, resp := s.do(http.MethodGet, "/jobs/does-not-exist", s.admin, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NotFoundError", resp.Get("error.type").String())
}

func (s *ControllerTestSuite) TestAdminRoutes() {
	w, _ := s.do(http.MethodPost, "/admin/jobs/expire", s.employer, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, resp := s.do(http.MethodPost, "/admin/jobs/expire", s.admin, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(0), resp.Get("data.deactivated").Int())
}

func (s *ControllerTestSuite) TestDeactivateUser() {
	w, resp := s.do(http.MethodPatch, "/admin/users/"+s.seekerID+"/active", s.admin, `{"active":false}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.False(resp.Get("data.isActive").Bool())

	w, _ = s.do(http.MethodGet, "/user/me", s.seeker, nil)
	s.Equal(http.StatusUnauthorized, w.Code, "tokens of deactivated users are refused")

	w, _ = s.do(http.MethodPost, "/user/login", "", models.LoginRequest{Email: "john@example.com", Password: "password123"})
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPatch, "/admin/users/"+s.seekerID+"/active", s.admin, `{}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) TestOrganizationRoutes() {
	s.postJob()

	w, resp := s.do(http.MethodGet, "/organizations", s.employer, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Len(resp.Get("data").Array(), 1)
	orgID := resp.Get("data.0.id").String()

	w, resp = s.do(http.MethodGet, "/organizations/"+orgID+"/details", s.employer, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Mukono", resp.Get("data.location.district").String())

	w, _ = s.do(http.MethodGet, "/organizations", s.seeker, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodDelete, "/organizations/"+orgID, s.employer, nil)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/organizations/"+orgID, s.employer, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) TestProfileWizard() {
	w, resp := s.do(http.MethodPost, "/wizards/employee_profile", s.seeker, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal(int64(1), resp.Get("data.step").Int())
	s.Equal(int64(5), resp.Get("data.totalSteps").Int())
	s.Equal(s.seekerID, resp.Get("data.draft.userId").String())

	w, _ = s.do(http.MethodPost, "/wizards/employee_profile/next", s.seeker, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodPost, "/wizards/employee_profile/submit", s.seeker, nil)
	s.Equal(http.StatusConflict, w.Code, "submit is only possible from the final step")

	w, _ = s.do(http.MethodPatch, "/wizards/employee_profile/draft", s.seeker, validationtest.EmployeeProfile(s.seekerID))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	for step := 2; step <= 5; step++ {
		w, resp = s.do(http.MethodPost, "/wizards/employee_profile/next", s.seeker, nil)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.Equal(int64(step), resp.Get("data.step").Int())
	}

	w, resp = s.do(http.MethodPost, "/wizards/employee_profile/steps/2", s.seeker, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(2), resp.Get("data.step").Int())
	w, _ = s.do(http.MethodPost, "/wizards/employee_profile/steps/5", s.seeker, nil)
	s.Equal(http.StatusOK, w.Code)

	w, resp = s.do(http.MethodPost, "/wizards/employee_profile/submit", s.seeker, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.True(resp.Get("data.created").Bool())

	w, _ = s.do(http.MethodGet, "/wizards/employee_profile", s.seeker, nil)
	s.Equal(http.StatusNotFound, w.Code, "submitted wizards are discarded")

	w, resp = s.do(http.MethodGet, "/profiles/"+s.seekerID, s.seeker, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("John Okello", resp.Get("data.personal.fullName").String())

	w, resp = s.do(http.MethodPost, "/wizards/employee_profile", s.seeker, nil)
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Equal("John Okello", resp.Get("data.draft.personal.fullName").String(), "a new wizard resumes from the stored profile")
}

func (s *ControllerTestSuite) TestWizard_RoleAndSession() {
	w, _ := s.do(http.MethodPost, "/wizards/job_posting", s.seeker, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/wizards/employee_profile", s.employer, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/wizards/job_posting", s.employer, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/wizards/application", s.seeker, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, resp := s.do(http.MethodPost, "/wizards/job_posting", s.employer, nil)
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Equal(int64(6), resp.Get("data.totalSteps").Int())

	w, _ = s.do(http.MethodPost, "/wizards/job_posting/steps/3", s.employer, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code, "steps not reached yet cannot be opened")

	w, _ = s.do(http.MethodPatch, "/wizards/job_posting/draft", s.employer, `{"organization":`)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodDelete, "/wizards/job_posting", s.employer, nil)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/wizards/job_posting", s.employer, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) TestPostingWizard_FromExistingOrganization() {
	s.postJob()
	_, resp := s.do(http.MethodGet, "/organizations", s.employer, nil)
	orgID := resp.Get("data.0.id").String()

	w, resp := s.do(http.MethodPost, "/wizards/job_posting?organizationId="+orgID, s.employer, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal(orgID, resp.Get("data.draft.organization.id").String())
	s.Equal("Mukono", resp.Get("data.draft.details.location.district").String())
}

func (s *ControllerTestSuite) TestApplicationNotes_EmployerOnly() {
	jobID := s.postJob()
	w, _ := s.do(http.MethodPatch, "/jobs/"+jobID+"/status", s.admin, models.StatusChangeRequest{Status: "approved"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, resp := s.do(http.MethodPost, "/entities/application", s.seeker,
		models.Application{JobID: jobID, CoverLetter: "Ready to start.", Notes: "Shortlisted"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	appID := resp.Get("data.id").String()

	w, resp = s.do(http.MethodGet, "/jobs/"+jobID+"/applications", s.employer, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Empty(resp.Get("data.0.notes").String(), "applicants cannot write notes")

	w, _ = s.do(http.MethodPatch, "/applications/"+appID+"/notes", s.seeker, models.ApplicationNotesRequest{Notes: "Shortlisted"})
	s.Equal(http.StatusForbidden, w.Code)

	w, resp = s.do(http.MethodPatch, "/applications/"+appID+"/notes", s.employer, models.ApplicationNotesRequest{Notes: "Strong milking experience"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("Strong milking experience", resp.Get("data.notes").String())

	w, resp = s.do(http.MethodGet, "/users/"+s.seekerID+"/applications", s.seeker, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Empty(resp.Get("data.0.notes").String())
}

func (s *ControllerTestSuite) TestWizardEdit_ReplacesMaps() {
	w, _ := s.do(http.MethodPost, "/wizards/employee_profile", s.seeker, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w, _ = s.do(http.MethodPatch, "/wizards/employee_profile/draft", s.seeker, validationtest.EmployeeProfile(s.seekerID))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, resp := s.do(http.MethodPatch, "/wizards/employee_profile/draft", s.seeker,
		`{"competencies":{"skillProficiency":{"ploughing":3}}}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	proficiency := resp.Get("data.draft.competencies.skillProficiency").Map()
	s.Len(proficiency, 1)
	s.Equal(int64(3), proficiency["ploughing"].Int())
	s.Equal("milking", resp.Get("data.draft.competencies.technicalSkills.0").String(), "fields missing from the body are kept")
	s.Equal("John Okello", resp.Get("data.draft.personal.fullName").String())
}
