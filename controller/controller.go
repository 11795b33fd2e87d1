package controller

import (
	"net/http"

	"agrihire-backend/middelware"
	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"
	"agrihire-backend/wizard"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthReporter reports the state of a background component.
type HealthReporter interface {
	GetHealthStatus() map[string]interface{}
}

type Controller struct {
	User         *UserController
	Entity       *EntityController
	Job          *JobController
	Application  *ApplicationController
	Organization *OrganizationController
	Profile      *ProfileController
	Wizard       *WizardController

	jwtManager *middelware.JWTManager
	worker     HealthReporter
	version    string
}

// NewController wires the handlers to the services. worker may be nil when
// no maintenance worker runs in this process.
func NewController(cfg *models.Config, svc services.ServiceContainerInterface, v *validation.Validator, wizards *wizard.Manager, jwtManager *middelware.JWTManager, worker HealthReporter, log logger.Logger) *Controller {
	return &Controller{
		User:         NewUserController(svc.GetUserService(), jwtManager, log),
		Entity:       NewEntityController(svc.GetEntityService(), v, log),
		Job:          NewJobController(svc.GetJobService(), svc.GetApplicationService(), log),
		Application:  NewApplicationController(svc.GetApplicationService(), log),
		Organization: NewOrganizationController(svc.GetOrganizationService(), log),
		Profile:      NewProfileController(svc.GetProfileService(), log),
		Wizard:       NewWizardController(wizards, svc, log),
		jwtManager:   jwtManager,
		worker:       worker,
		version:      cfg.AppVersion,
	}
}

func (c *Controller) health(ctx *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"version": c.version,
		"service": "AgriHire Backend",
	}
	if c.worker != nil {
		body["worker"] = c.worker.GetHealthStatus()
	}
	ctx.JSON(http.StatusOK, body)
}

func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", c.health)

	auth := c.jwtManager.AuthMiddleware()
	admin := c.jwtManager.RequireRole(models.UserRoleAdmin)
	employer := c.jwtManager.RequireRole(models.UserRoleEmployer, models.UserRoleAdmin)

	// User routes
	user := v1.Group("/user")
	user.POST("/register", c.User.Register)
	user.POST("/login", c.User.Login)
	user.POST("/logout", auth, c.User.Logout)
	user.GET("/me", auth, c.User.Me)

	// Public job board
	v1.GET("/jobs/public", c.Job.ListPublicJobs)

	// Draft validation and create-or-update
	entities := v1.Group("/entities/:entity", auth)
	entities.GET("/steps", c.Entity.Steps)
	entities.POST("/steps/:step/validate", c.Entity.ValidateStep)
	entities.POST("/validate", c.Entity.ValidateFull)
	entities.POST("", c.Entity.CreateOrUpdate)

	// Wizards
	wizards := v1.Group("/wizards/:entity", auth)
	wizards.POST("", c.Wizard.Start)
	wizards.GET("", c.Wizard.Get)
	wizards.DELETE("", c.Wizard.Discard)
	wizards.PATCH("/draft", c.Wizard.Edit)
	wizards.POST("/next", c.Wizard.Next)
	wizards.POST("/previous", c.Wizard.Previous)
	wizards.POST("/steps/:step", c.Wizard.GoTo)
	wizards.POST("/submit", c.Wizard.Submit)

	// Jobs
	jobs := v1.Group("/jobs", auth)
	jobs.GET("", c.Job.ListJobs)
	jobs.GET("/:id", c.Job.GetJob)
	jobs.PATCH("/:id/status", c.Job.ChangeStatus)
	jobs.DELETE("/:id", employer, c.Job.DeleteJob)
	jobs.GET("/:id/applications", c.Job.ListApplications)

	// Applications
	applications := v1.Group("/applications", auth)
	applications.GET("/:id", c.Application.GetApplication)
	applications.PATCH("/:id/status", c.Application.ChangeStatus)
	applications.PATCH("/:id/notes", c.Application.UpdateNotes)
	v1.GET("/users/:id/applications", auth, c.Application.ListBySeeker)

	// Organizations
	orgs := v1.Group("/organizations", auth)
	orgs.GET("", employer, c.Organization.ListOrganizations)
	orgs.GET("/:id", c.Organization.GetOrganization)
	orgs.GET("/:id/details", c.Organization.GetDetails)
	orgs.PATCH("/:id/members/:userId", employer, c.Organization.ChangeMemberRole)
	orgs.DELETE("/:id", employer, c.Organization.DeleteOrganization)

	// Employee profiles
	v1.GET("/profiles/:userId", auth, c.Profile.GetProfile)

	// Admin
	adminGroup := v1.Group("/admin", auth, admin)
	adminGroup.POST("/jobs/expire", c.Job.ExpireJobs)
	adminGroup.PATCH("/users/:id/active", c.User.SetActive)
}
