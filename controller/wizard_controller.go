package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"
	"agrihire-backend/wizard"

	"github.com/gin-gonic/gin"
)

// WizardController keeps one resumable wizard per user and entity.
type WizardController struct {
	wizards             *wizard.Manager
	entityService       services.EntityServiceInterface
	organizationService services.OrganizationServiceInterface
	profileService      services.ProfileServiceInterface
	logger              logger.Logger
}

func NewWizardController(wizards *wizard.Manager, svc services.ServiceContainerInterface, logger logger.Logger) *WizardController {
	return &WizardController{
		wizards:             wizards,
		entityService:       svc.GetEntityService(),
		organizationService: svc.GetOrganizationService(),
		profileService:      svc.GetProfileService(),
		logger:              logger,
	}
}

func (h *WizardController) key(c *gin.Context) (wizard.Key, bool) {
	entity, ok := entityParam(c)
	if !ok {
		return wizard.Key{}, false
	}
	return wizard.Key{UserID: identity(c).UserID, Entity: entity}, true
}

// session returns the caller's open wizard or answers 404.
func (h *WizardController) session(c *gin.Context) (wizard.Key, *wizard.Wizard, bool) {
	key, ok := h.key(c)
	if !ok {
		return key, nil, false
	}
	w, ok := h.wizards.Get(key)
	if !ok {
		respondError(c, http.StatusNotFound, "No wizard in progress", &models.APIError{
			Type:    "NotFoundError",
			Details: "start the " + string(key.Entity) + " wizard first",
		})
		return key, nil, false
	}
	return key, w, true
}

// mayStart keeps users out of wizards whose submission would be refused.
func mayStart(id models.Identity, entity validation.EntityType) bool {
	if id.IsAdmin() {
		return true
	}
	switch entity {
	case validation.EntityJobPosting:
		return id.Role == models.UserRoleEmployer
	case validation.EntityEmployeeProfile:
		return id.Role == models.UserRoleJobSeeker
	}
	return true
}

// seed prefills a new wizard with what is already on record: the caller's
// profile, or an existing organization and its details for a job posting.
func (h *WizardController) seed(c *gin.Context, entity validation.EntityType) (any, error) {
	ctx := c.Request.Context()
	id := identity(c)

	switch entity {
	case validation.EntityEmployeeProfile:
		profile, err := h.profileService.GetEmployeeProfile(ctx, id, id.UserID)
		if errors.Is(err, models.ErrNotFound) {
			return &models.EmployeeProfile{UserID: id.UserID}, nil
		}
		return profile, err
	case validation.EntityJobPosting:
		orgID := c.Query("organizationId")
		if orgID == "" {
			return nil, nil
		}
		org, err := h.organizationService.GetOrganization(ctx, orgID)
		if err != nil {
			return nil, err
		}
		draft := &models.JobPostingDraft{Organization: *org}
		details, err := h.organizationService.GetOrganizationDetails(ctx, orgID)
		switch {
		case err == nil:
			draft.Details = *details
		case !errors.Is(err, models.ErrNotFound):
			return nil, err
		}
		return draft, nil
	}
	return nil, nil
}

// Start handles POST /wizards/:entity
// @Summary Start a wizard
// @Description Opens job_posting or employee_profile on step 1, replacing any unfinished session. A job posting may start from an existing organization with ?organizationId=.
// @Tags Wizards
// @Security BearerAuth
// @Success 201 {object} models.APIResponse "Wizard started"
// @Router /wizards/{entity} [post]
func (h *WizardController) Start(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	if !mayStart(identity(c), key.Entity) {
		handleError(c, h.logger, models.ErrForbidden)
		return
	}
	seed, err := h.seed(c, key.Entity)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	w, err := h.wizards.Start(key, seed)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "Wizard started", w.Snapshot())
}

// Get handles GET /wizards/:entity
// @Summary Resume a wizard
// @Tags Wizards
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Wizard state"
// @Router /wizards/{entity} [get]
func (h *WizardController) Get(c *gin.Context) {
	_, w, ok := h.session(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "Wizard state", w.Snapshot())
}

// Edit handles PATCH /wizards/:entity/draft
// @Summary Edit the draft
// @Description Merges the JSON body into the draft. Lists and maps in the body replace the stored ones.
// @Tags Wizards
// @Security BearerAuth
// @Accept json
// @Success 200 {object} models.APIResponse "Draft updated"
// @Router /wizards/{entity}/draft [patch]
func (h *WizardController) Edit(c *gin.Context) {
	_, w, ok := h.session(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		respondBindError(c, err)
		return
	}
	if err := w.Edit(func(draft any) error { return wizard.Patch(draft, body) }); err != nil {
		respondBindError(c, err)
		return
	}
	respond(c, http.StatusOK, "Draft updated", w.Snapshot())
}

// Next handles POST /wizards/:entity/next
// @Summary Validate the current step and advance
// @Tags Wizards
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Moved to the next step"
// @Failure 422 {object} models.APIResponse "Current step has violations"
// @Router /wizards/{entity}/next [post]
func (h *WizardController) Next(c *gin.Context) {
	key, w, ok := h.session(c)
	if !ok {
		return
	}
	if violations := w.GoToNext(); len(violations) > 0 {
		respondViolations(c, key.Entity, violations)
		return
	}
	respond(c, http.StatusOK, "Moved to the next step", w.Snapshot())
}

// Previous handles POST /wizards/:entity/previous
// @Summary Go back one step
// @Tags Wizards
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Wizard state"
// @Router /wizards/{entity}/previous [post]
func (h *WizardController) Previous(c *gin.Context) {
	_, w, ok := h.session(c)
	if !ok {
		return
	}
	w.GoToPrevious()
	respond(c, http.StatusOK, "Wizard state", w.Snapshot())
}

// GoTo handles POST /wizards/:entity/steps/:step
// @Summary Jump to a step already reached
// @Tags Wizards
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Wizard state"
// @Router /wizards/{entity}/steps/{step} [post]
func (h *WizardController) GoTo(c *gin.Context) {
	_, w, ok := h.session(c)
	if !ok {
		return
	}
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid step", &models.APIError{Type: "ValidationError", Field: "step", Details: err.Error()})
		return
	}
	if err := w.GoTo(step); err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Wizard state", w.Snapshot())
}

// Submit handles POST /wizards/:entity/submit
// @Summary Submit the wizard
// @Description Re-validates the full draft and saves it. On violations the wizard returns to the earliest invalid step.
// @Tags Wizards
// @Security BearerAuth
// @Success 201 {object} models.APIResponse "Submitted"
// @Failure 409 {object} models.APIResponse "Not on the final step"
// @Failure 422 {object} models.APIResponse "Validation failed"
// @Router /wizards/{entity}/submit [post]
func (h *WizardController) Submit(c *gin.Context) {
	key, w, ok := h.session(c)
	if !ok {
		return
	}
	id := identity(c)

	result, err := w.Submit(c.Request.Context(), func(ctx context.Context, draft any) (any, error) {
		if key.Entity == validation.EntityJobPosting {
			return h.entityService.SubmitJobPosting(ctx, id, draft.(*models.JobPostingDraft))
		}
		return h.entityService.CreateOrUpdate(ctx, id, key.Entity, draft)
	})
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			snapshot := w.Snapshot()
			respondError(c, http.StatusUnprocessableEntity, "Validation failed for "+string(key.Entity), &models.APIError{
				Type:       "ValidationError",
				Details:    "wizard moved back to step " + strconv.Itoa(snapshot.Step),
				Violations: verr.Violations,
			})
			return
		}
		handleError(c, h.logger, err)
		return
	}

	h.wizards.Discard(key)
	respond(c, http.StatusCreated, "Submitted", result)
}

// Discard handles DELETE /wizards/:entity
// @Summary Abandon a wizard
// @Tags Wizards
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Wizard discarded"
// @Router /wizards/{entity} [delete]
func (h *WizardController) Discard(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	h.wizards.Discard(key)
	respond(c, http.StatusOK, "Wizard discarded", nil)
}
