package controller

import (
	"net/http"
	"strconv"

	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"

	"github.com/gin-gonic/gin"
)

// EntityController exposes draft validation and create-or-update for every
// entity type.
type EntityController struct {
	entityService services.EntityServiceInterface
	validator     *validation.Validator
	logger        logger.Logger
}

func NewEntityController(entityService services.EntityServiceInterface, v *validation.Validator, logger logger.Logger) *EntityController {
	return &EntityController{
		entityService: entityService,
		validator:     v,
		logger:        logger,
	}
}

// bindDraft decodes the body into a new draft of the entity's type.
func (h *EntityController) bindDraft(c *gin.Context, entity validation.EntityType) (any, bool) {
	draft, ok := h.validator.NewDraft(entity)
	if !ok {
		respondError(c, http.StatusNotFound, "Unknown entity", &models.APIError{Type: "NotFoundError", Field: "entity"})
		return nil, false
	}
	if err := c.ShouldBindJSON(draft); err != nil {
		respondBindError(c, err)
		return nil, false
	}
	return draft, true
}

// Steps handles GET /entities/:entity/steps
// @Summary Wizard steps of an entity
// @Tags Entities
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Steps with their fields"
// @Router /entities/{entity}/steps [get]
func (h *EntityController) Steps(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "Steps retrieved successfully", h.validator.Steps(entity))
}

// ValidateStep handles POST /entities/:entity/steps/:step/validate
// @Summary Validate one wizard step
// @Description Checks only the fields owned by the step. An empty violation map means the step is complete.
// @Tags Entities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Step is valid"
// @Failure 422 {object} models.APIResponse "Step has violations"
// @Router /entities/{entity}/steps/{step}/validate [post]
func (h *EntityController) ValidateStep(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid step", &models.APIError{Type: "ValidationError", Field: "step", Details: err.Error()})
		return
	}
	draft, ok := h.bindDraft(c, entity)
	if !ok {
		return
	}

	if violations := h.entityService.ValidateStep(entity, step, draft); len(violations) > 0 {
		respondViolations(c, entity, violations)
		return
	}
	respond(c, http.StatusOK, "Step is valid", models.Violations{})
}

// ValidateFull handles POST /entities/:entity/validate
// @Summary Validate a whole draft
// @Tags Entities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Draft is valid"
// @Failure 422 {object} models.APIResponse "Draft has violations"
// @Router /entities/{entity}/validate [post]
func (h *EntityController) ValidateFull(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	draft, ok := h.bindDraft(c, entity)
	if !ok {
		return
	}

	violations, err := h.entityService.ValidateFull(c.Request.Context(), identity(c), entity, draft)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	if len(violations) > 0 {
		respondViolations(c, entity, violations)
		return
	}
	respond(c, http.StatusOK, "Draft is valid", models.Violations{})
}

// CreateOrUpdate handles POST /entities/:entity
// @Summary Create or update a record
// @Description Validates the full draft and persists it with the natural-key semantics of the entity.
// @Tags Entities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} models.APIResponse "Record created"
// @Success 200 {object} models.APIResponse "Record updated"
// @Failure 409 {object} models.APIResponse "Duplicate record"
// @Failure 422 {object} models.APIResponse "Validation failed"
// @Router /entities/{entity} [post]
func (h *EntityController) CreateOrUpdate(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	draft, ok := h.bindDraft(c, entity)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if entity == validation.EntityJobPosting {
		result, err := h.entityService.SubmitJobPosting(ctx, identity(c), draft.(*models.JobPostingDraft))
		if err != nil {
			handleError(c, h.logger, err)
			return
		}
		respond(c, http.StatusCreated, "Job posted for review", result)
		return
	}

	result, err := h.entityService.CreateOrUpdate(ctx, identity(c), entity, draft)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	if result.Created {
		respond(c, http.StatusCreated, string(entity)+" created", result)
		return
	}
	respond(c, http.StatusOK, string(entity)+" updated", result)
}
