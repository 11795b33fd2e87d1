package controller

import (
	"errors"
	"net/http"

	"agrihire-backend/middelware"
	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"
	"agrihire-backend/wizard"

	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, code int, message string, apiErr *models.APIError) {
	c.JSON(code, models.APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Error:   apiErr,
	})
}

// respondViolations reports a draft that failed validation without being an
// error of the request itself.
func respondViolations(c *gin.Context, entity validation.EntityType, violations models.Violations) {
	respondError(c, http.StatusUnprocessableEntity, "Validation failed for "+string(entity), &models.APIError{
		Type:       "ValidationError",
		Violations: violations,
	})
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "Invalid request", &models.APIError{
		Type:    "ValidationError",
		Details: err.Error(),
	})
}

// handleError maps the error taxonomy of the services to HTTP responses.
func handleError(c *gin.Context, log logger.Logger, err error) {
	var (
		validationErr *models.ValidationError
		duplicateErr  *models.DuplicateKeyError
		transitionErr *models.IllegalTransitionError
		referenceErr  *models.ReferentialIntegrityError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusUnprocessableEntity, "Validation failed", &models.APIError{
			Type:       "ValidationError",
			Details:    validationErr.Error(),
			Violations: validationErr.Violations,
		})
	case errors.As(err, &duplicateErr):
		respondError(c, http.StatusConflict, "Record already exists", &models.APIError{
			Type:    "DuplicateKeyError",
			Details: duplicateErr.Error(),
		})
	case errors.As(err, &transitionErr):
		respondError(c, http.StatusConflict, "Status change not allowed", &models.APIError{
			Type:       "IllegalTransitionError",
			Details:    transitionErr.Error(),
			Transition: transitionErr,
		})
	case errors.As(err, &referenceErr):
		respondError(c, http.StatusUnprocessableEntity, "Referenced record is missing or unusable", &models.APIError{
			Type:    "ReferentialIntegrityError",
			Details: referenceErr.Error(),
			Field:   referenceErr.Reference,
		})
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found", &models.APIError{Type: "NotFoundError", Details: err.Error()})
	case errors.Is(err, models.ErrForbidden):
		respondError(c, http.StatusForbidden, "Insufficient permissions", &models.APIError{Type: "AuthorizationError", Details: err.Error()})
	case errors.Is(err, models.ErrStaleState):
		respondError(c, http.StatusConflict, "Record changed, reload and retry", &models.APIError{Type: "StaleStateError", Details: err.Error()})
	case errors.Is(err, models.ErrJobLocked):
		respondError(c, http.StatusConflict, "Job is locked", &models.APIError{Type: "JobLockedError", Details: err.Error()})
	case errors.Is(err, models.ErrNotOnFinalStep):
		respondError(c, http.StatusConflict, "Wizard is not on its final step", &models.APIError{Type: "WizardError", Details: err.Error()})
	case errors.Is(err, wizard.ErrNoSteps):
		respondError(c, http.StatusBadRequest, "Entity has no wizard", &models.APIError{Type: "WizardError", Details: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid email or password", &models.APIError{Type: "AuthenticationError", Details: err.Error()})
	default:
		log.Errorf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "Internal server error", &models.APIError{Type: "InternalError"})
	}
}

// identity returns the authenticated caller. Routes using it sit behind
// AuthMiddleware, so a missing identity is a routing bug.
func identity(c *gin.Context) models.Identity {
	id, ok := middelware.IdentityFrom(c)
	if !ok {
		panic("controller: route is missing AuthMiddleware")
	}
	return id
}

// entityParam reads the :entity path parameter, answering 404 for unknown
// entities.
func entityParam(c *gin.Context) (validation.EntityType, bool) {
	entity, ok := validation.ParseEntityType(c.Param("entity"))
	if !ok {
		respondError(c, http.StatusNotFound, "Unknown entity", &models.APIError{
			Type:  "NotFoundError",
			Field: "entity",
		})
	}
	return entity, ok
}
