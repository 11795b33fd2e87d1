package controller

import (
	"net/http"

	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type ApplicationController struct {
	applicationService services.ApplicationServiceInterface
	logger             logger.Logger
}

func NewApplicationController(applicationService services.ApplicationServiceInterface, logger logger.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// GetApplication handles GET /applications/:id
// @Summary Get an application
// @Tags Applications
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} models.APIResponse "Application retrieved successfully"
// @Router /applications/{id} [get]
func (h *ApplicationController) GetApplication(c *gin.Context) {
	app, err := h.applicationService.GetApplication(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Application retrieved successfully", app)
}

// ChangeStatus handles PATCH /applications/:id/status
// @Summary Move an application
// @Description pending -> reviewed -> shortlisted -> hired, with rejection from reviewed or shortlisted
// @Tags Applications
// @Security BearerAuth
// @Accept json
// @Param id path string true "Application ID"
// @Param request body models.StatusChangeRequest true "Requested status"
// @Success 200 {object} models.APIResponse "Application status updated"
// @Failure 409 {object} models.APIResponse "Illegal transition or concurrent change"
// @Router /applications/{id}/status [patch]
func (h *ApplicationController) ChangeStatus(c *gin.Context) {
	var req models.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	app, err := h.applicationService.TransitionApplicationStatus(c.Request.Context(), identity(c), c.Param("id"), models.ApplicationStatus(req.Status))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Application status updated", gin.H{"id": app.ID, "status": app.Status})
}

// UpdateNotes handles PATCH /applications/:id/notes
// @Summary Set the internal notes of an application
// @Tags Applications
// @Security BearerAuth
// @Accept json
// @Param id path string true "Application ID"
// @Param request body models.ApplicationNotesRequest true "Notes"
// @Success 200 {object} models.APIResponse "Application notes updated"
// @Failure 403 {object} models.APIResponse "Not a reviewer of the job"
// @Router /applications/{id}/notes [patch]
func (h *ApplicationController) UpdateNotes(c *gin.Context) {
	var req models.ApplicationNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	app, err := h.applicationService.UpdateApplicationNotes(c.Request.Context(), identity(c), c.Param("id"), req.Notes)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Application notes updated", app)
}

// ListBySeeker handles GET /users/:id/applications
// @Summary Applications of a job seeker
// @Tags Applications
// @Security BearerAuth
// @Param id path string true "Job seeker user ID"
// @Success 200 {object} models.APIResponse "Applications retrieved successfully"
// @Router /users/{id}/applications [get]
func (h *ApplicationController) ListBySeeker(c *gin.Context) {
	apps, err := h.applicationService.ListApplicationsBySeeker(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}
