package controller

import (
	"net/http"

	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type JobController struct {
	jobService         services.JobServiceInterface
	applicationService services.ApplicationServiceInterface
	logger             logger.Logger
}

func NewJobController(jobService services.JobServiceInterface, applicationService services.ApplicationServiceInterface, logger logger.Logger) *JobController {
	return &JobController{
		jobService:         jobService,
		applicationService: applicationService,
		logger:             logger,
	}
}

// ListPublicJobs handles GET /jobs/public
// @Summary Public job board
// @Description Approved jobs that are active and not yet expired
// @Tags Jobs
// @Produce json
// @Success 200 {object} models.APIResponse "Jobs retrieved successfully"
// @Router /jobs/public [get]
func (h *JobController) ListPublicJobs(c *gin.Context) {
	jobs, err := h.jobService.ListPublicJobs(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Jobs retrieved successfully", jobs)
}

// ListJobs handles GET /jobs
// @Summary List jobs
// @Description Filter by status, organizationId, postedBy and activeOnly. Callers outside the organization only see the public listing.
// @Tags Jobs
// @Security BearerAuth
// @Produce json
// @Param status query string false "Job status"
// @Param organizationId query string false "Organization ID"
// @Param postedBy query string false "Poster user ID"
// @Param activeOnly query bool false "Only jobs inside their active window"
// @Success 200 {object} models.APIResponse "Jobs retrieved successfully"
// @Router /jobs [get]
func (h *JobController) ListJobs(c *gin.Context) {
	var filter models.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), identity(c), &filter)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Jobs retrieved successfully", jobs)
}

// GetJob handles GET /jobs/:id
// @Summary Get a job
// @Tags Jobs
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.APIResponse "Job retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /jobs/{id} [get]
func (h *JobController) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Job retrieved successfully", job)
}

// ChangeStatus handles PATCH /jobs/:id/status
// @Summary Review a job
// @Description Moves a job through pending_review, approved and rejected. A refused change reports the current and allowed states.
// @Tags Jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body models.StatusChangeRequest true "Requested status"
// @Success 200 {object} models.APIResponse "Job status updated"
// @Failure 409 {object} models.APIResponse "Illegal transition or concurrent change"
// @Router /jobs/{id}/status [patch]
func (h *JobController) ChangeStatus(c *gin.Context) {
	var req models.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	job, err := h.jobService.TransitionJobStatus(c.Request.Context(), identity(c), c.Param("id"), models.JobStatus(req.Status))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Job status updated", gin.H{"id": job.ID, "status": job.Status})
}

// DeleteJob handles DELETE /jobs/:id
// @Summary Delete a job and its applications
// @Tags Jobs
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} models.APIResponse "Job deleted"
// @Router /jobs/{id} [delete]
func (h *JobController) DeleteJob(c *gin.Context) {
	if err := h.jobService.DeleteJob(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Job deleted", nil)
}

// ListApplications handles GET /jobs/:id/applications
// @Summary Applications to a job
// @Tags Jobs
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} models.APIResponse "Applications retrieved successfully"
// @Router /jobs/{id}/applications [get]
func (h *JobController) ListApplications(c *gin.Context) {
	apps, err := h.applicationService.ListApplicationsByJob(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}

// ExpireJobs handles POST /admin/jobs/expire
// @Summary Run the expiry sweep now
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Expired jobs deactivated"
// @Router /admin/jobs/expire [post]
func (h *JobController) ExpireJobs(c *gin.Context) {
	n, err := h.jobService.DeactivateExpiredJobs(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Expired jobs deactivated", gin.H{"deactivated": n})
}
