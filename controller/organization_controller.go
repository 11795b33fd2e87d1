package controller

import (
	"net/http"

	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

// OrganizationController handles organization related HTTP requests
type OrganizationController struct {
	organizationService services.OrganizationServiceInterface
	logger              logger.Logger
}

// NewOrganizationController creates a new organization controller
func NewOrganizationController(organizationService services.OrganizationServiceInterface, logger logger.Logger) *OrganizationController {
	return &OrganizationController{
		organizationService: organizationService,
		logger:              logger,
	}
}

// ListOrganizations handles GET /organizations
// @Summary Organizations of the current user
// @Tags Organizations
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Organizations retrieved successfully"
// @Router /organizations [get]
func (h *OrganizationController) ListOrganizations(c *gin.Context) {
	orgs, err := h.organizationService.ListOrganizations(c.Request.Context(), identity(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Organizations retrieved successfully", orgs)
}

// GetOrganization handles GET /organizations/:id
// @Summary Get an organization
// @Tags Organizations
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.APIResponse "Organization retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /organizations/{id} [get]
func (h *OrganizationController) GetOrganization(c *gin.Context) {
	org, err := h.organizationService.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Organization retrieved successfully", org)
}

// GetDetails handles GET /organizations/:id/details
// @Summary Get an organization's farm details
// @Tags Organizations
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.APIResponse "Organization details retrieved successfully"
// @Failure 404 {object} models.APIResponse "Details not completed yet"
// @Router /organizations/{id}/details [get]
func (h *OrganizationController) GetDetails(c *gin.Context) {
	details, err := h.organizationService.GetOrganizationDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Organization details retrieved successfully", details)
}

// ChangeMemberRole handles PATCH /organizations/:id/members/:userId
// @Summary Change a member's role
// @Tags Organizations
// @Security BearerAuth
// @Accept json
// @Param id path string true "Organization ID"
// @Param userId path string true "Member user ID"
// @Param request body models.ChangeMembershipRoleRequest true "New role"
// @Success 200 {object} models.APIResponse "Membership updated"
// @Router /organizations/{id}/members/{userId} [patch]
func (h *OrganizationController) ChangeMemberRole(c *gin.Context) {
	var req models.ChangeMembershipRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	m, err := h.organizationService.ChangeMembershipRole(c.Request.Context(), identity(c), c.Param("id"), c.Param("userId"), req.Role)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Membership updated", m)
}

// DeleteOrganization handles DELETE /organizations/:id
// @Summary Delete an organization
// @Description Removes its details, memberships, jobs and their applications
// @Tags Organizations
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.APIResponse "Organization deleted"
// @Router /organizations/{id} [delete]
func (h *OrganizationController) DeleteOrganization(c *gin.Context) {
	if err := h.organizationService.DeleteOrganization(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Organization deleted", nil)
}
