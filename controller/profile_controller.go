package controller

import (
	"net/http"

	"agrihire-backend/services"
	"agrihire-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
	logger         logger.Logger
}

func NewProfileController(profileService services.ProfileServiceInterface, logger logger.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile handles GET /profiles/:userId
// @Summary Get a job seeker's employee profile
// @Tags Profiles
// @Security BearerAuth
// @Param userId path string true "Job seeker user ID"
// @Success 200 {object} models.APIResponse "Profile retrieved successfully"
// @Failure 404 {object} models.APIResponse "No profile yet"
// @Router /profiles/{userId} [get]
func (h *ProfileController) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetEmployeeProfile(c.Request.Context(), identity(c), c.Param("userId"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Profile retrieved successfully", profile)
}
