package controller

import (
	"net/http"

	"agrihire-backend/middelware"
	"agrihire-backend/models"
	"agrihire-backend/services"
	"agrihire-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService services.UserServiceInterface
	jwtManager  *middelware.JWTManager
	logger      logger.Logger
}

func NewUserController(userService services.UserServiceInterface, jwtManager *middelware.JWTManager, logger logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// Register handles POST /user/register
// @Summary Register a new user
// @Description Create a job seeker or employer account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterUser true "Registration request"
// @Success 201 {object} models.APIResponse "User registered successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid registration data"
// @Failure 409 {object} models.APIResponse "Conflict - Email already registered"
// @Router /user/register [post]
func (h *UserController) Register(c *gin.Context) {
	var req models.RegisterUser
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /user/login
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse "Token issued"
// @Failure 401 {object} models.APIResponse "Invalid email or password"
// @Router /user/login [post]
func (h *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	token, expiresAt, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// Logout handles POST /user/logout
// @Summary Log out
// @Description Revoke the bearer token used for the request
// @Tags Authentication
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Logged out"
// @Router /user/logout [post]
func (h *UserController) Logout(c *gin.Context) {
	if claims, ok := middelware.ClaimsFrom(c); ok {
		h.jwtManager.RevokeToken(claims)
	}
	respond(c, http.StatusOK, "Logged out", nil)
}

// SetActive handles PATCH /admin/users/:id/active
// @Summary Activate or deactivate a user
// @Description Users are never deleted. Tokens of a deactivated user are refused.
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Param id path string true "User ID"
// @Param request body models.SetActiveRequest true "Active flag"
// @Success 200 {object} models.APIResponse "User updated"
// @Router /admin/users/{id}/active [patch]
func (h *UserController) SetActive(c *gin.Context) {
	var req models.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.SetUserActive(c.Request.Context(), identity(c), c.Param("id"), *req.Active)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "User updated", user)
}

// Me handles GET /user/me
// @Summary Current user
// @Tags User Management
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Current user"
// @Router /user/me [get]
func (h *UserController) Me(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), identity(c).UserID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "User details retrieved successfully", user)
}
