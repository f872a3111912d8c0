package handlers

import (
	"errors"

	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      log.WithComponent("auth_handler"),
	}
}

// Login signs an administrator in. Wrong credentials and non-admin accounts
// get the same answer.
func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrNotAdmin) {
			utils.InvalidCredentialsResponse(c)
			return
		}
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("Login failed")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, utils.MsgLoginSuccess, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	h.authService.Logout(c.Request.Context(), session)
	utils.SuccessResponse(c, utils.MsgLogoutSuccess, nil)
}

// Me returns the signed-in identity.
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, utils.MsgDataRetrieved, session.Identity())
}
