package handlers

import (
	"errors"

	"rideadmin/internal/middleware"
	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidFilter), errors.Is(err, services.ErrInvalidStatus):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		utils.NotFoundResponse(c, "Account")
	case errors.Is(err, services.ErrReportNotFound):
		utils.NotFoundResponse(c, "Report")
	case errors.Is(err, services.ErrStatusUpdateFailed):
		utils.UpstreamErrorResponse(c, utils.ErrStatusUpdateFailed)
	case errors.Is(err, services.ErrSessionNotFound):
		utils.UnauthorizedResponse(c)
	default:
		utils.InternalServerErrorResponse(c)
	}
}

// frameError is the text sent in an error frame on a live feed.
func frameError(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidFilter), errors.Is(err, services.ErrInvalidStatus):
		return err.Error()
	case errors.Is(err, services.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, services.ErrStatusUpdateFailed):
		return utils.ErrStatusUpdateFailed
	default:
		return utils.ErrInternalServer
	}
}

// requireSession returns the caller's session, answering 401 when the auth
// gate did not run.
func requireSession(c *gin.Context) (*models.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return nil, false
	}
	return session, true
}
