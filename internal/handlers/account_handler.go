package handlers

import (
	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the user and driver management tables. Each route
// is bound to one role.
type AccountHandler struct {
	accountService services.AccountService
	logger         *logger.Logger
}

func NewAccountHandler(accountService services.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         log.WithComponent("account_handler"),
	}
}

func (h *AccountHandler) List(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.AccountFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			utils.ValidationErrorResponse(c, err)
			return
		}

		list, err := h.accountService.List(c.Request.Context(), role, filter)
		if err != nil {
			respondError(c, err)
			return
		}

		utils.SuccessResponseWithMeta(c, utils.MsgDataRetrieved, list, &utils.Meta{
			Total:   list.Total,
			Count:   len(list.Rows),
			Skipped: list.Skipped,
		})
	}
}

func (h *AccountHandler) UpdateStatus(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := requireSession(c)
		if !ok {
			return
		}

		var request models.StatusUpdateRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.ValidationErrorResponse(c, err)
			return
		}

		mutation, err := h.accountService.UpdateStatus(c.Request.Context(), session.UID, role, c.Param("id"), request.Status)
		if err != nil {
			h.logger.WithContext(c.Request.Context()).WithError(err).WithField("account_id", c.Param("id")).Warn("Status update failed")
			respondError(c, err)
			return
		}

		utils.SuccessResponse(c, utils.MsgStatusUpdated, mutation)
	}
}

func (h *AccountHandler) DriverDocuments(c *gin.Context) {
	docs, err := h.accountService.DriverDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, utils.MsgDataRetrieved, docs, &utils.Meta{Total: len(docs), Count: len(docs)})
}
