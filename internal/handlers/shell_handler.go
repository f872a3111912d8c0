package handlers

import (
	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"

	"github.com/gin-gonic/gin"
)

type ShellHandler struct {
	navigationService services.NavigationService
}

func NewShellHandler(navigationService services.NavigationService) *ShellHandler {
	return &ShellHandler{navigationService: navigationService}
}

func (h *ShellHandler) GetShell(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, utils.MsgDataRetrieved, h.navigationService.Shell(session))
}

// SelectTab switches the active tab. Unknown tabs land on the dashboard.
func (h *ShellHandler) SelectTab(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var request models.SelectTabRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	shell, err := h.navigationService.SelectTab(c.Request.Context(), session, request.Tab)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, utils.MsgShellUpdated, shell)
}

func (h *ShellHandler) SetSidebar(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var request models.SidebarRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	shell, err := h.navigationService.SetSidebar(c.Request.Context(), session, *request.Open)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, utils.MsgShellUpdated, shell)
}

func (h *ShellHandler) ToggleSidebar(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	shell, err := h.navigationService.ToggleSidebar(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, utils.MsgShellUpdated, shell)
}
