package handlers

import (
	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) List(c *gin.Context) {
	var filter models.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	list, err := h.reportService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, utils.MsgDataRetrieved, list, &utils.Meta{
		Total: list.Total,
		Count: len(list.Reports),
	})
}

func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reportService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, utils.MsgDataRetrieved, report)
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var request models.ReportStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), session.UID, c.Param("id"), request.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, utils.MsgStatusUpdated, report)
}
