package handlers

import (
	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService services.RideService
}

func NewRideHandler(rideService services.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

func (h *RideHandler) List(c *gin.Context) {
	var filter models.RideFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	list, err := h.rideService.List(c.Request.Context(), filter)
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
