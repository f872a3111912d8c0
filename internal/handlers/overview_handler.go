package handlers

import (
	"rideadmin/internal/services"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// OverviewHandler serves one-shot snapshots of the dashboard and analytics
// aggregates.
type OverviewHandler struct {
	dashboardService services.DashboardService
	analyticsService services.AnalyticsService
	logger           *logger.Logger
}

func NewOverviewHandler(dashboardService services.DashboardService, analyticsService services.AnalyticsService, log *logger.Logger) *OverviewHandler {
	return &OverviewHandler{
		dashboardService: dashboardService,
		analyticsService: analyticsService,
		logger:           log.WithComponent("overview_handler"),
	}
}

func (h *OverviewHandler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to compute dashboard")
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, utils.MsgDataRetrieved, summary, &utils.Meta{Skipped: summary.Skipped})
}

func (h *OverviewHandler) GetAnalytics(c *gin.Context) {
	report, err := h.analyticsService.Report(c.Request.Context())
	if err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to compute analytics")
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, utils.MsgDataRetrieved, report, &utils.Meta{Skipped: report.Skipped})
}
