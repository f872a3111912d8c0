package routes

import (
	"rideadmin/internal/handlers"
	"rideadmin/internal/middleware"
	"rideadmin/internal/models"
	"rideadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the API routes need.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Shell    *handlers.ShellHandler
	Overview *handlers.OverviewHandler
	Accounts *handlers.AccountHandler
	Rides    *handlers.RideHandler
	Reports  *handlers.ReportHandler
	Live     *handlers.LiveHandler
}

// SetupRoutes mounts the admin API under r. Only login is reachable without
// a session.
func SetupRoutes(r *gin.RouterGroup, h *Handlers, authService services.AuthService) {
	r.POST("/auth/login", h.Auth.Login)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired(authService))
	{
		SetupAuthRoutes(protected, h.Auth)
		SetupShellRoutes(protected, h.Shell)
		SetupOverviewRoutes(protected, h.Overview)
		SetupAccountRoutes(protected, h.Accounts)
		SetupRideRoutes(protected, h.Rides)
		SetupReportRoutes(protected, h.Reports)
		if h.Live != nil {
			SetupLiveRoutes(protected, h.Live)
		}
	}
}

func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
	}
}

func SetupShellRoutes(r *gin.RouterGroup, shellHandler *handlers.ShellHandler) {
	shell := r.Group("/shell")
	{
		shell.GET("", shellHandler.GetShell)
		shell.PUT("/tab", shellHandler.SelectTab)
		shell.PUT("/sidebar", shellHandler.SetSidebar)
		shell.POST("/sidebar/toggle", shellHandler.ToggleSidebar)
	}
}

func SetupOverviewRoutes(r *gin.RouterGroup, overviewHandler *handlers.OverviewHandler) {
	r.GET("/dashboard", overviewHandler.GetDashboard)
	r.GET("/analytics", overviewHandler.GetAnalytics)
}

func SetupAccountRoutes(r *gin.RouterGroup, accountHandler *handlers.AccountHandler) {
	users := r.Group("/users")
	{
		users.GET("", accountHandler.List(models.RoleClient))
		users.PATCH("/:id/status", accountHandler.UpdateStatus(models.RoleClient))
	}

	drivers := r.Group("/drivers")
	{
		drivers.GET("", accountHandler.List(models.RoleDriver))
		drivers.PATCH("/:id/status", accountHandler.UpdateStatus(models.RoleDriver))
		drivers.GET("/:id/documents", accountHandler.DriverDocuments)
	}
}

func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler) {
	r.GET("/rides", rideHandler.List)
}

func SetupReportRoutes(r *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reports := r.Group("/reports")
	{
		reports.GET("", reportHandler.List)
		reports.GET("/:id", reportHandler.Get)
		reports.PATCH("/:id/status", reportHandler.UpdateStatus)
	}
}

func SetupLiveRoutes(r *gin.RouterGroup, liveHandler *handlers.LiveHandler) {
	live := r.Group("/live")
	{
		live.GET("/dashboard", liveHandler.Dashboard)
		live.GET("/analytics", liveHandler.Analytics)
		live.GET("/users", liveHandler.Accounts(models.RoleClient))
		live.GET("/drivers", liveHandler.Accounts(models.RoleDriver))
	}
}
