package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/controllers/dashboard_controller"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/session"
)

func RegisterDashboardRoutes(router *gin.Engine, backend *clients.BackendClient, sessions session.Store) {
	dashboardController := dashboard_controller.NewDashboardController(backend)

	dashboards := router.Group("/dashboard")
	{
		dashboards.GET("/owner", auth.RequireRoles(sessions, user_models.RoleOwner), dashboardController.OwnerSummary)
		dashboards.GET("/admin", auth.RequireRoles(sessions, user_models.RoleAdmin), dashboardController.AdminSummary)
	}
}
