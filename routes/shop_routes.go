package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/controllers/shop_controller"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/session"
)

func RegisterShopRoutes(router *gin.Engine, backend *clients.BackendClient, sessions session.Store) {
	shopController := shop_controller.NewShopController(backend)

	anyRole := auth.RequireRoles(sessions,
		user_models.RoleCustomer, user_models.RoleOwner, user_models.RoleAdmin)

	shops := router.Group("/shop")
	{
		shops.GET("", anyRole, shopController.List)
		shops.GET("/getMyShops", auth.RequireRoles(sessions, user_models.RoleOwner), shopController.MyShops)
		shops.GET("/:id", anyRole, shopController.Get)
		shops.DELETE("/:id", auth.RequireRoles(sessions, user_models.RoleOwner, user_models.RoleAdmin), shopController.Delete)
		shops.PATCH("/:id/approval", auth.RequireRoles(sessions, user_models.RoleAdmin), shopController.Approve)
	}

	hairstyles := router.Group("/hairstyle")
	{
		hairstyles.GET("", anyRole, shopController.Hairstyles)
		hairstyles.GET("/shop/:id", anyRole, shopController.Hairstyles)
	}
}
