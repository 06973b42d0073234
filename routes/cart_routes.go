package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/controllers/cart_controller"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/cart_models"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/session"
)

func RegisterCartRoutes(router *gin.Engine, backend *clients.BackendClient, sessions session.Store, carts cart_models.Store) {
	cartController := cart_controller.NewCartController(carts, backend)

	// Carts belong to customers only.
	cart := router.Group("/cart")
	cart.Use(auth.RequireRoles(sessions, user_models.RoleCustomer))
	{
		cart.GET("", cartController.GetCart)
		cart.POST("", cartController.AddItem)
		cart.DELETE("", cartController.Clear)
		cart.DELETE("/:itemId", cartController.RemoveItem)
		cart.POST("/checkout", cartController.Checkout)
	}
}
