package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/controllers/user_controller"
	middleware "github.com/joy095/salon/middlewares"
	"github.com/joy095/salon/session"
)

func RegisterUserRoutes(router *gin.Engine, backend *clients.BackendClient, sessions session.Store) {
	userController := user_controller.NewUserController(backend, sessions)

	users := router.Group("/user")
	{
		users.POST("/login", middleware.NewRateLimiter("10-1m", "userLogin"), userController.Login)
		users.POST("/register", middleware.NewRateLimiter("5-10m", "userRegister"), userController.Register)
		users.POST("/verify", userController.Verify)
		users.POST("/logout", userController.Logout)
	}
}
