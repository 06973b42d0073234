package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/controllers/payment_controller"
	middleware "github.com/joy095/salon/middlewares"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/payment_ledger_models"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/session"
	"github.com/joy095/salon/utils/mail"
)

func RegisterPaymentRoutes(router *gin.Engine, backend *clients.BackendClient, sessions session.Store, ledger payment_ledger_models.Ledger, mailer *mail.Mailer) {
	paymentController := payment_controller.NewPaymentController(backend, ledger, mailer)

	payments := router.Group("/payment")
	{
		payments.POST("",
			auth.RequireRoles(sessions, user_models.RoleCustomer),
			middleware.NewRateLimiter("5-1m", "paymentInitiate"),
			paymentController.Initiate)

		payments.GET("/:transactionRef",
			auth.RequireRoles(sessions, user_models.RoleCustomer, user_models.RoleOwner, user_models.RoleAdmin),
			paymentController.Status)

		// The provider authenticates with a signature, not a session.
		payments.POST("/webhook", paymentController.Webhook)
	}
}
