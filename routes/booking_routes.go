package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/controllers/booking_controller"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/session"
	"github.com/joy095/salon/utils/mail"
)

func RegisterBookingRoutes(router *gin.Engine, backend *clients.BackendClient, sessions session.Store, mailer *mail.Mailer) {
	bookingController := booking_controller.NewBookingController(backend, mailer)

	anyRole := auth.RequireRoles(sessions,
		user_models.RoleCustomer, user_models.RoleOwner, user_models.RoleAdmin)

	bookings := router.Group("/booking")
	{
		// Creation is a customer act; everything else is scoped inside the
		// controller (customers their own records, owners their shops').
		bookings.POST("", auth.RequireRoles(sessions, user_models.RoleCustomer), bookingController.Create)
		bookings.GET("", anyRole, bookingController.List)
		bookings.GET("/:id", anyRole, bookingController.Get)
		bookings.PATCH("/:id/status", anyRole, bookingController.SetStatus)
		bookings.DELETE("/:id", anyRole, bookingController.Remove)
	}
}
