package booking_controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/booking_models"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/utils"
	"github.com/joy095/salon/utils/mail"
)

// StatusNotifier delivers booking lifecycle mail. Satisfied by *mail.Mailer.
type StatusNotifier interface {
	SendBookingStatus(to, serviceName, status string)
}

// BookingController drives the appointment lifecycle: creation, listing,
// status transitions and deletion, all against the backend record store.
type BookingController struct {
	Backend *clients.BackendClient
	Mailer  StatusNotifier
}

func NewBookingController(backend *clients.BackendClient, mailer *mail.Mailer) *BookingController {
	bc := &BookingController{Backend: backend}
	if mailer != nil {
		bc.Mailer = mailer
	}
	return bc
}

type CreateBookingRequest struct {
	ShopID      string `json:"shop" binding:"required"`
	ServiceName string `json:"serviceName" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

const dateLayout = "2006-01-02"

// Create books one service for the calling customer. The service snapshot is
// copied from the shop's current catalog at this moment and never changes
// afterwards.
func (bc *BookingController) Create(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shop, service name, date and time are required."})
		return
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD."})
		return
	}

	ctx := c.Request.Context()
	shop, err := bc.Backend.GetShop(ctx, token, req.ShopID)
	if err != nil {
		if clients.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch shop."})
		return
	}

	service, ok := shop.FindService(req.ServiceName)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found in this shop."})
		return
	}

	booking, err := bc.Backend.CreateBooking(ctx, token, clients.CreateBookingPayload{
		ShopID: shop.ID,
		Service: booking_models.ServiceSnapshot{
			ServiceName: service.ServiceName,
			Price:       service.Price,
		},
		CustomerID: identity.ID,
		Date:       req.Date,
		Time:       req.Time,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create booking."})
		return
	}

	logger.InfoLogger.Infof("Booking %s created for customer %s (%s @ %s)",
		booking.ID, identity.ID, service.ServiceName, req.Date)
	c.JSON(http.StatusCreated, booking)
}

// fetchScoped returns the bookings the caller may see: customers their own,
// owners those of their shops, admins everything.
func (bc *BookingController) fetchScoped(c *gin.Context, identity *user_models.Identity, token string) ([]booking_models.Booking, bool) {
	ctx := c.Request.Context()

	switch identity.Role {
	case user_models.RoleCustomer:
		bookings, err := bc.Backend.BookingsByCustomer(ctx, token, identity.ID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch bookings."})
			return nil, false
		}
		return bookings, true

	case user_models.RoleOwner:
		owned, err := bc.ownedShopIDs(c, token)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch your shops."})
			return nil, false
		}
		all, err := bc.Backend.ListBookings(ctx, token)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch bookings."})
			return nil, false
		}
		scoped := make([]booking_models.Booking, 0, len(all))
		for _, b := range all {
			if owned[b.ShopID] {
				scoped = append(scoped, b)
			}
		}
		return scoped, true

	default: // admin
		bookings, err := bc.Backend.ListBookings(ctx, token)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch bookings."})
			return nil, false
		}
		return bookings, true
	}
}

// List returns the caller's visible bookings, optionally filtered by
// customer, shop, status and inclusive date range. The range end covers the
// whole end day.
func (bc *BookingController) List(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	filter := booking_models.Filter{
		CustomerID: c.Query("customer"),
		ShopID:     c.Query("shop"),
	}
	if s := c.Query("status"); s != "" {
		status, err := booking_models.ParseStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter."})
			return
		}
		filter.Status = status
	}
	for q, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		if v := c.Query(q); v != "" {
			parsed, err := time.Parse(dateLayout, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + q + " date, expected YYYY-MM-DD."})
				return
			}
			*dst = parsed
		}
	}

	bookings, ok := bc.fetchScoped(c, identity, token)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": filter.Apply(bookings)})
}

// Get returns one booking the caller is allowed to see, with the transitions
// currently offered from its state.
func (bc *BookingController) Get(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	booking, ok := bc.authorizedBooking(c, identity, token)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":     booking,
		"transitions": booking_models.NextStatuses(booking.Status),
	})
}

// SetStatus applies one legal edge of the state machine. Illegal edges are
// rejected before any backend call, and the response body is the backend's
// authoritative record, not the locally assumed one.
func (bc *BookingController) SetStatus(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required."})
		return
	}
	next, err := booking_models.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown booking status."})
		return
	}

	booking, ok := bc.authorizedBooking(c, identity, token)
	if !ok {
		return
	}

	// Customers may only cancel; owners and admins use the full table.
	if identity.Role == user_models.RoleCustomer && next != booking_models.StatusCancelled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Customers may only cancel their bookings."})
		return
	}

	if !booking_models.CanTransition(booking.Status, next) {
		c.JSON(http.StatusConflict, gin.H{
			"error":       utils.ErrIllegalTransition.Error(),
			"from":        booking.Status,
			"to":          next,
			"transitions": booking_models.NextStatuses(booking.Status),
		})
		return
	}

	updated, err := bc.Backend.UpdateBookingStatus(c.Request.Context(), token, booking.ID, next)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update booking status."})
		return
	}

	logger.InfoLogger.Infof("Booking %s: %s -> %s by %s (%s)",
		booking.ID, booking.Status, updated.Status, identity.ID, identity.Role)
	if bc.Mailer != nil {
		go bc.notifyCustomer(token, updated)
	}

	c.JSON(http.StatusOK, updated)
}

// notifyCustomer mails the booking's customer about the new status. The
// lookup is best-effort; a miss just means no mail.
func (bc *BookingController) notifyCustomer(token string, booking *booking_models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := bc.Backend.ListUsers(ctx, token)
	if err != nil {
		logger.WarnLogger.Warnf("Status mail skipped, users unavailable: %v", err)
		return
	}
	for _, u := range users {
		if u.ID == booking.CustomerID {
			bc.Mailer.SendBookingStatus(u.Email, booking.Service.ServiceName, string(booking.Status))
			return
		}
	}
	logger.WarnLogger.Warnf("Status mail skipped, no user record for customer %s", booking.CustomerID)
}

// Remove hard-deletes a booking regardless of status. This is not a
// cancellation; the record is simply gone from every future listing.
func (bc *BookingController) Remove(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	booking, ok := bc.authorizedBooking(c, identity, token)
	if !ok {
		return
	}

	if err := bc.Backend.DeleteBooking(c.Request.Context(), token, booking.ID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete booking."})
		return
	}

	logger.InfoLogger.Infof("Booking %s deleted by %s (%s)", booking.ID, identity.ID, identity.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted."})
}

// authorizedBooking loads the booking in :id and enforces record-level access:
// customers only their own, owners only bookings of shops they own.
func (bc *BookingController) authorizedBooking(c *gin.Context, identity *user_models.Identity, token string) (*booking_models.Booking, bool) {
	bookingID := c.Param("id")
	ctx := c.Request.Context()

	booking, err := bc.Backend.GetBooking(ctx, token, bookingID)
	if err != nil {
		if clients.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found."})
			return nil, false
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch booking."})
		return nil, false
	}

	switch identity.Role {
	case user_models.RoleCustomer:
		if booking.CustomerID != identity.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "This booking belongs to another customer."})
			return nil, false
		}
	case user_models.RoleOwner:
		owned, err := bc.ownedShopIDs(c, token)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch your shops."})
			return nil, false
		}
		if !owned[booking.ShopID] {
			c.JSON(http.StatusForbidden, gin.H{"error": "This booking belongs to another shop."})
			return nil, false
		}
	}
	return booking, true
}

func (bc *BookingController) ownedShopIDs(c *gin.Context, token string) (map[string]bool, error) {
	shops, err := bc.Backend.MyShops(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(shops))
	for _, s := range shops {
		owned[s.ID] = true
	}
	return owned, nil
}
