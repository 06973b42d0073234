package clients

import (
	"context"
	"net/http"

	"github.com/joy095/salon/models/booking_models"
)

// CreateBookingPayload is the backend's booking-creation shape. The service
// snapshot is embedded by value; the backend stores it verbatim.
type CreateBookingPayload struct {
	ShopID     string                         `json:"shop"`
	Service    booking_models.ServiceSnapshot `json:"service"`
	CustomerID string                         `json:"customer"`
	Date       string                         `json:"date"`
	Time       string                         `json:"time"`
}

func (c *BackendClient) CreateBooking(ctx context.Context, token string, payload CreateBookingPayload) (*booking_models.Booking, error) {
	booking := &booking_models.Booking{}
	if err := c.do(ctx, http.MethodPost, "/booking", token, payload, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (c *BackendClient) ListBookings(ctx context.Context, token string) ([]booking_models.Booking, error) {
	var bookings []booking_models.Booking
	if err := c.do(ctx, http.MethodGet, "/booking", token, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *BackendClient) GetBooking(ctx context.Context, token, bookingID string) (*booking_models.Booking, error) {
	booking := &booking_models.Booking{}
	if err := c.do(ctx, http.MethodGet, "/booking/"+bookingID, token, nil, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (c *BackendClient) BookingsByCustomer(ctx context.Context, token, customerID string) ([]booking_models.Booking, error) {
	var bookings []booking_models.Booking
	if err := c.do(ctx, http.MethodGet, "/booking/customer/"+customerID, token, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingStatus forwards a status change and returns the backend's
// record. Edge legality is the caller's responsibility.
func (c *BackendClient) UpdateBookingStatus(ctx context.Context, token, bookingID string, status booking_models.Status) (*booking_models.Booking, error) {
	booking := &booking_models.Booking{}
	payload := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, "/booking/"+bookingID, token, payload, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// MarkBookingPaid sets the payment flag and reference after a confirmed
// payment success.
func (c *BackendClient) MarkBookingPaid(ctx context.Context, token, bookingID, transactionRef string) (*booking_models.Booking, error) {
	booking := &booking_models.Booking{}
	payload := map[string]any{"paid": true, "paymentRef": transactionRef}
	if err := c.do(ctx, http.MethodPut, "/booking/"+bookingID, token, payload, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (c *BackendClient) DeleteBooking(ctx context.Context, token, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/booking/"+bookingID, token, nil, nil)
}
