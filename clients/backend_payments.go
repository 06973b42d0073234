package clients

import (
	"context"
	"net/http"

	"github.com/joy095/salon/models/payment_models"
)

// CreatePaymentPayload initiates a payment attempt against a booking.
type CreatePaymentPayload struct {
	BookingID      string                `json:"booking"`
	Amount         float64               `json:"amount"`
	Method         payment_models.Method `json:"method"`
	TransactionRef string                `json:"transactionRef"`
	Phone          string                `json:"phone,omitempty"`
}

func (c *BackendClient) CreatePayment(ctx context.Context, token string, payload CreatePaymentPayload) (*payment_models.Payment, error) {
	payment := &payment_models.Payment{}
	if err := c.do(ctx, http.MethodPost, "/payment", token, payload, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPayments backs the dashboard revenue projection. Callers treat a
// failure as an empty result (best-effort secondary read).
func (c *BackendClient) ListPayments(ctx context.Context, token string) ([]payment_models.Payment, error) {
	var payments []payment_models.Payment
	if err := c.do(ctx, http.MethodGet, "/payment", token, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
