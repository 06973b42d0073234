package payment_models

import (
	"fmt"
	"time"
)

// Method of payment. Card is declared but not serviceable; initiation must
// refuse it before any request is attempted.
type Method string

const (
	MethodMobileMoney Method = "mobile-money"
	MethodCard        Method = "card"
)

// ParseMethod validates a payment method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodMobileMoney, MethodCard:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// Payment status constants.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Payment is one transactionRef-identified attempt to settle a booking, as
// served by the backend. A booking may accumulate failed attempts but at most
// one success.
type Payment struct {
	ID             string    `json:"_id"`
	BookingID      string    `json:"booking"`
	Amount         float64   `json:"amount"`
	Method         Method    `json:"method"`
	TransactionRef string    `json:"transactionRef"`
	Phone          string    `json:"phone,omitempty"` // normalized 254... MSISDN
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}
