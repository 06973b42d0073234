package payment_controller

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/booking_models"
	"github.com/joy095/salon/models/payment_ledger_models"
	"github.com/joy095/salon/models/payment_models"
	"github.com/joy095/salon/utils"
	"github.com/joy095/salon/utils/mail"
	"github.com/joy095/salon/utils/phone"
)

// PaymentController settles pending bookings. Attempts are recorded in the
// local ledger before the backend is asked to create the payment, and an
// attempt only becomes a success through the provider webhook or the
// authoritative poll — never through an optimistic client-side timer.
type PaymentController struct {
	Backend       *clients.BackendClient
	Ledger        payment_ledger_models.Ledger
	Mailer        *mail.Mailer
	WebhookSecret []byte
	// ServiceToken authenticates webhook-triggered reconciliation calls to
	// the backend; webhooks carry no user session.
	ServiceToken string
}

func NewPaymentController(backend *clients.BackendClient, ledger payment_ledger_models.Ledger, mailer *mail.Mailer) *PaymentController {
	return &PaymentController{
		Backend:       backend,
		Ledger:        ledger,
		Mailer:        mailer,
		WebhookSecret: utils.GetWebhookSecret(),
		ServiceToken:  os.Getenv("BACKEND_SERVICE_TOKEN"),
	}
}

type InitiateRequest struct {
	BookingID      string  `json:"booking" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Method         string  `json:"method" binding:"required"`
	Phone          string  `json:"phone,omitempty"`
	TransactionRef string  `json:"transactionRef,omitempty"`
}

// WebhookEvent is the provider's status notification.
type WebhookEvent struct {
	Type string `json:"type"` // PAYMENT_SUCCESS | PAYMENT_FAILED
	Data struct {
		TransactionRef string  `json:"transactionRef"`
		Amount         float64 `json:"amount"`
		Message        string  `json:"message,omitempty"`
	} `json:"data"`
}

// Initiate validates and records a payment attempt, then asks the backend to
// create the pending Payment. Re-sending the same transactionRef returns the
// original attempt without a second payment.
func (pc *PaymentController) Initiate(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking, amount and method are required."})
		return
	}

	method, err := payment_models.ParseMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method."})
		return
	}
	// Card is declared but not serviceable. Refuse before any request.
	if method == payment_models.MethodCard {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrCardUnavailable.Error()})
		return
	}

	msisdn, err := phone.Normalize(req.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mobile money phone number."})
		return
	}

	ctx := c.Request.Context()
	booking, err := pc.Backend.GetBooking(ctx, token, req.BookingID)
	if err != nil {
		if clients.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch booking."})
		return
	}
	if booking.CustomerID != identity.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This booking belongs to another customer."})
		return
	}
	if booking.Status != booking_models.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Only pending bookings can be paid for."})
		return
	}

	// The amount must match the immutable snapshot price exactly.
	if req.Amount != booking.Service.Price {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    utils.ErrAmountMismatch.Error(),
			"expected": booking.Service.Price,
		})
		return
	}

	ref := req.TransactionRef
	if ref == "" {
		ref = "txn_" + uuid.NewString()
	}

	attempt, created, err := pc.Ledger.CreateAttempt(ctx, &payment_ledger_models.Attempt{
		BookingID:      booking.ID,
		TransactionRef: ref,
		Amount:         req.Amount,
		Method:         string(method),
		Phone:          msisdn,
		Status:         payment_models.StatusPending,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment attempt."})
		return
	}
	if !created {
		// Idempotent replay: the original attempt stands, nothing new is sent.
		c.JSON(http.StatusOK, gin.H{"payment": attempt, "duplicate": true})
		return
	}

	payment, err := pc.Backend.CreatePayment(ctx, token, clients.CreatePaymentPayload{
		BookingID:      booking.ID,
		Amount:         req.Amount,
		Method:         method,
		TransactionRef: ref,
		Phone:          msisdn,
	})
	if err != nil {
		// The attempt is dead on arrival; resolve it so it cannot linger pending.
		if _, rerr := pc.Ledger.Resolve(ctx, ref, payment_models.StatusFailed); rerr != nil {
			logger.ErrorLogger.Errorf("Failed to fail attempt %s after backend error: %v", ref, rerr)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to initiate payment."})
		return
	}

	logger.InfoLogger.Infof("Payment %s initiated for booking %s (KSh %.2f via %s)",
		ref, booking.ID, req.Amount, method)
	c.JSON(http.StatusAccepted, gin.H{"payment": payment, "transactionRef": ref})
}

// Status is the authoritative poll: the ledger, not the client, says whether
// an attempt settled.
func (pc *PaymentController) Status(c *gin.Context) {
	ref := c.Param("transactionRef")

	attempt, err := pc.Ledger.GetByTransactionRef(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, payment_ledger_models.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment attempt not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment attempt."})
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// Webhook ingests provider confirmations. The signature is verified against
// the raw body, the raw event is audited, and only then is the attempt
// resolved. A duplicate success for a booking is acknowledged but not applied.
func (pc *PaymentController) Webhook(c *gin.Context) {
	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if !pc.verifySignature(c.GetHeader("X-Webhook-Signature"), bodyBytes) {
		logger.WarnLogger.Warn("Rejected payment webhook with bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(bodyBytes, &event); err != nil {
		logger.ErrorLogger.Errorf("Invalid webhook payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	if err := pc.Ledger.RecordWebhookEvent(ctx, event.Type, string(bodyBytes)); err != nil {
		// Audit failure is logged but does not stop processing.
		logger.ErrorLogger.Errorf("Failed to audit webhook event: %v", err)
	}

	switch event.Type {
	case "PAYMENT_SUCCESS":
		pc.handleSuccess(c, event)
	case "PAYMENT_FAILED":
		pc.handleFailure(c, event)
	default:
		logger.WarnLogger.Warnf("Ignoring unknown webhook event type %q", event.Type)
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
	}
}

func (pc *PaymentController) handleSuccess(c *gin.Context, event WebhookEvent) {
	ctx := c.Request.Context()
	ref := event.Data.TransactionRef

	attempt, err := pc.Ledger.Resolve(ctx, ref, payment_models.StatusSuccess)
	if err != nil {
		if errors.Is(err, payment_ledger_models.ErrSuccessExists) {
			// The booking is already settled; acknowledge so the provider
			// stops retrying, but change nothing.
			logger.WarnLogger.Warnf("Duplicate success webhook for %s ignored", ref)
			c.JSON(http.StatusOK, gin.H{"message": "already settled"})
			return
		}
		if errors.Is(err, payment_ledger_models.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown transaction reference."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve payment."})
		return
	}

	// Reconcile the booking's payment flag from the authoritative record.
	if _, err := pc.Backend.MarkBookingPaid(ctx, pc.ServiceToken, attempt.BookingID, ref); err != nil {
		logger.ErrorLogger.Errorf("Payment %s settled but booking %s not flagged paid: %v",
			ref, attempt.BookingID, err)
	}

	if pc.Mailer != nil {
		go pc.notifyCustomer(attempt)
	}

	logger.InfoLogger.Infof("Payment %s settled for booking %s", ref, attempt.BookingID)
	c.JSON(http.StatusOK, gin.H{"message": "settled", "payment": attempt})
}

// notifyCustomer emails a receipt. Both lookups are best-effort; a miss just
// means no mail.
func (pc *PaymentController) notifyCustomer(attempt *payment_ledger_models.Attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := pc.Backend.GetBooking(ctx, pc.ServiceToken, attempt.BookingID)
	if err != nil {
		logger.WarnLogger.Warnf("Receipt mail skipped, booking %s unavailable: %v", attempt.BookingID, err)
		return
	}
	users, err := pc.Backend.ListUsers(ctx, pc.ServiceToken)
	if err != nil {
		logger.WarnLogger.Warnf("Receipt mail skipped, users unavailable: %v", err)
		return
	}
	for _, u := range users {
		if u.ID == booking.CustomerID {
			pc.Mailer.SendPaymentReceived(u.Email, attempt.TransactionRef, attempt.Amount)
			return
		}
	}
}

func (pc *PaymentController) handleFailure(c *gin.Context, event WebhookEvent) {
	ref := event.Data.TransactionRef

	attempt, err := pc.Ledger.Resolve(c.Request.Context(), ref, payment_models.StatusFailed)
	if err != nil {
		if errors.Is(err, payment_ledger_models.ErrSuccessExists) {
			// A failure event after the attempt settled is stale; acknowledge
			// so the provider stops retrying, but keep the success.
			logger.WarnLogger.Warnf("Late failure webhook for settled %s ignored", ref)
			c.JSON(http.StatusOK, gin.H{"message": "already settled"})
			return
		}
		if errors.Is(err, payment_ledger_models.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown transaction reference."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve payment."})
		return
	}

	logger.InfoLogger.Infof("Payment %s marked failed: %s", ref, event.Data.Message)
	c.JSON(http.StatusOK, gin.H{"message": "failed", "payment": attempt})
}

func (pc *PaymentController) verifySignature(signature string, body []byte) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, pc.WebhookSecret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
