package payment_ledger_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/models/payment_models"
)

// Attempt is the local ledger record of one payment initiation. The ledger is
// what makes transaction references idempotent and guarantees at most one
// successful attempt per booking, independent of what the backend reports.
type Attempt struct {
	ID             uuid.UUID `json:"id"`
	BookingID      string    `json:"booking_id"`
	TransactionRef string    `json:"transaction_ref"`
	Amount         float64   `json:"amount"`
	Method         string    `json:"method"`
	Phone          string    `json:"phone"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var ErrAttemptNotFound = errors.New("payment attempt not found")

// ErrSuccessExists is returned when a booking already has a successful attempt.
var ErrSuccessExists = errors.New("booking already has a successful payment")

// Ledger is the attempt store the payment controller talks to. Satisfied by
// PgLedger in production and by an in-memory fake in tests.
type Ledger interface {
	CreateAttempt(ctx context.Context, a *Attempt) (*Attempt, bool, error)
	GetByTransactionRef(ctx context.Context, ref string) (*Attempt, error)
	Resolve(ctx context.Context, ref, status string) (*Attempt, error)
	RecordWebhookEvent(ctx context.Context, eventType, rawPayload string) error
}

// PgLedger implements Ledger on PostgreSQL.
type PgLedger struct {
	DB *pgxpool.Pool
}

func NewPgLedger(db *pgxpool.Pool) *PgLedger {
	return &PgLedger{DB: db}
}

const attemptColumns = `id, booking_id, transaction_ref, amount, method, phone, status, created_at, updated_at`

func scanAttempt(row pgx.Row) (*Attempt, error) {
	a := &Attempt{}
	err := row.Scan(
		&a.ID, &a.BookingID, &a.TransactionRef, &a.Amount,
		&a.Method, &a.Phone, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("database error fetching payment attempt: %w", err)
	}
	return a, nil
}

// CreateAttempt inserts a pending attempt. When the transaction reference was
// seen before, the existing row is returned unchanged and created is false, so
// duplicate submissions never produce a second attempt.
func (l *PgLedger) CreateAttempt(ctx context.Context, a *Attempt) (*Attempt, bool, error) {
	logger.InfoLogger.Infof("Recording payment attempt %s for booking %s", a.TransactionRef, a.BookingID)

	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate UUID for attempt: %w", err)
		}
		a.ID = id
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = payment_models.StatusPending
	}

	query := `
		INSERT INTO payment_attempts (` + attemptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (transaction_ref) DO NOTHING`

	tag, err := l.DB.Exec(ctx, query,
		a.ID, a.BookingID, a.TransactionRef, a.Amount,
		a.Method, a.Phone, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert payment attempt %s: %v", a.TransactionRef, err)
		return nil, false, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	if tag.RowsAffected() == 0 {
		existing, err := l.GetByTransactionRef(ctx, a.TransactionRef)
		if err != nil {
			return nil, false, err
		}
		logger.WarnLogger.Warnf("Duplicate payment attempt %s, returning existing record", a.TransactionRef)
		return existing, false, nil
	}
	return a, true, nil
}

// GetByTransactionRef fetches one attempt. This backs the authoritative
// status-poll endpoint.
func (l *PgLedger) GetByTransactionRef(ctx context.Context, ref string) (*Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM payment_attempts WHERE transaction_ref = $1`
	return scanAttempt(l.DB.QueryRow(ctx, query, ref))
}

// Resolve moves a pending attempt to success or failed. A success is refused
// when the booking already has one, and a successful attempt never regresses
// to failed; both conflicts surface as ErrSuccessExists. Resolving an attempt
// to its current status is a no-op returning the current row.
func (l *PgLedger) Resolve(ctx context.Context, ref, status string) (*Attempt, error) {
	logger.InfoLogger.Infof("Resolving payment attempt %s to %s", ref, status)

	current, err := l.GetByTransactionRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if current.Status == payment_models.StatusSuccess {
		// A settled attempt never regresses. Callers acknowledge the conflict
		// instead of retrying.
		return nil, ErrSuccessExists
	}
	if current.Status != payment_models.StatusPending {
		return nil, fmt.Errorf("attempt %s already resolved to %s", ref, current.Status)
	}

	if status == payment_models.StatusSuccess {
		query := `
			UPDATE payment_attempts
			SET status = $2, updated_at = $3
			WHERE transaction_ref = $1
			  AND NOT EXISTS (
				SELECT 1 FROM payment_attempts
				WHERE booking_id = (SELECT booking_id FROM payment_attempts WHERE transaction_ref = $1)
				  AND status = $2
			  )`
		tag, err := l.DB.Exec(ctx, query, ref, status, time.Now())
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to resolve attempt %s: %v", ref, err)
			return nil, fmt.Errorf("failed to resolve payment attempt: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrSuccessExists
		}
	} else {
		query := `UPDATE payment_attempts SET status = $2, updated_at = $3 WHERE transaction_ref = $1`
		if _, err := l.DB.Exec(ctx, query, ref, status, time.Now()); err != nil {
			logger.ErrorLogger.Errorf("Failed to resolve attempt %s: %v", ref, err)
			return nil, fmt.Errorf("failed to resolve payment attempt: %w", err)
		}
	}

	return l.GetByTransactionRef(ctx, ref)
}

// RecordWebhookEvent stores the raw provider event for audit and replay.
func (l *PgLedger) RecordWebhookEvent(ctx context.Context, eventType, rawPayload string) error {
	_, err := l.DB.Exec(ctx,
		`INSERT INTO webhook_events (event_type, raw_payload, received_at) VALUES ($1, $2, $3)`,
		eventType, rawPayload, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to log webhook event: %v", err)
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	return nil
}
