package booking_models

import (
	"fmt"
	"time"
)

// ServiceSnapshot is the immutable copy of a shop service taken when a booking
// is created. Later edits to the shop's service list never touch it.
type ServiceSnapshot struct {
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
}

// Status of a booking. Transitions are monotonic: pending never recurs.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// NextStatuses returns the legal transitions from a given state. This is the
// single offer-table all call sites use.
func NextStatuses(from Status) []Status {
	order := []Status{StatusConfirmed, StatusCompleted, StatusCancelled}
	var out []Status
	for _, s := range order {
		if validNext[from][s] {
			out = append(out, s)
		}
	}
	return out
}

// ParseStatus validates a status string from a request or backend record.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

// Booking is a scheduled appointment as served by the backend. The shop
// reference and the service snapshot are fixed at creation.
type Booking struct {
	ID         string          `json:"_id"`
	ShopID     string          `json:"shop"`
	Service    ServiceSnapshot `json:"service"`
	CustomerID string          `json:"customer"`
	Date       string          `json:"date"` // YYYY-MM-DD
	Time       string          `json:"time"` // HH:MM
	Status     Status          `json:"status"`
	Paid       bool            `json:"paid"`
	PaymentRef string          `json:"paymentRef,omitempty"`
	CreatedAt  time.Time       `json:"createdAt,omitempty"`
}

const dateLayout = "2006-01-02"

// On returns the booking's date as a time, zeroed to midnight.
func (b *Booking) On() (time.Time, error) {
	return time.Parse(dateLayout, b.Date)
}

// Filter selects bookings in List results. Zero values mean "no constraint".
// To is inclusive through end-of-day.
type Filter struct {
	CustomerID string
	ShopID     string
	Status     Status
	From       time.Time
	To         time.Time
}

// Matches reports whether the booking passes every set constraint. A booking
// with an unparseable date fails any date-constrained filter.
func (f Filter) Matches(b *Booking) bool {
	if f.CustomerID != "" && b.CustomerID != f.CustomerID {
		return false
	}
	if f.ShopID != "" && b.ShopID != f.ShopID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		on, err := b.On()
		if err != nil {
			return false
		}
		if !f.From.IsZero() && on.Before(f.From) {
			return false
		}
		if !f.To.IsZero() {
			endOfDay := f.To.Truncate(24 * time.Hour).Add(24*time.Hour - time.Second)
			if on.After(endOfDay) {
				return false
			}
		}
	}
	return true
}

// Apply filters a slice of bookings.
func (f Filter) Apply(in []Booking) []Booking {
	out := make([]Booking, 0, len(in))
	for i := range in {
		if f.Matches(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

// IsActive reports whether the booking counts as active (pending or confirmed).
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(s Status) bool {
	return len(validNext[s]) == 0
}
