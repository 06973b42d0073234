package booking_models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, e := range legal {
		assert.True(t, CanTransition(e.from, e.to), "%s -> %s should be legal", e.from, e.to)
	}

	// Every other edge over the status set is illegal, including self-loops
	// and anything revisiting pending.
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	legalSet := map[[2]Status]bool{}
	for _, e := range legal {
		legalSet[[2]Status{e.from, e.to}] = true
	}
	for _, from := range all {
		for _, to := range all {
			if legalSet[[2]Status{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s should be illegal", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusConfirmed))

	assert.Empty(t, NextStatuses(StatusCompleted))
	assert.Empty(t, NextStatuses(StatusCancelled))
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusConfirmed, StatusCancelled}, NextStatuses(StatusPending))
	assert.ElementsMatch(t, []Status{StatusCompleted, StatusCancelled}, NextStatuses(StatusConfirmed))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("refunded")
	assert.Error(t, err)
}

func mkBooking(customer, shop string, status Status, date string) Booking {
	return Booking{
		ID:         "b-" + date,
		ShopID:     shop,
		CustomerID: customer,
		Status:     status,
		Date:       date,
		Service:    ServiceSnapshot{ServiceName: "Braiding", Price: 1500},
	}
}

func TestFilterMatches(t *testing.T) {
	b := mkBooking("cust-1", "shop-1", StatusPending, "2025-06-10")

	assert.True(t, Filter{}.Matches(&b))
	assert.True(t, Filter{CustomerID: "cust-1"}.Matches(&b))
	assert.False(t, Filter{CustomerID: "cust-2"}.Matches(&b))
	assert.True(t, Filter{ShopID: "shop-1", Status: StatusPending}.Matches(&b))
	assert.False(t, Filter{Status: StatusConfirmed}.Matches(&b))
}

func TestFilterDateRangeEndOfDayInclusive(t *testing.T) {
	b := mkBooking("cust-1", "shop-1", StatusPending, "2025-06-10")

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// The range end lands on the booking's own date; end-of-day semantics
	// must still include it.
	to := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, Filter{From: from, To: to}.Matches(&b))

	// One day earlier excludes it.
	assert.False(t, Filter{From: from, To: to.AddDate(0, 0, -1)}.Matches(&b))

	// A from after the booking excludes it.
	assert.False(t, Filter{From: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)}.Matches(&b))
}

func TestFilterApply(t *testing.T) {
	bookings := []Booking{
		mkBooking("cust-1", "shop-1", StatusPending, "2025-06-01"),
		mkBooking("cust-1", "shop-2", StatusConfirmed, "2025-06-02"),
		mkBooking("cust-2", "shop-1", StatusPending, "2025-06-03"),
	}

	got := Filter{CustomerID: "cust-1"}.Apply(bookings)
	require.Len(t, got, 2)

	got = Filter{ShopID: "shop-1", Status: StatusPending}.Apply(bookings)
	require.Len(t, got, 2)

	got = Filter{Status: StatusCompleted}.Apply(bookings)
	assert.Empty(t, got)
}

func TestIsActive(t *testing.T) {
	for status, active := range map[Status]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCompleted: false,
		StatusCancelled: false,
	} {
		b := Booking{Status: status}
		assert.Equal(t, active, b.IsActive(), "status %s", status)
	}
}
