package dashboard_controller

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/booking_models"
	"github.com/joy095/salon/models/payment_models"
	"github.com/joy095/salon/models/shop_models"
	"github.com/joy095/salon/models/user_models"
)

// DashboardController computes read-only projections over bookings, shops,
// users and payments. Nothing is cached; every load recomputes from fresh
// backend reads. Revenue has exactly one definition everywhere: the sum of
// successful payment amounts.
type DashboardController struct {
	Backend *clients.BackendClient
}

func NewDashboardController(backend *clients.BackendClient) *DashboardController {
	return &DashboardController{Backend: backend}
}

const recentActivityLimit = 5

// Activity is one entry of the merged recent-activity feed.
type Activity struct {
	Type      string    `json:"type"` // user_signup | shop_created | booking_created
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

type statusCounts struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Active    int `json:"active"` // pending + confirmed
	Total     int `json:"total"`
}

func countByStatus(bookings []booking_models.Booking) statusCounts {
	var counts statusCounts
	for i := range bookings {
		switch bookings[i].Status {
		case booking_models.StatusPending:
			counts.Pending++
		case booking_models.StatusConfirmed:
			counts.Confirmed++
		case booking_models.StatusCompleted:
			counts.Completed++
		case booking_models.StatusCancelled:
			counts.Cancelled++
		}
	}
	counts.Active = counts.Pending + counts.Confirmed
	counts.Total = len(bookings)
	return counts
}

// revenue sums successful payment amounts, optionally restricted to a set of
// bookings (nil means all).
func revenue(payments []payment_models.Payment, visible map[string]bool) float64 {
	var sum float64
	for i := range payments {
		p := &payments[i]
		if p.Status != payment_models.StatusSuccess {
			continue
		}
		if visible != nil && !visible[p.BookingID] {
			continue
		}
		sum += p.Amount
	}
	return sum
}

func recentActivity(users []user_models.Identity, shops []shop_models.Shop, bookings []booking_models.Booking) []Activity {
	feed := make([]Activity, 0, len(users)+len(shops)+len(bookings))
	for _, u := range users {
		feed = append(feed, Activity{Type: "user_signup", ID: u.ID, Label: u.Name, Timestamp: u.CreatedAt})
	}
	for _, s := range shops {
		feed = append(feed, Activity{Type: "shop_created", ID: s.ID, Label: s.Name, Timestamp: s.CreatedAt})
	}
	for _, b := range bookings {
		feed = append(feed, Activity{Type: "booking_created", ID: b.ID, Label: b.Service.ServiceName, Timestamp: b.CreatedAt})
	}
	sort.Slice(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > recentActivityLimit {
		feed = feed[:recentActivityLimit]
	}
	return feed
}

// OwnerSummary projects the calling owner's shops: their bookings, status
// counts and realized revenue.
func (dc *DashboardController) OwnerSummary(c *gin.Context) {
	token := auth.TokenFromContext(c)
	ctx := c.Request.Context()

	shops, err := dc.Backend.MyShops(ctx, token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch your shops."})
		return
	}
	all, err := dc.Backend.ListBookings(ctx, token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch bookings."})
		return
	}

	owned := make(map[string]bool, len(shops))
	for _, s := range shops {
		owned[s.ID] = true
	}
	var bookings []booking_models.Booking
	visible := make(map[string]bool)
	for _, b := range all {
		if owned[b.ShopID] {
			bookings = append(bookings, b)
			visible[b.ID] = true
		}
	}

	// Payments are a best-effort secondary read: without them the dashboard
	// still renders, with zero revenue.
	payments, err := dc.Backend.ListPayments(ctx, token)
	if err != nil {
		logger.WarnLogger.Warnf("Owner dashboard rendering without payments: %v", err)
		payments = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"shops":          len(shops),
		"bookings":       countByStatus(bookings),
		"revenue":        revenue(payments, visible),
		"recentActivity": recentActivity(nil, shops, bookings),
	})
}

// AdminSummary projects the whole system, including shops awaiting approval.
func (dc *DashboardController) AdminSummary(c *gin.Context) {
	token := auth.TokenFromContext(c)
	ctx := c.Request.Context()

	shops, err := dc.Backend.ListShops(ctx, token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch shops."})
		return
	}
	bookings, err := dc.Backend.ListBookings(ctx, token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch bookings."})
		return
	}

	// Users and payments are best-effort secondary reads.
	users, err := dc.Backend.ListUsers(ctx, token)
	if err != nil {
		logger.WarnLogger.Warnf("Admin dashboard rendering without users: %v", err)
		users = nil
	}
	payments, err := dc.Backend.ListPayments(ctx, token)
	if err != nil {
		logger.WarnLogger.Warnf("Admin dashboard rendering without payments: %v", err)
		payments = nil
	}

	var pendingApproval []shop_models.Shop
	for _, s := range shops {
		if !s.Approved {
			pendingApproval = append(pendingApproval, s)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users":                len(users),
		"shops":                len(shops),
		"bookings":             countByStatus(bookings),
		"revenue":              revenue(payments, nil),
		"recentActivity":       recentActivity(users, shops, bookings),
		"pendingApprovalCount": len(pendingApproval),
		"pendingApproval":      pendingApproval,
	})
}
