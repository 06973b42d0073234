package cart_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/joy095/salon/models/booking_models"
)

// ServiceFeeRate is the display-only checkout fee layered on top of the cart
// total. It is never persisted per item.
const ServiceFeeRate = 0.05

// CartItem is one (shop, service) selection. Items carry their own id so the
// same service can be added twice; the cart never dedups.
type CartItem struct {
	ID       string                         `json:"id"`
	ShopID   string                         `json:"shop"`
	Snapshot booking_models.ServiceSnapshot `json:"service"`
	AddedAt  time.Time                      `json:"addedAt"`
}

// Cart is the pre-checkout aggregate for one customer session.
type Cart struct {
	CustomerID string     `json:"customer"`
	Items      []CartItem `json:"items"`
}

// NewItem builds a cart item with a fresh id.
func NewItem(shopID string, snapshot booking_models.ServiceSnapshot) CartItem {
	return CartItem{
		ID:       uuid.NewString(),
		ShopID:   shopID,
		Snapshot: snapshot,
		AddedAt:  time.Now(),
	}
}

// Add appends an item; duplicates are permitted.
func (c *Cart) Add(item CartItem) {
	c.Items = append(c.Items, item)
}

// Remove deletes the item with the given id. Returns false when absent.
func (c *Cart) Remove(itemID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every item.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total is the sum of the items' snapshot prices.
func (c *Cart) Total() float64 {
	var sum float64
	for i := range c.Items {
		sum += c.Items[i].Snapshot.Price
	}
	return sum
}

// ServiceFee is the checkout display fee on the current total.
func (c *Cart) ServiceFee() float64 {
	return c.Total() * ServiceFeeRate
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
