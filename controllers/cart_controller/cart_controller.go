package cart_controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/booking_models"
	"github.com/joy095/salon/models/cart_models"
	"github.com/joy095/salon/utils"
)

// CartController accumulates service selections for a customer ahead of
// checkout.
type CartController struct {
	Store   cart_models.Store
	Backend *clients.BackendClient
}

func NewCartController(store cart_models.Store, backend *clients.BackendClient) *CartController {
	return &CartController{Store: store, Backend: backend}
}

type AddItemRequest struct {
	ShopID      string `json:"shop" binding:"required"`
	ServiceName string `json:"serviceName" binding:"required"`
}

type CheckoutRequest struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD
	Time string `json:"time,omitempty"` // HH:MM
}

const (
	dateLayout  = "2006-01-02"
	defaultHour = "09:00"
)

func cartView(cart *cart_models.Cart) gin.H {
	total := cart.Total()
	fee := cart.ServiceFee()
	return gin.H{
		"items":      cart.Items,
		"total":      total,
		"serviceFee": fee,
		"grandTotal": total + fee,
	}
}

// GetCart returns the caller's cart with totals.
func (cc *CartController) GetCart(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)

	cart, err := cc.Store.Get(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart."})
		return
	}
	c.JSON(http.StatusOK, cartView(cart))
}

// AddItem snapshots the named service from the shop's current catalog and
// appends it. Duplicates are allowed; the cart never dedups.
func (cc *CartController) AddItem(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shop and service name are required."})
		return
	}

	ctx := c.Request.Context()
	shop, err := cc.Backend.GetShop(ctx, token, req.ShopID)
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

	cart, err := cc.Store.Get(ctx, identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart."})
		return
	}

	// The snapshot is taken here; later edits to the shop's catalog never
	// change what is in the cart.
	cart.Add(cart_models.NewItem(shop.ID, booking_models.ServiceSnapshot{
		ServiceName: service.ServiceName,
		Price:       service.Price,
	}))

	if err := cc.Store.Save(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart."})
		return
	}

	logger.InfoLogger.Infof("Customer %s added %s (%s) to cart", identity.ID, service.ServiceName, shop.ID)
	c.JSON(http.StatusCreated, cartView(cart))
}

// RemoveItem deletes one item by its cart-local id.
func (cc *CartController) RemoveItem(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	itemID := c.Param("itemId")

	ctx := c.Request.Context()
	cart, err := cc.Store.Get(ctx, identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart."})
		return
	}
	if !cart.Remove(itemID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found."})
		return
	}
	if err := cc.Store.Save(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart."})
		return
	}
	c.JSON(http.StatusOK, cartView(cart))
}

// Clear drops every item.
func (cc *CartController) Clear(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)

	if err := cc.Store.Delete(c.Request.Context(), identity.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart."})
		return
	}
	c.JSON(http.StatusOK, cartView(&cart_models.Cart{CustomerID: identity.ID}))
}

// Checkout converts cart items into pending bookings, one per item, in order.
// The flow is not transactional: the backend offers no multi-create. Each item
// is removed from the cart only once its booking succeeded, so a mid-sequence
// failure keeps the unbooked remainder in the cart and reports both sides.
func (cc *CartController) Checkout(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)

	// Body is optional; an empty body means default date/time.
	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout request."})
			return
		}
	}

	date := req.Date
	if date == "" {
		date = time.Now().AddDate(0, 0, 1).Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD."})
		return
	}
	slot := req.Time
	if slot == "" {
		slot = defaultHour
	}

	ctx := c.Request.Context()
	cart, err := cc.Store.Get(ctx, identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart."})
		return
	}
	if cart.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrEmptyCart.Error()})
		return
	}

	var created []booking_models.Booking
	for len(cart.Items) > 0 {
		item := cart.Items[0]
		booking, err := cc.Backend.CreateBooking(ctx, token, clients.CreateBookingPayload{
			ShopID:     item.ShopID,
			Service:    item.Snapshot,
			CustomerID: identity.ID,
			Date:       date,
			Time:       slot,
		})
		if err != nil {
			logger.ErrorLogger.Errorf("Checkout for %s failed at item %s: %v", identity.ID, item.ID, err)
			if saveErr := cc.Store.Save(ctx, cart); saveErr != nil {
				logger.ErrorLogger.Errorf("Failed to save cart after partial checkout: %v", saveErr)
			}
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "Checkout failed partway; remaining items were kept in the cart.",
				"created":    created,
				"failedItem": item,
				"cart":       cartView(cart),
			})
			return
		}
		created = append(created, *booking)
		cart.Remove(item.ID)
	}

	if err := cc.Store.Delete(ctx, identity.ID); err != nil {
		logger.WarnLogger.Warnf("Failed to drop empty cart for %s: %v", identity.ID, err)
	}

	logger.InfoLogger.Infof("Customer %s checked out %d bookings", identity.ID, len(created))
	c.JSON(http.StatusCreated, gin.H{
		"bookings": created,
		"cart":     cartView(cart),
	})
}
