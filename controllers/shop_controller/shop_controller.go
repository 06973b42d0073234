package shop_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/user_models"
)

// ShopController serves shop reads and the owner/admin mutations that gate
// the booking flows: owner-scoped listing, deletion and admin approval.
type ShopController struct {
	Backend *clients.BackendClient
}

func NewShopController(backend *clients.BackendClient) *ShopController {
	return &ShopController{Backend: backend}
}

type ApproveRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (sc *ShopController) List(c *gin.Context) {
	shops, err := sc.Backend.ListShops(c.Request.Context(), auth.TokenFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch shops."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

func (sc *ShopController) Get(c *gin.Context) {
	shop, err := sc.Backend.GetShop(c.Request.Context(), auth.TokenFromContext(c), c.Param("id"))
	if err != nil {
		if clients.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch shop."})
		return
	}
	c.JSON(http.StatusOK, shop)
}

// MyShops lists the calling owner's shops.
func (sc *ShopController) MyShops(c *gin.Context) {
	shops, err := sc.Backend.MyShops(c.Request.Context(), auth.TokenFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch your shops."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

// Delete removes a shop. Owners may only delete shops they own; admins any.
func (sc *ShopController) Delete(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c)
	token := auth.TokenFromContext(c)
	shopID := c.Param("id")
	ctx := c.Request.Context()

	shop, err := sc.Backend.GetShop(ctx, token, shopID)
	if err != nil {
		if clients.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch shop."})
		return
	}
	if identity.Role == user_models.RoleOwner && shop.OwnerID != identity.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This shop belongs to another owner."})
		return
	}

	if err := sc.Backend.DeleteShop(ctx, token, shopID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete shop."})
		return
	}

	logger.InfoLogger.Infof("Shop %s deleted by %s (%s)", shopID, identity.ID, identity.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Shop deleted."})
}

// Approve flips the approval flag. The response is the backend's record; the
// flag is never trusted from local state.
func (sc *ShopController) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Approved flag is required."})
		return
	}

	shop, err := sc.Backend.SetShopApproval(c.Request.Context(), auth.TokenFromContext(c), c.Param("id"), *req.Approved)
	if err != nil {
		if clients.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update shop approval."})
		return
	}

	logger.InfoLogger.Infof("Shop %s approval set to %t", shop.ID, shop.Approved)
	c.JSON(http.StatusOK, shop)
}

// Hairstyles is a read-only gallery passthrough.
func (sc *ShopController) Hairstyles(c *gin.Context) {
	token := auth.TokenFromContext(c)
	ctx := c.Request.Context()

	var (
		styles []clients.Hairstyle
		err    error
	)
	if shopID := c.Param("id"); shopID != "" {
		styles, err = sc.Backend.HairstylesByShop(ctx, token, shopID)
	} else {
		styles, err = sc.Backend.ListHairstyles(ctx, token)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch hairstyles."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hairstyles": styles})
}
