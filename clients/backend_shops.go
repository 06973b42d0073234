package clients

import (
	"context"
	"net/http"

	"github.com/joy095/salon/models/shop_models"
)

// Hairstyle is gallery content consumed read-only; it never enters the
// booking lifecycle.
type Hairstyle struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	ShopID string `json:"shop,omitempty"`
}

func (c *BackendClient) ListShops(ctx context.Context, token string) ([]shop_models.Shop, error) {
	var shops []shop_models.Shop
	if err := c.do(ctx, http.MethodGet, "/shop", token, nil, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

func (c *BackendClient) GetShop(ctx context.Context, token, shopID string) (*shop_models.Shop, error) {
	shop := &shop_models.Shop{}
	if err := c.do(ctx, http.MethodGet, "/shop/"+shopID, token, nil, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// MyShops is the owner-scoped listing.
func (c *BackendClient) MyShops(ctx context.Context, token string) ([]shop_models.Shop, error) {
	var shops []shop_models.Shop
	if err := c.do(ctx, http.MethodGet, "/shop/getMyShops", token, nil, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

func (c *BackendClient) DeleteShop(ctx context.Context, token, shopID string) error {
	return c.do(ctx, http.MethodDelete, "/shop/"+shopID, token, nil, nil)
}

// SetShopApproval updates the approval flag and returns the backend's record;
// callers must display the returned shop, never a locally flipped flag.
func (c *BackendClient) SetShopApproval(ctx context.Context, token, shopID string, approved bool) (*shop_models.Shop, error) {
	shop := &shop_models.Shop{}
	payload := map[string]bool{"approved": approved}
	if err := c.do(ctx, http.MethodPut, "/shop/"+shopID, token, payload, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (c *BackendClient) ListHairstyles(ctx context.Context, token string) ([]Hairstyle, error) {
	var styles []Hairstyle
	if err := c.do(ctx, http.MethodGet, "/hairstyle", token, nil, &styles); err != nil {
		return nil, err
	}
	return styles, nil
}

func (c *BackendClient) HairstylesByShop(ctx context.Context, token, shopID string) ([]Hairstyle, error) {
	var styles []Hairstyle
	if err := c.do(ctx, http.MethodGet, "/hairstyle/shop/"+shopID, token, nil, &styles); err != nil {
		return nil, err
	}
	return styles, nil
}
