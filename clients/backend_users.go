package clients

import (
	"context"
	"net/http"

	"github.com/joy095/salon/models/user_models"
)

// LoginPayload is forwarded to the backend session collaborator.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend's login response: a bearer token plus the
// identity record that gets persisted next to it.
type LoginResult struct {
	Token string               `json:"token"`
	User  user_models.Identity `json:"user"`
}

type RegisterPayload struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     user_models.Role `json:"role"`
}

type VerifyPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (c *BackendClient) Login(ctx context.Context, payload LoginPayload) (*LoginResult, error) {
	result := &LoginResult{}
	if err := c.do(ctx, http.MethodPost, "/user/login", "", payload, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *BackendClient) Register(ctx context.Context, payload RegisterPayload) (*user_models.Identity, error) {
	identity := &user_models.Identity{}
	if err := c.do(ctx, http.MethodPost, "/user/register", "", payload, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (c *BackendClient) Verify(ctx context.Context, payload VerifyPayload) error {
	return c.do(ctx, http.MethodPost, "/user/verify", "", payload, nil)
}

// ListUsers backs dashboard counts and the signup feed. Callers treat a
// failure as an empty result (best-effort secondary read).
func (c *BackendClient) ListUsers(ctx context.Context, token string) ([]user_models.Identity, error) {
	var users []user_models.Identity
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
