package user_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/session"
)

// UserController proxies the session-lifecycle endpoints of the backend
// collaborator and keeps the local session store in step with them.
type UserController struct {
	Backend  *clients.BackendClient
	Sessions session.Store
}

func NewUserController(backend *clients.BackendClient, sessions session.Store) *UserController {
	return &UserController{Backend: backend, Sessions: sessions}
}

// Login authenticates against the backend and persists the {token, identity}
// pair so the guard can hydrate it on later requests.
func (uc *UserController) Login(c *gin.Context) {
	var req clients.LoginPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	ctx := c.Request.Context()
	result, err := uc.Backend.Login(ctx, req)
	if err != nil {
		if apiErr, ok := err.(*clients.APIError); ok && apiErr.StatusCode == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Login failed."})
		return
	}

	if err := uc.Sessions.Login(ctx, result.User, result.Token); err != nil {
		logger.ErrorLogger.Errorf("Failed to persist session for %s: %v", result.User.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session."})
		return
	}

	logger.InfoLogger.Infof("User %s logged in (%s)", result.User.ID, result.User.Role)
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "user": result.User})
}

// Logout clears all persisted session state unconditionally and points the
// caller back at the login view.
func (uc *UserController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 {
		token := authHeader[7:]
		if err := uc.Sessions.Logout(c.Request.Context(), token); err != nil {
			logger.ErrorLogger.Errorf("Logout cleanup failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out.", "redirect": "/login"})
}

func (uc *UserController) Register(c *gin.Context) {
	var req clients.RegisterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, password and role are required."})
		return
	}

	identity, err := uc.Backend.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Registration failed."})
		return
	}
	c.JSON(http.StatusCreated, identity)
}

func (uc *UserController) Verify(c *gin.Context) {
	var req clients.VerifyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and code are required."})
		return
	}

	if err := uc.Backend.Verify(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Verification failed."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verified."})
}
