// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/domain/user"
	"github.com/your-org/furniture-store/internal/pkg/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	store       *datastore.DataStore
	jwtManager  *auth.JWTManager
	revocations auth.RevocationStore
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store *datastore.DataStore, jwtManager *auth.JWTManager, revocations auth.RevocationStore, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		store:       store,
		jwtManager:  jwtManager,
		revocations: revocations,
		logger:      logger,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, err := h.store.Register(&req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	h.issueToken(c, http.StatusCreated, "Registration successful", u)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, err := h.store.Login(req.Username, req.Password)
	if err != nil {
		respondAppError(c, err)
		return
	}

	h.issueToken(c, http.StatusOK, "Login successful", u)
}

// Logout revokes the presented token. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
	if tokenString != "" && h.revocations != nil {
		if claims, err := h.jwtManager.ValidateToken(tokenString); err == nil {
			expiresAt := time.Now()
			if claims.ExpiresAt != nil {
				expiresAt = claims.ExpiresAt.Time
			}
			if err := h.revocations.Revoke(c.Request.Context(), claims.ID, expiresAt); err != nil {
				h.logger.WithError(err).WithField("user_id", claims.UserID).Warn("Failed to revoke token")
			}
		}
	}

	respondOK(c, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	u, err := h.store.User(userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "User retrieved successfully", u.Public())
}

// UpdateMe handles PUT /api/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	u, err := h.store.UpdateProfile(userID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Profile updated successfully", u.Public())
}

func (h *AuthHandler) issueToken(c *gin.Context, status int, message string, u *user.User) {
	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate access token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respond(c, status, message, gin.H{
		"token": token,
		"user":  u.Public(),
	})
}
