package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/services/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(s *auth.Service) *AuthHandler {
	return &AuthHandler{service: s}
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"username":       u.Username,
		"email":          u.Email,
		"is_admin":       u.IsAdmin,
		"email_verified": u.EmailVerified,
		"created_at":     u.CreatedAt.Format(time.RFC3339),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, err := h.service.Register(payload.Username, payload.Email, payload.Password, payload.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Please check your email to verify your account.",
		"user":    userJSON(user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var payload struct {
		Username           string `json:"username"`
		Password           string `json:"password"`
		RememberMe         bool   `json:"remember_me"`
		IgnoreVerification bool   `json:"ignore_verification"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Username == "" || payload.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	session, err := h.service.Login(payload.Username, payload.Password, payload.RememberMe, payload.IgnoreVerification)
	if errors.Is(err, auth.ErrEmailNotVerified) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":                 "Email not verified",
			"requires_verification": true,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      session.Token,
		"user":       userJSON(session.User),
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.service.VerifyEmail(c.Param("token")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var payload struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}
	if err := h.service.ResendVerification(payload.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent successfully"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.service.ForgotPassword(payload.Email); err != nil {
		respondError(c, err)
		return
	}
	// Identical response whether or not the email is registered.
	c.JSON(http.StatusOK, gin.H{"message": "If your email is registered, you will receive a password reset link"})
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": h.service.VerifyResetToken(c.Param("token"))})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var payload struct {
		Password string `json:"password"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.service.ResetPassword(c.Param("token"), payload.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing or invalid"})
		return
	}
	user, err := h.service.GetUser(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}

const claimsKey = "auth_claims"

// RequireAuth validates the bearer token and stashes its claims on the
// request context.
func (h *AuthHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing or invalid"})
			return
		}
		claims, err := h.service.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func currentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
