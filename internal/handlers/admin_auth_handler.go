package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vinesrealty/leadsecure-backend/internal/metrics"
	"github.com/vinesrealty/leadsecure-backend/internal/models"
	"github.com/vinesrealty/leadsecure-backend/internal/services"
	"github.com/vinesrealty/leadsecure-backend/pkg/jwt"
)

// AdminAuthHandler handles admin passcode HTTP requests
type AdminAuthHandler struct {
	authService *services.AdminAuthService
	jwtService  *jwt.Service // nil when session tokens are not configured
	logger      *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(authService *services.AdminAuthService, jwtService *jwt.Service, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		authService: authService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// ValidatePasscode checks a candidate passcode. When valid and session
// tokens are configured, the response also carries a Bearer token for the
// admin routes.
func (h *AdminAuthHandler) ValidatePasscode(c *gin.Context) {
	var req models.ValidatePasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	valid, err := h.authService.ValidatePasscode(req.Passcode)
	if err != nil {
		h.logger.WithError(err).Error("Passcode validation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := gin.H{"valid": valid}
	if valid && h.jwtService != nil {
		token, err := h.jwtService.GenerateSessionToken()
		if err != nil {
			h.logger.WithError(err).Error("Failed to mint session token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		resp["token"] = token
	}

	c.JSON(http.StatusOK, resp)
}

// ChangePasscode replaces the admin passcode after verifying the current one
func (h *AdminAuthHandler) ChangePasscode(c *gin.Context) {
	var req models.ChangePasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.authService.ChangePasscode(req.OldPasscode, req.NewPasscode); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing passcode fields"})
		case errors.Is(err, services.ErrInvalidPasscode):
			h.logger.WithField("ip", c.ClientIP()).Warn("Passcode change rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid current passcode"})
		default:
			h.logger.WithError(err).Error("Passcode change failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Passcode changed successfully"})
}

// RequestRecovery issues a fresh recovery token
func (h *AdminAuthHandler) RequestRecovery(c *gin.Context) {
	token, _, err := h.authService.RequestRecovery()
	if err != nil {
		h.logger.WithError(err).Error("Recovery token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	metrics.RecoveryRequests.Inc()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"expires": fmt.Sprintf("%d minutes", int(h.authService.TokenTTL().Minutes())),
	})
}

// ResetPasscode consumes a recovery token and replaces the passcode
func (h *AdminAuthHandler) ResetPasscode(c *gin.Context) {
	var req models.ResetPasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.authService.ResetPasscode(req.Token, req.NewPasscode); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token or new passcode"})
		case errors.Is(err, services.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		default:
			h.logger.WithError(err).Error("Passcode reset failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Passcode reset successful"})
}
