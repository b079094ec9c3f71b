package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/auth"
)

// AuthHandler serves the OTP login endpoints.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// RequestOTP mails a one-time code to the operator.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req models.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.svc.RequestOTP(c.Request.Context(), req.Email); err != nil {
		h.logger.Error("otp request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"message": "unable to send login code"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "login code sent"})
}

// VerifyOTP exchanges a valid code for a bearer token.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token, expiresAt, err := h.svc.VerifyOTP(req.Email, req.Code)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidOTP) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired code"})
			return
		}
		h.logger.Error("otp verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token, ExpiresAt: expiresAt})
}
