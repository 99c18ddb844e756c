package handlers

import (
	"net/http"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles wallet sign-in requests
type AuthHandler struct {
	authService services.Authenticator
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Challenge handles POST /auth/challenge
func (h *AuthHandler) Challenge(c *gin.Context) {
	var req models.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr, err := utils.ParseAddress(req.Address)
	if err != nil {
		respondError(c, err)
		return
	}

	challenge, err := h.authService.Challenge(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// Token handles POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr, err := utils.ParseAddress(req.Address)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expires, err := h.authService.Token(c.Request.Context(), addr, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token, Address: addr.Hex(), ExpiresAt: expires})
}
