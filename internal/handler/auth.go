package handler

import (
	"net/http"

	"socialposts/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler interface {
	Login(c *gin.Context)
	Refresh(c *gin.Context)
}

type authHandler struct {
	users  service.UserService
	tokens service.TokenService
	logger *zap.Logger
}

func NewAuthHandler(users service.UserService, tokens service.TokenService, logger *zap.Logger) AuthHandler {
	return &authHandler{users: users, tokens: tokens, logger: logger}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries a token pair back to the client.
type TokenResponse struct {
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Success      bool   `json:"success"`
}

// Login handles POST /users/login.
func (h *authHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.users.Authenticate(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, TokenResponse{Success: false})
		return
	}

	pair, err := h.issuePair(req.Username)
	if err != nil {
		h.logger.Error("Failed to issue tokens", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh handles POST /users/refresh-token. A valid refresh token yields a
// brand new access/refresh pair.
func (h *authHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.tokens.Validate(req.RefreshToken) {
		c.JSON(http.StatusUnauthorized, TokenResponse{Success: false})
		return
	}

	subject, err := h.tokens.Subject(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, TokenResponse{Success: false})
		return
	}

	pair, err := h.issuePair(subject)
	if err != nil {
		h.logger.Error("Failed to issue tokens", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh token"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *authHandler) issuePair(subject string) (TokenResponse, error) {
	token, err := h.tokens.IssueAccessToken(subject)
	if err != nil {
		return TokenResponse{}, err
	}
	refreshToken, err := h.tokens.IssueRefreshToken(subject)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{Token: token, RefreshToken: refreshToken, Success: true}, nil
}
