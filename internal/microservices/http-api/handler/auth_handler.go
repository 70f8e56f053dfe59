package handler

import (
	"context"
	"net/http"

	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts the token endpoints under /api/token.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, opts RouteOptions) {
	token := rg.Group("/api/token", opts.throttle())
	{
		token.POST("/", h.Obtain)
		token.POST("/refresh/", h.Refresh)
		token.POST("/verify/", h.Verify)
		token.POST("/revoke/", h.Revoke)
	}
}

// Obtain exchanges username and password for a token pair
// POST /api/token/
func (h *AuthHandler) Obtain(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	payload, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	req, err := dto.BindTokenObtain(payload)
	if err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.authService.Obtain(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh rotates the refresh token; the old one stops working
// POST /api/token/refresh/
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	refresh, ok := h.bindToken(c, "refresh")
	if !ok {
		return
	}

	pair, err := h.authService.Refresh(ctx, refresh)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Verify checks an access token
// POST /api/token/verify/
func (h *AuthHandler) Verify(c *gin.Context) {
	token, ok := h.bindToken(c, "token")
	if !ok {
		return
	}

	if err := h.authService.Verify(token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// Revoke answers 200 whether or not the token existed
// POST /api/token/revoke/
func (h *AuthHandler) Revoke(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	refresh, ok := h.bindToken(c, "refresh")
	if !ok {
		return
	}

	if err := h.authService.Revoke(ctx, refresh); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *AuthHandler) bindToken(c *gin.Context, field string) (string, bool) {
	payload, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	token, err := dto.BindToken(payload, field)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return token, true
}
