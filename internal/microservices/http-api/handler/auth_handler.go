package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	msgSignedUp = "user registered, a confirmation code was sent to your email; you will need it to get a token"
	msgCodeSent = "a new confirmation code was sent to your email"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/confirmation_code", h.RefreshCode)
		auth.POST("/token", h.Token)
	}
}

// Signup registers a user and mails a confirmation code
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignupResponse{
		Username: user.Username,
		Email:    user.Email,
		Message:  msgSignedUp,
	})
}

// RefreshCode mails a new confirmation code
// POST /api/v1/auth/confirmation_code
func (h *AuthHandler) RefreshCode(c *gin.Context) {
	var req dto.ConfirmationCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.RefreshCode(c.Request.Context(), req.Username, req.Email); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgCodeSent})
}

// Token exchanges a confirmation code for an access token
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.Exchange(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
