package delivery

import (
	"net/http"

	authdto "examprep-backend/internal/auth/dto"
	"examprep-backend/internal/auth/usecase"
	"examprep-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles /auth requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register creates an account
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "Registration successful", resp)
}

// Login exchanges credentials for a token pair
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Login successful", resp)
}

// RefreshToken issues a new pair from a refresh token
// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	// an unreadable body is treated as a missing token
	_ = c.ShouldBindJSON(&req)

	pair, err := h.authUsecase.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Token refreshed successfully", pair)
}

// Logout acknowledges the client dropping its tokens
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Logged out successfully", nil)
}

// GetProfile returns the caller's account
// GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	identity, _ := Identity(c)

	profile, err := h.authUsecase.GetProfile(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// RegisterRoutes mounts the /auth endpoints. limiter guards register and login.
func (h *AuthHandler) RegisterRoutes(r gin.IRouter, verifier AccessVerifier, limiter gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", limiter, h.Register)
		auth.POST("/login", limiter, h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", AuthMiddleware(verifier), h.Logout)
		auth.GET("/profile", AuthMiddleware(verifier), h.GetProfile)
	}
}
