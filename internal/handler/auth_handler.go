package handler

import (
	"net/http"

	"github.com/Baaaki/content-square/internal/response"
	"github.com/Baaaki/content-square/internal/service"
	"github.com/Baaaki/content-square/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefreshHeader carries the token to refresh, outside the bearer scheme
const RefreshHeader = "token"

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and returns its token
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	pair, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, pair, "")
}

// Login exchanges credentials for a token
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, pair, "")
}

// Refresh reissues the token found in the "token" header
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := c.GetHeader(RefreshHeader)
	if token == "" {
		logger.Log.Warn("Token refresh without token header",
			zap.String("ip", c.ClientIP()),
		)
		response.Abort(c, http.StatusBadRequest, "token header is required")
		return
	}

	pair, err := h.authService.Refresh(token)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, pair, "")
}
