package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/censusgap-backend/internal/http/response"
	"github.com/yungbote/censusgap-backend/internal/services"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	pair, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /api/auth/refresh (refresh token)
func (ah *AuthHandler) Refresh(c *gin.Context) {
	pair, err := ah.authService.Refresh(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"msg": "access token revoked"})
}

// POST /api/auth/revoke-refresh (refresh token)
func (ah *AuthHandler) RevokeRefresh(c *gin.Context) {
	if err := ah.authService.RevokeRefresh(c.Request.Context()); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"msg": "refresh token revoked"})
}
