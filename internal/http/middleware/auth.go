package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/censusgap-backend/internal/http/response"
	"github.com/yungbote/censusgap-backend/internal/platform/ctxutil"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
	"github.com/yungbote/censusgap-backend/internal/services"
)

var errMissingToken = errors.New("missing or invalid token")

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth admits requests carrying a valid bearer token of the given kind
// and attaches the caller to the request context.
func (am *AuthMiddleware) RequireAuth(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.RespondErrorStatus(c, http.StatusUnauthorized, errMissingToken)
			return
		}
		rd, err := am.authService.ParseToken(c.Request.Context(), tokenString, kind)
		if err != nil {
			am.log.Debug("Token rejected", "kind", kind, "error", err)
			response.RespondError(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
