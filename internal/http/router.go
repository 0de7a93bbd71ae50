package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/censusgap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/censusgap-backend/internal/http/middleware"
	"github.com/yungbote/censusgap-backend/internal/observability"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
	"github.com/yungbote/censusgap-backend/internal/services"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	UserHandler       *httpH.UserHandler
	RecordHandler     *httpH.RecordHandler
	ComparisonHandler *httpH.ComparisonHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Public
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
		}
		if cfg.AuthHandler != nil {
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	refresh := api.Group("/auth")
	refresh.Use(cfg.AuthMiddleware.RequireAuth(services.TokenKindRefresh))
	{
		if cfg.AuthHandler != nil {
			refresh.POST("/refresh", cfg.AuthHandler.Refresh)
			refresh.POST("/revoke-refresh", cfg.AuthHandler.RevokeRefresh)
		}
	}

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireAuth(services.TokenKindAccess))
	{
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			protected.POST("/users/:id/delete", cfg.UserHandler.Delete)
		}
		if cfg.RecordHandler != nil {
			protected.GET("/records/:id", cfg.RecordHandler.Get)
			protected.POST("/records", cfg.RecordHandler.Create)
		}
		if cfg.ComparisonHandler != nil {
			protected.POST("/comparisons", cfg.ComparisonHandler.Compare)
		}
	}

	return r
}
