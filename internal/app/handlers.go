package app

import (
	"github.com/gin-gonic/gin"

	httpapi "github.com/yungbote/censusgap-backend/internal/http"
	httpH "github.com/yungbote/censusgap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/censusgap-backend/internal/http/middleware"
	"github.com/yungbote/censusgap-backend/internal/observability"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Record     *httpH.RecordHandler
	Comparison *httpH.ComparisonHandler
}

func wireHandlers(log *logger.Logger, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(services.Auth),
		User:       httpH.NewUserHandler(services.User),
		Record:     httpH.NewRecordHandler(services.Record),
		Comparison: httpH.NewComparisonHandler(services.Comparison, metrics),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpapi.NewRouter(httpapi.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		RecordHandler:     handlers.Record,
		ComparisonHandler: handlers.Comparison,
	})
}
