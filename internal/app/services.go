package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/censusgap-backend/internal/census"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
	"github.com/yungbote/censusgap-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Record     services.RecordService
	Comparison services.ComparisonService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var opts []census.Option
	if cfg.SequentialFetch {
		opts = append(opts, census.WithSequentialFetch())
	}

	return Services{
		Auth:       services.NewAuthService(log, repos.User, clients.Denylist, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:       services.NewUserService(db, log, repos.User),
		Record:     services.NewRecordService(db, log, repos.Record),
		Comparison: services.NewComparisonService(log, repos.Record, opts...),
	}
}
