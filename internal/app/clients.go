package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/censusgap-backend/internal/clients/redis"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
	"github.com/yungbote/censusgap-backend/internal/services"
)

type Clients struct {
	// RedisDenylist is nil when REDIS_ADDR is unset.
	RedisDenylist *redis.Denylist
	Denylist      services.TokenDenylist
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		log.Warn("REDIS_ADDR not set; token revocations are kept in process memory")
		return Clients{Denylist: services.NewMemoryDenylist()}, nil
	}
	dl, err := redis.NewDenylist(ctx, log, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.DenylistPrefix,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis denylist: %w", err)
	}
	return Clients{RedisDenylist: dl, Denylist: dl}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.RedisDenylist != nil {
		_ = c.RedisDenylist.Close()
	}
}
