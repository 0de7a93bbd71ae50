package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

// Denylist stores revoked token ids as expiring Redis keys, so revocations
// are shared across instances and vanish when the token would have expired.
type Denylist struct {
	log    *logger.Logger
	rdb    goredis.Cmdable
	closer func() error
	prefix string
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewDenylist(ctx context.Context, log *logger.Logger, cfg Config) (*Denylist, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	d := NewDenylistWithClient(log, rdb, cfg.Prefix)
	d.closer = rdb.Close
	return d, nil
}

// NewDenylistWithClient wraps an existing client; the caller keeps ownership.
func NewDenylistWithClient(log *logger.Logger, rdb goredis.Cmdable, prefix string) *Denylist {
	if prefix == "" {
		prefix = "denylist:"
	}
	return &Denylist{
		log:    log.With("service", "RedisDenylist"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (d *Denylist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if d == nil || d.rdb == nil {
		return fmt.Errorf("redis denylist not initialized")
	}
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, d.prefix+jti, 1, ttl).Err()
}

func (d *Denylist) Contains(ctx context.Context, jti string) (bool, error) {
	if d == nil || d.rdb == nil {
		return false, fmt.Errorf("redis denylist not initialized")
	}
	n, err := d.rdb.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *Denylist) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	return d.closer()
}

func (d *Denylist) Ping(ctx context.Context) error {
	if d == nil || d.rdb == nil {
		return fmt.Errorf("redis denylist not initialized")
	}
	return d.rdb.Ping(ctx).Err()
}
