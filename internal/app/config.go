package app

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yungbote/censusgap-backend/internal/observability"
)

type PostgresConfig struct {
	DSN      string `env:"POSTGRES_DSN"`
	Host     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	User     string `env:"POSTGRES_USER"     envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_NAME"     envDefault:"census"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  envDefault:"disable"`

	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS"    envDefault:"20"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// ConnString returns DSN when set, otherwise a URL built from the parts.
func (p PostgresConfig) ConnString() string {
	if dsn := strings.TrimSpace(p.DSN); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Addr           string `env:"REDIS_ADDR"`
	Password       string `env:"REDIS_PASSWORD"`
	DB             int    `env:"REDIS_DB"               envDefault:"0"`
	DenylistPrefix string `env:"REDIS_DENYLIST_PREFIX"  envDefault:"censusgap:denylist:"`
}

type OtelConfig struct {
	Enabled     bool    `env:"OTEL_ENABLED"                envDefault:"false"`
	ServiceName string  `env:"OTEL_SERVICE_NAME"           envDefault:"censusgap"`
	Environment string  `env:"OTEL_ENVIRONMENT"            envDefault:"development"`
	Version     string  `env:"SERVICE_VERSION"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	SampleRatio float64 `env:"OTEL_SAMPLER_RATIO"          envDefault:"0.1"`
}

func (o OtelConfig) Observability() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     o.Enabled,
		ServiceName: o.ServiceName,
		Environment: o.Environment,
		Version:     o.Version,
		Endpoint:    o.Endpoint,
		Headers:     observability.ParseHeaders(o.Headers),
		Insecure:    o.Insecure,
		SampleRatio: o.SampleRatio,
	}
}

type Config struct {
	Port    string `env:"PORT"     envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Otel     OtelConfig

	JWTSecretKey    string        `env:"JWT_SECRET_KEY,notEmpty"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"1h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	MetricsEnabled        bool          `env:"METRICS_ENABLED"                 envDefault:"false"`
	MetricsScrapeInterval time.Duration `env:"METRICS_SCRAPE_INTERVAL"         envDefault:"10s"`
	SequentialFetch       bool          `env:"COMPARISON_SEQUENTIAL_FETCH"     envDefault:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL (%s) is shorter than ACCESS_TOKEN_TTL (%s)", c.RefreshTokenTTL, c.AccessTokenTTL)
	}
	return nil
}
