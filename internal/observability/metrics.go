package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

// Pinger is the health probe the Redis collector polls.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Metrics owns a dedicated registry so tests and multiple App instances never
// collide on the process-global one.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	comparisons       *prometheus.CounterVec
	comparisonLatency prometheus.Histogram

	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge

	scrapeInterval time.Duration
}

type MetricsConfig struct {
	Namespace      string
	ScrapeInterval time.Duration
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	ns := cfg.Namespace
	if ns == "" {
		ns = "censusgap"
	}
	interval := cfg.ScrapeInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "api_requests_total",
			Help:      "Total API requests by method, route, status and token kind of the caller.",
		}, []string{"method", "route", "status", "caller"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds by method/route/status.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "api_inflight_requests",
			Help:      "In-flight API requests.",
		}),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "comparisons_total",
			Help:      "Comparison requests by outcome.",
		}, []string{"outcome"}),
		comparisonLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "comparison_duration_seconds",
			Help:      "Time spent building a comparison, record lookups included.",
			Buckets:   prometheus.DefBuckets,
		}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "redis_up",
			Help:      "Whether the last denylist ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "redis_ping_seconds",
			Help:      "Latency of the last denylist ping.",
		}),
		scrapeInterval: interval,
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.comparisons,
		m.comparisonLatency,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// APIObservation is one finished HTTP request. Caller is the token kind that
// authenticated it, or "anonymous".
type APIObservation struct {
	Method   string
	Route    string
	Status   string
	Caller   string
	Duration time.Duration
}

func (m *Metrics) ObserveAPI(o APIObservation) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(o.Method, o.Route, o.Status, o.Caller).Inc()
	m.apiLatency.WithLabelValues(o.Method, o.Route, o.Status).Observe(o.Duration.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveComparison records one comparison outcome, e.g. "ok", "not_found"
// or "age_too_low".
func (m *Metrics) ObserveComparison(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.comparisons.WithLabelValues(outcome).Inc()
	m.comparisonLatency.Observe(dur.Seconds())
}

// RegisterDBStats exports connection pool stats of the gorm handle.
func (m *Metrics) RegisterDBStats(log *logger.Logger, db *gorm.DB, name string) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	if err := m.registry.Register(collectors.NewDBStatsCollector(sqlDB, name)); err != nil && log != nil {
		log.Warn("metrics: register db stats failed", "error", err)
	}
}

// StartRedisCollector pings p on the scrape interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, p Pinger) {
	if m == nil || p == nil {
		return
	}
	if err := m.registry.Register(m.redisUp); err != nil {
		return
	}
	_ = m.registry.Register(m.redisPing)
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := p.Ping(ctx); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
