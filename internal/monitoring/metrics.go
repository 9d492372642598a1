package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Métriques Prometheus du service Battle
var (
	BattlesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_battles_total",
			Help: "Total number of battles created or ended",
		},
		[]string{"event"},
	)

	AttacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_attacks_total",
			Help: "Total number of attacks by pipeline phase",
		},
		[]string{"phase"},
	)

	StatusEffectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_status_effects_total",
			Help: "Total number of status effect applications by kind and action",
		},
		[]string{"kind", "action"},
	)

	PictoTriggersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_picto_triggers_total",
			Help: "Total number of picto rule evaluations by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Metrics structure pour gérer les métriques
type Metrics struct {
	registry *prometheus.Registry
}

// NewMetrics crée une nouvelle instance de metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(BattlesTotal)
	registry.MustRegister(AttacksTotal)
	registry.MustRegister(StatusEffectsTotal)
	registry.MustRegister(PictoTriggersTotal)
	registry.MustRegister(HTTPRequestsTotal)
	registry.MustRegister(HTTPRequestDuration)

	logrus.Info("Prometheus metrics initialized")

	return &Metrics{
		registry: registry,
	}
}

// Handler retourne le handler Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware Prometheus pour instrumenter les requêtes HTTP
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}
