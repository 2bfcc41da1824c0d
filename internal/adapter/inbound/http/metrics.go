package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the console.
// Pass to components that need to record metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveSessions  prometheus.GaugeFunc
	LoginsTotal     *prometheus.CounterVec
	AuthRejections  *prometheus.CounterVec
}

// SessionCounter reports the current number of live sessions.
type SessionCounter interface {
	Size() int
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer, sessions SessionCounter) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "console",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "status"}, // status=ok/error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "console",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ActiveSessions: promauto.With(reg).NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "console",
				Name:      "active_sessions",
				Help:      "Number of live console sessions",
			},
			func() float64 {
				if sessions == nil {
					return 0
				}
				return float64(sessions.Size())
			},
		),
		LoginsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "console",
				Name:      "logins_total",
				Help:      "Total login attempts",
			},
			[]string{"result"}, // result=success/failure
		),
		AuthRejections: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "console",
				Name:      "auth_rejections_total",
				Help:      "Requests rejected by the authentication gate",
			},
			[]string{"reason"}, // reason=missing/invalid
		),
	}
}
