package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 接入链路的运行指标
type Metrics struct {
	ReadingsTotal prometheus.Counter
	AlertsTotal   *prometheus.CounterVec
	CommandsTotal *prometheus.CounterVec
	HealthScore   prometheus.Gauge
	WebhookErrors prometheus.Counter
	registry      *prometheus.Registry
}

// New 创建并注册全部指标
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		ReadingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "greenhouse_readings_total",
			Help: "Total number of sensor readings ingested",
		}),
		AlertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "greenhouse_alerts_total",
			Help: "Total number of alerts produced, by level",
		}, []string{"level"}),
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "greenhouse_commands_total",
			Help: "Total number of device commands applied, by device type and action",
		}, []string{"device_type", "action"}),
		HealthScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "greenhouse_health_score",
			Help: "Health score of the most recent evaluation (0-100)",
		}),
		WebhookErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "greenhouse_webhook_errors_total",
			Help: "Total number of failed alert webhook deliveries",
		}),
		registry: registry,
	}
}

// Handler 暴露 /metrics 的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
