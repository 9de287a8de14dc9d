// Package metrics регистрирует метрики prometheus панели.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик панели.
type Metrics struct {
	BackendRequests *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	GuardDecisions  *prometheus.CounterVec
	Registry        *prometheus.Registry
}

// New создает и регистрирует метрики в собственном реестре.
func New() *Metrics {
	m := &Metrics{
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "panel",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Запросы панели к REST API бэкенда.",
		}, []string{"code", "method"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "panel",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Длительность запросов к REST API бэкенда.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
		GuardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "panel",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Решения защитников маршрутов.",
		}, []string{"policy", "outcome"}),
		Registry: prometheus.NewRegistry(),
	}
	m.Registry.MustRegister(
		m.BackendRequests,
		m.BackendDuration,
		m.GuardDecisions,
		prometheus.NewGoCollector(),
	)
	return m
}

// InstrumentTransport оборачивает транспорт HTTP-клиента счетчиком и гистограммой.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.BackendRequests,
		promhttp.InstrumentRoundTripperDuration(m.BackendDuration, next))
}

// Handler отдает метрики в формате prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
