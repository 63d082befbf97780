package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the sync core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	eventsReceived *prometheus.CounterVec
	reconnects     *prometheus.CounterVec
	refreshes      *prometheus.CounterVec
	polls          *prometheus.CounterVec
	uploadBatches  *prometheus.CounterVec
	apiDuration    *prometheus.HistogramVec
	channelUp      prometheus.Gauge
}

// New registers all collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		eventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_events_received_total",
			Help: "Push events received, by event name",
		}, []string{"event"}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_channel_reconnects_total",
			Help: "Push channel reconnect attempts, by outcome",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_material_refreshes_total",
			Help: "Full material list refreshes, by trigger",
		}, []string{"trigger"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_polls_total",
			Help: "Fallback polls, by kind and outcome",
		}, []string{"kind", "outcome"}),
		uploadBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_upload_batches_total",
			Help: "Upload batches, by final phase",
		}, []string{"phase"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "desk_api_request_duration_seconds",
			Help:    "Duration of backend REST calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
		channelUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "desk_channel_connected",
			Help: "1 while the push channel is connected",
		}),
	}

	registry.MustRegister(
		m.eventsReceived,
		m.reconnects,
		m.refreshes,
		m.polls,
		m.uploadBatches,
		m.apiDuration,
		m.channelUp,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) EventReceived(event string) {
	if m == nil {
		return
	}
	m.eventsReceived.WithLabelValues(event).Inc()
}

func (m *Metrics) Reconnect(ok bool) {
	if m == nil {
		return
	}
	m.reconnects.WithLabelValues(outcome(ok)).Inc()
}

func (m *Metrics) ChannelConnected(up bool) {
	if m == nil {
		return
	}
	if up {
		m.channelUp.Set(1)
		return
	}
	m.channelUp.Set(0)
}

func (m *Metrics) Refresh(trigger string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(trigger).Inc()
}

func (m *Metrics) Poll(kind string, ok bool) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(kind, outcome(ok)).Inc()
}

func (m *Metrics) UploadFinished(phase string) {
	if m == nil {
		return
	}
	m.uploadBatches.WithLabelValues(phase).Inc()
}

func (m *Metrics) ObserveAPI(method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiDuration.WithLabelValues(method, status).Observe(d.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
