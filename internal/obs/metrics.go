package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the backend's chat counters.
type Metrics struct {
	MessagesPersisted *prometheus.CounterVec
	DuplicateSends    *prometheus.CounterVec
	LiveConnections   prometheus.Gauge
	ReadMarks         prometheus.Counter
}

// NewMetrics registers the chat metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nearbuy",
			Subsystem: "chat",
			Name:      "messages_persisted_total",
			Help:      "Messages written to storage, by the path that created them.",
		}, []string{"path"}),
		DuplicateSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nearbuy",
			Subsystem: "chat",
			Name:      "duplicate_sends_total",
			Help:      "Sends collapsed onto an existing message by client_msg_id.",
		}, []string{"path"}),
		LiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nearbuy",
			Subsystem: "chat",
			Name:      "live_connections",
			Help:      "Open websocket connections.",
		}),
		ReadMarks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nearbuy",
			Subsystem: "chat",
			Name:      "messages_marked_read_total",
			Help:      "Messages marked read through the durable call.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.MessagesPersisted, m.DuplicateSends, m.LiveConnections, m.ReadMarks)
	}
	return m
}

// ObservePersist records the outcome of an idempotent message write.
func (m *Metrics) ObservePersist(path string, created bool) {
	if m == nil {
		return
	}
	if created {
		m.MessagesPersisted.WithLabelValues(path).Inc()
		return
	}
	m.DuplicateSends.WithLabelValues(path).Inc()
}

// ObserveReadMarks counts messages stamped read by one mark-read call.
func (m *Metrics) ObserveReadMarks(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.ReadMarks.Add(float64(n))
}

// ConnectionOpened and ConnectionClosed track open websocket connections.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.LiveConnections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.LiveConnections.Dec()
}
