package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the notification path.
type Metrics struct {
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
}

// New creates a new Metrics instance with all notifier metrics registered.
func New() *Metrics {
	return &Metrics{
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_notifications_sent_total",
			Help: "Total number of notifications delivered to the transport",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_notifications_failed_total",
			Help: "Total number of notification sends that failed",
		}),
	}
}

// IncrementSent records a successful delivery. Safe on a nil receiver so
// tests can pass a nil Metrics.
func (m *Metrics) IncrementSent() {
	if m == nil {
		return
	}
	m.NotificationsSent.Inc()
}

// IncrementFailed records a failed delivery.
func (m *Metrics) IncrementFailed() {
	if m == nil {
		return
	}
	m.NotificationsFailed.Inc()
}
