package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration flow.
type Metrics struct {
	Registrations  prometheus.Counter
	DecodeMisses   prometheus.Counter
	DecodeFailures prometheus.Counter
}

// New creates a new Metrics instance with all registration metrics registered.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_registrations_total",
			Help: "Total number of successful device registrations",
		}),
		DecodeMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_registration_decode_misses_total",
			Help: "Total number of registration photos with no readable QR code",
		}),
		DecodeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_registration_decode_failures_total",
			Help: "Total number of QR decoder adapter failures",
		}),
	}
}

// IncrementRegistrations records a successful registration. Safe on a nil
// receiver so tests can pass a nil Metrics.
func (m *Metrics) IncrementRegistrations() {
	if m == nil {
		return
	}
	m.Registrations.Inc()
}

// IncrementDecodeMisses records a photo without a readable code.
func (m *Metrics) IncrementDecodeMisses() {
	if m == nil {
		return
	}
	m.DecodeMisses.Inc()
}

// IncrementDecodeFailures records a decoder adapter failure.
func (m *Metrics) IncrementDecodeFailures() {
	if m == nil {
		return
	}
	m.DecodeFailures.Inc()
}
