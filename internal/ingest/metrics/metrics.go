package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ingestion pipeline.
type Metrics struct {
	Uploads            prometheus.Counter
	PersonVerdicts     prometheus.Counter
	ClassifierFailures prometheus.Counter
	UnboundDetections  prometheus.Counter
	ClassifyDuration   prometheus.Histogram
	StoreDuration      prometheus.Histogram
}

// New creates a new Metrics instance with all ingestion metrics registered.
func New() *Metrics {
	return &Metrics{
		Uploads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_uploads_total",
			Help: "Total number of accepted image uploads",
		}),
		PersonVerdicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_person_verdicts_total",
			Help: "Total number of uploads classified as containing a person",
		}),
		ClassifierFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_classifier_failures_total",
			Help: "Total number of classifier adapter failures",
		}),
		UnboundDetections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "secureeye_unbound_detections_total",
			Help: "Total number of person detections on devices with no binding",
		}),
		ClassifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "secureeye_classify_duration_seconds",
			Help:    "Duration of classifier inference calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StoreDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "secureeye_image_store_duration_seconds",
			Help:    "Duration of image storage puts",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementUploads records an accepted upload. Safe on a nil receiver so
// tests can pass a nil Metrics.
func (m *Metrics) IncrementUploads() {
	if m == nil {
		return
	}
	m.Uploads.Inc()
}

// IncrementPersonVerdicts records a positive classification.
func (m *Metrics) IncrementPersonVerdicts() {
	if m == nil {
		return
	}
	m.PersonVerdicts.Inc()
}

// IncrementClassifierFailures records a classifier adapter failure.
func (m *Metrics) IncrementClassifierFailures() {
	if m == nil {
		return
	}
	m.ClassifierFailures.Inc()
}

// IncrementUnboundDetections records a detection with no bound recipient.
func (m *Metrics) IncrementUnboundDetections() {
	if m == nil {
		return
	}
	m.UnboundDetections.Inc()
}

// ObserveClassify records the duration of one inference call.
func (m *Metrics) ObserveClassify(start time.Time) {
	if m == nil {
		return
	}
	m.ClassifyDuration.Observe(time.Since(start).Seconds())
}

// ObserveStore records the duration of one storage put.
func (m *Metrics) ObserveStore(start time.Time) {
	if m == nil {
		return
	}
	m.StoreDuration.Observe(time.Since(start).Seconds())
}
