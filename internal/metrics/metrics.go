package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	OutcomeStored  = "stored"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

var (
	requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_ingest_requests_total",
		Help: "Ingest requests by outcome",
	}, []string{"outcome"})

	eventsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_ingest_events_total",
		Help: "Events written to storage",
	})

	uploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "event_ingest_upload_duration_seconds",
		Help:    "Time spent writing the events object",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveOutcome counts one ingest request by outcome.
func ObserveOutcome(outcome string) {
	requestsCounter.WithLabelValues(outcome).Inc()
}

// AddEvents adds n stored events.
func AddEvents(n int) {
	eventsCounter.Add(float64(n))
}

// ObserveUpload records how long a storage write took.
func ObserveUpload(d time.Duration) {
	uploadDuration.Observe(d.Seconds())
}
