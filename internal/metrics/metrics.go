package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the verification workflow: submissions, review outcomes and
// the pending backlog.
type Metrics struct {
	RequestsCreated      prometheus.Counter
	Reviews              *prometheus.CounterVec
	PendingRequests      prometheus.Gauge
	StalePendingRequests prometheus.Gauge
	RequestsByStatus     *prometheus.GaugeVec
	ReviewDuration       prometheus.Histogram
}

// New registers all metrics against reg. Pass prometheus.NewRegistry() in
// tests so repeated construction does not panic on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "verification_requests_created_total",
			Help: "Total number of verification requests created",
		}),
		Reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verification_reviews_total",
			Help: "Review attempts by action (approve, reject) and outcome (success, invalid, forbidden, not_found, error)",
		}, []string{"action", "outcome"}),
		PendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "verification_pending_requests",
			Help: "Number of requests waiting for review at the last backlog check",
		}),
		StalePendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "verification_stale_pending_requests",
			Help: "Pending requests older than the configured stale threshold",
		}),
		RequestsByStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "verification_requests",
			Help: "Stored requests by status at the last backlog check",
		}, []string{"status"}),
		ReviewDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "verification_review_duration_seconds",
			Help:    "Duration of ReviewRequest operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRequestCreated records a newly persisted PENDING request.
func (m *Metrics) IncrementRequestCreated() {
	m.RequestsCreated.Inc()
}

// RecordReview counts one review attempt.
func (m *Metrics) RecordReview(action, outcome string) {
	m.Reviews.WithLabelValues(action, outcome).Inc()
}

// ObserveReview records the duration of a review.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveReview(start time.Time) {
	m.ReviewDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetBacklog(pending, stale int) {
	m.PendingRequests.Set(float64(pending))
	m.StalePendingRequests.Set(float64(stale))
}

// SetStatusCounts publishes the request count for each status.
func (m *Metrics) SetStatusCounts(counts map[string]int64) {
	for status, n := range counts {
		m.RequestsByStatus.WithLabelValues(status).Set(float64(n))
	}
}
