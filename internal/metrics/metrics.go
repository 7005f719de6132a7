package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeCreated = "created"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Form labels.
const (
	FormBetaSignup      = "beta_signup"
	FormDeletionRequest = "data_deletion_request"
)

var (
	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_form_submissions_total",
			Help: "Form submissions received, by form and outcome",
		},
		[]string{"form", "outcome"},
	)

	StoreWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "site_store_write_duration_seconds",
			Help:    "Duration of document store writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_notification_failures_total",
			Help: "Notifications that could not be delivered",
		},
		[]string{"kind"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "site_submit_rate_limited_total",
			Help: "Form submissions rejected by the rate limiter",
		},
	)
)

// ObserveWrite records the time since start against collection.
func ObserveWrite(collection string, start time.Time) {
	StoreWriteDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
}
