package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's collectors. Build it once per registry.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	PaymentPreferences *prometheus.CounterVec
	PaymentDuration    prometheus.Histogram
	AvailabilityErrors *prometheus.CounterVec
	BookingsCreated    prometheus.Counter
	EventsPublished    *prometheus.CounterVec
}

func New(service string) *Metrics {
	return NewWithRegisterer(service, prometheus.DefaultRegisterer)
}

func NewWithRegisterer(service string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by route pattern and status code.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PaymentPreferences: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_preferences_total",
			Help:        "Checkout preference calls by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		PaymentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "payment_preference_duration_seconds",
			Help:        "Latency of checkout preference calls.",
			ConstLabels: labels,
			Buckets:     []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		AvailabilityErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_lookup_failures_total",
			Help:        "Override lookups that failed and fell back to the configured policy.",
			ConstLabels: labels,
		}, []string{"policy"}),
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created.",
			ConstLabels: labels,
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "events_published_total",
			Help:        "Domain events by type and result.",
			ConstLabels: labels,
		}, []string{"type", "result"}),
	}
}

// Payment outcomes
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)
