package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the NC News API.
// HTTP-level metrics are labeled by method, route pattern, and status code;
// domain counters track writes against the dataset. All metrics are
// registered via promauto with the default Prometheus registry.
type Metrics struct {
	// RequestsTotal counts HTTP requests, labeled by method, route, and status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes HTTP request duration in seconds, labeled by method and route.
	RequestDuration *prometheus.HistogramVec

	// RequestsRateLimited counts requests rejected by the rate limiter.
	RequestsRateLimited prometheus.Counter

	// ArticlesCreated counts articles created through the API.
	ArticlesCreated prometheus.Counter

	// CommentsCreated counts comments created through the API.
	CommentsCreated prometheus.Counter

	// CommentsDeleted counts comments deleted through the API.
	CommentsDeleted prometheus.Counter

	// VotesApplied counts vote increments applied, labeled by resource (article, comment).
	VotesApplied *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		RequestsRateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_rate_limited_total",
			Help:      "Total number of HTTP requests rejected by the rate limiter",
		}),
		ArticlesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_created_total",
			Help:      "Total number of articles created",
		}),
		CommentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_created_total",
			Help:      "Total number of comments created",
		}),
		CommentsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_deleted_total",
			Help:      "Total number of comments deleted",
		}),
		VotesApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_applied_total",
			Help:      "Total number of vote increments applied by resource",
		}, []string{"resource"}),
	}
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(method, route, status string, durationSeconds float64) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	m.RequestsRateLimited.Inc()
}

// RecordArticleCreated records a created article.
func (m *Metrics) RecordArticleCreated() {
	m.ArticlesCreated.Inc()
}

// RecordCommentCreated records a created comment.
func (m *Metrics) RecordCommentCreated() {
	m.CommentsCreated.Inc()
}

// RecordCommentDeleted records a deleted comment.
func (m *Metrics) RecordCommentDeleted() {
	m.CommentsDeleted.Inc()
}

// RecordVotesApplied records a vote increment against a resource.
func (m *Metrics) RecordVotesApplied(resource string) {
	m.VotesApplied.WithLabelValues(resource).Inc()
}
