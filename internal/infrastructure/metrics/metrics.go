package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsCreated   *prometheus.CounterVec
	TransactionsDeleted   *prometheus.CounterVec
	DuePaymentsLinked     prometheus.Counter
	DuePaymentsUnlinked   prometheus.Counter
	DueStatusTransitions  *prometheus.CounterVec
	MirrorsCreated        prometheus.Counter
	OutboxPublished       *prometheus.CounterVec
	ConsistencyMismatches prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Redis metrics
	CacheLookups *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		TransactionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_transactions_created_total",
				Help: "Total number of company transactions created by kind",
			},
			[]string{"kind"},
		),
		TransactionsDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_transactions_deleted_total",
				Help: "Total number of company transactions deleted by kind",
			},
			[]string{"kind"},
		),
		DuePaymentsLinked: factory.NewCounter(prometheus.CounterOpts{
			Name: "totza_due_payments_linked_total",
			Help: "Total number of payments recorded against Due transactions",
		}),
		DuePaymentsUnlinked: factory.NewCounter(prometheus.CounterOpts{
			Name: "totza_due_payments_unlinked_total",
			Help: "Total number of Due updates that withdrew a payment",
		}),
		DueStatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_due_status_transitions_total",
				Help: "Due status after each payment update",
			},
			[]string{"status"},
		),
		MirrorsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "totza_mirrors_created_total",
			Help: "Total number of personal mirrors created",
		}),
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_outbox_published_total",
				Help: "Outbox events handed to publishers by result",
			},
			[]string{"result"},
		),
		ConsistencyMismatches: factory.NewGauge(prometheus.GaugeOpts{
			Name: "totza_due_consistency_mismatches",
			Help: "Mismatched Dues found by the last consistency check",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "totza_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Redis metrics
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_cache_lookups_total",
				Help: "Read-through cache lookups by result",
			},
			[]string{"cache", "result"},
		),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "totza_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),
	}
}

// TransactionCreated implements usecase.Recorder.
func (m *Metrics) TransactionCreated(kind domain.Kind) {
	m.TransactionsCreated.WithLabelValues(string(kind)).Inc()
}

// TransactionDeleted implements usecase.Recorder.
func (m *Metrics) TransactionDeleted(kind domain.Kind) {
	m.TransactionsDeleted.WithLabelValues(string(kind)).Inc()
}

// PaymentLinked implements usecase.Recorder.
func (m *Metrics) PaymentLinked(status domain.DueStatus) {
	m.DuePaymentsLinked.Inc()
	m.DueStatusTransitions.WithLabelValues(string(status)).Inc()
}

// PaymentUnlinked implements usecase.Recorder.
func (m *Metrics) PaymentUnlinked(status domain.DueStatus) {
	m.DuePaymentsUnlinked.Inc()
	m.DueStatusTransitions.WithLabelValues(string(status)).Inc()
}

// MirrorCreated implements usecase.Recorder.
func (m *Metrics) MirrorCreated() {
	m.MirrorsCreated.Inc()
}

// OutboxResult counts one outbox event handed to the publishers.
func (m *Metrics) OutboxResult(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.OutboxPublished.WithLabelValues(result).Inc()
}

// CacheLookup counts one read-through cache lookup.
func (m *Metrics) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

// HTTPRequest records one served request. path should be the route pattern.
func (m *Metrics) HTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// AuthFailure counts a rejected authentication attempt.
func (m *Metrics) AuthFailure(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// RateLimited counts a request rejected by the rate limiter.
func (m *Metrics) RateLimited(path string) {
	m.RateLimitHits.WithLabelValues(path).Inc()
}

// ConsistencyChecked records the number of problems found by the last consistency check.
func (m *Metrics) ConsistencyChecked(problems int) {
	m.ConsistencyMismatches.Set(float64(problems))
}
