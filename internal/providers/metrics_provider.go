package providers

import (
	"time"
	"topfived/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncVoteOutcome(outcome string)
	ObserveRemoteDuration(duration time.Duration)
}

// LedgerSizer reports how many anonymous voter ids the device ledger holds.
type LedgerSizer interface {
	IdentityCount() int
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	voteOutcomes        *prometheus.CounterVec
	remoteDuration      prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncVoteOutcome(outcome string) {
	m.voteOutcomes.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveRemoteDuration(duration time.Duration) {
	m.remoteDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, ledger LedgerSizer) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "topfived_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "topfived_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "topfived_cache_hits_total",
			Help: "Total number of score cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "topfived_cache_misses_total",
			Help: "Total number of score cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "topfived_ledger_persistence_duration_seconds",
			Help:    "Duration of identity ledger flushes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		voteOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "topfived_vote_outcomes_total",
			Help: "Vote attempts by outcome",
		}, []string{"outcome"}),

		remoteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "topfived_vote_remote_duration_seconds",
			Help:    "Duration of remote vote set updates in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "topfived_anonymous_identities",
		Help: "Anonymous voter ids held by the device ledger",
	}, func() float64 {
		return float64(ledger.IdentityCount())
	})

	return m
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncVoteOutcome(_ string)                          {}
func (n *noopMetrics) ObserveRemoteDuration(_ time.Duration)            {}
