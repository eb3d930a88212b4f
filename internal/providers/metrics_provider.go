package providers

import (
	"chatsync/internal/models"
	"chatsync/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery outcome labels.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeHttpError      = "http_error"
	OutcomeSuppressed     = "suppressed"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncDelivery(kind, outcome string)
	ObserveDeliveryDuration(duration time.Duration)
	AddFlushed(count int)
	IncQueueDropped()
	IncCacheHits()
	IncCacheMisses()
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	deliveriesTotal  *prometheus.CounterVec
	deliveryDuration prometheus.Histogram
	flushedTotal     prometheus.Counter
	queueDropped     prometheus.Counter
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncDelivery(kind, outcome string) {
	m.deliveriesTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsProvider) ObserveDeliveryDuration(duration time.Duration) {
	m.deliveryDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddFlushed(count int) {
	m.flushedTotal.Add(float64(count))
}

func (m *MetricsProvider) IncQueueDropped() {
	m.queueDropped.Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
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

func NewMetricsProvider(conf *structures.Config, queue *models.OfflineQueue, fingerprints *models.FingerprintSet) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatsync_requests_total",
			Help: "Total number of control API requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatsync_request_duration_seconds",
			Help:    "Control API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		deliveriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatsync_deliveries_total",
			Help: "Total number of delivery attempts by payload kind and outcome",
		}, []string{"kind", "outcome"}),

		deliveryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatsync_delivery_duration_seconds",
			Help:    "Outbound delivery duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		flushedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatsync_flushed_total",
			Help: "Total number of payloads drained from the offline queue",
		}),

		queueDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatsync_queue_dropped_total",
			Help: "Total number of payloads dropped from the offline queue on overflow",
		}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatsync_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatsync_cache_misses_total",
			Help: "Total number of cache misses",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chatsync_queue_depth",
		Help: "Current number of payloads in the offline queue",
	}, func() float64 {
		return float64(queue.Len())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chatsync_fingerprints",
		Help: "Current number of remembered content fingerprints",
	}, func() float64 {
		return float64(fingerprints.Len())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncDelivery(_, _ string)                           {}
func (n *noopMetrics) ObserveDeliveryDuration(_ time.Duration)           {}
func (n *noopMetrics) AddFlushed(_ int)                                  {}
func (n *noopMetrics) IncQueueDropped()                                  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
