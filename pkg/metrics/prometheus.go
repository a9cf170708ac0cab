// Package metrics provides Prometheus metrics for the drape recommender.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

//nolint:gochecknoglobals // read-only default
var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// Manager owns every Prometheus collector exported by drape.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	enabled         bool
	refreshInterval time.Duration
	constLabels     map[string]string
	metricPrefix    string
	registry        prometheus.Registerer

	// Analysis
	analyses         *prometheus.CounterVec
	noSkinDetected   prometheus.Counter
	analysisDuration prometheus.Histogram

	// Recommendation
	recommendations       *prometheus.CounterVec
	recommendationsEmpty  prometheus.Counter
	outfitsComposed       prometheus.Histogram
	recommendationLatency prometheus.Histogram
	feedback              *prometheus.CounterVec

	// Catalog
	catalogItems          prometheus.Gauge
	catalogReloads        *prometheus.CounterVec
	catalogReloadDuration prometheus.Histogram

	// Event pipeline
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueRejected   *prometheus.CounterVec
	eventsPublished prometheus.Counter
	publishErrors   prometheus.Counter
	workerCount     prometheus.Gauge

	// Archive and narration
	archiveUploads  *prometheus.CounterVec
	narrationSource *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "drape",
		subsystem:       "recommender",
		latencyBuckets:  defaultLatencyBuckets,
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		constLabels:     make(map[string]string),
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.latencyBuckets
	}
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.analyses = auto.NewCounterVec(m.counterOpts("analyses_total", "Skin tone analyses by season and confidence"), []string{"season", "confidence"})
	m.noSkinDetected = auto.NewCounter(m.counterOpts("no_skin_detected_total", "Uploads in which no skin region was found"))
	m.analysisDuration = auto.NewHistogram(m.histogramOpts("analysis_duration_milliseconds", "Image analysis latency in milliseconds", nil))

	m.recommendations = auto.NewCounterVec(m.counterOpts("recommendations_total", "Recommendation calls by fallback tier"), []string{"tier"})
	m.recommendationsEmpty = auto.NewCounter(m.counterOpts("recommendations_empty_total", "Recommendation calls that produced no outfit after every tier"))
	m.outfitsComposed = auto.NewHistogram(m.histogramOpts("outfits_composed", "Outfits returned per composition", []float64{0, 1, 2, 3, 5, 8, 13}))
	m.recommendationLatency = auto.NewHistogram(m.histogramOpts("recommendation_duration_milliseconds", "Recommendation pipeline latency in milliseconds", nil))
	m.feedback = auto.NewCounterVec(m.counterOpts("feedback_total", "Outfit feedback by verdict"), []string{"verdict"})

	m.catalogItems = auto.NewGauge(m.gaugeOpts("catalog_items", "Items in the active catalog snapshot"))
	m.catalogReloads = auto.NewCounterVec(m.counterOpts("catalog_reloads_total", "Catalog reloads by outcome"), []string{"outcome"})
	m.catalogReloadDuration = auto.NewHistogram(m.histogramOpts("catalog_reload_duration_milliseconds", "Catalog load latency in milliseconds", nil))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Feedback events waiting for publication"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the feedback event queue"))
	m.queueRejected = auto.NewCounterVec(m.counterOpts("queue_rejected_total", "Feedback events rejected by the queue"), []string{"reason"})
	m.eventsPublished = auto.NewCounter(m.counterOpts("events_published_total", "Feedback events handed to the publisher"))
	m.publishErrors = auto.NewCounter(m.counterOpts("publish_errors_total", "Feedback events the publisher failed to deliver"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Running publisher workers"))

	m.archiveUploads = auto.NewCounterVec(m.counterOpts("archive_uploads_total", "Uploaded photos archived by outcome"), []string{"outcome"})
	m.narrationSource = auto.NewCounterVec(m.counterOpts("narrations_total", "Stylist texts by source"), []string{"source"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", nil), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Running goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds", []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10}))
}

// RecordAnalysis counts a successful skin tone analysis.
func RecordAnalysis(season, confidence string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.analyses.WithLabelValues(season, confidence).Inc()
	globalManager.analysisDuration.Observe(latencyMs)
}

// RecordNoSkinDetected counts an upload without a skin region.
func RecordNoSkinDetected() {
	if globalManager.enabled {
		globalManager.noSkinDetected.Inc()
	}
}

// RecordRecommendation counts a recommendation answered by the given tier.
func RecordRecommendation(tier string, outfits int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.recommendations.WithLabelValues(tier).Inc()
	globalManager.outfitsComposed.Observe(float64(outfits))
	globalManager.recommendationLatency.Observe(latencyMs)
}

// RecordRecommendationEmpty counts a recommendation that exhausted every tier.
func RecordRecommendationEmpty() {
	if globalManager.enabled {
		globalManager.recommendationsEmpty.Inc()
	}
}

// RecordFeedback counts a like or dislike.
func RecordFeedback(liked bool) {
	if !globalManager.enabled {
		return
	}
	verdict := "dislike"
	if liked {
		verdict = "like"
	}
	globalManager.feedback.WithLabelValues(verdict).Inc()
}

// UpdateCatalogItems sets the size of the active catalog snapshot.
func UpdateCatalogItems(count int) {
	if globalManager.enabled {
		globalManager.catalogItems.Set(float64(count))
	}
}

// RecordCatalogReload records a catalog load attempt.
func RecordCatalogReload(ok bool, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	globalManager.catalogReloads.WithLabelValues(outcome).Inc()
	globalManager.catalogReloadDuration.Observe(latencyMs)
}

// UpdateQueueSize sets the number of queued feedback events.
func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the feedback queue capacity.
func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueRejected counts an event the queue refused.
func RecordQueueRejected(reason string) {
	if globalManager.enabled {
		globalManager.queueRejected.WithLabelValues(reason).Inc()
	}
}

// RecordEventPublished counts a delivered feedback event.
func RecordEventPublished() {
	if globalManager.enabled {
		globalManager.eventsPublished.Inc()
	}
}

// RecordPublishError counts a failed delivery.
func RecordPublishError() {
	if globalManager.enabled {
		globalManager.publishErrors.Inc()
	}
}

// UpdateWorkerCount sets the number of running publisher workers.
func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

// RecordArchiveUpload counts a photo archive attempt.
func RecordArchiveUpload(ok bool) {
	if !globalManager.enabled {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	globalManager.archiveUploads.WithLabelValues(outcome).Inc()
}

// RecordNarration counts a stylist text by its source (genai or template).
func RecordNarration(source string) {
	if globalManager.enabled {
		globalManager.narrationSource.WithLabelValues(source).Inc()
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// RefreshInterval returns how often runtime gauges should be sampled.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the registry every global collector is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
