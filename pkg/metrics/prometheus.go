// Package metrics provides Prometheus metrics for the wardrobe matching service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the wardrobe service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Matching
	queries         prometheus.Counter
	emptyQueries    prometheus.Counter
	matchesPerQuery prometheus.Histogram
	matchLatency    prometheus.Histogram

	// Catalog
	catalogEntries    prometheus.Gauge
	catalogLoads      *prometheus.CounterVec
	catalogLoadErrors prometheus.Counter

	// Characters
	charactersBuilt     prometheus.Counter
	charactersDuplicate prometheus.Counter
	characterErrors     prometheus.Counter
	charactersStored    prometheus.Gauge
	storeLatency        *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wardrobe",
		subsystem:        "matcher",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.queries = auto.NewCounter(m.counterOpts("queries_total",
		"Total number of descriptions matched against the catalog"))
	m.emptyQueries = auto.NewCounter(m.counterOpts("empty_queries_total",
		"Descriptions that produced no matches"))
	m.matchesPerQuery = auto.NewHistogram(m.histogramOpts("matches_per_query",
		"Number of matches returned per description",
		[]float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20}))
	m.matchLatency = auto.NewHistogram(m.histogramOpts("match_latency_milliseconds",
		"Time spent extracting, scoring and ranking one description", nil))

	m.catalogEntries = auto.NewGauge(m.gaugeOpts("catalog_entries",
		"Number of entries in the loaded catalog"))
	m.catalogLoads = auto.NewCounterVec(m.counterOpts("catalog_loads_total",
		"Catalog loads by source"), []string{"source"})
	m.catalogLoadErrors = auto.NewCounter(m.counterOpts("catalog_load_errors_total",
		"Catalog loads that failed"))

	m.charactersBuilt = auto.NewCounter(m.counterOpts("characters_built_total",
		"Characters configured and stored by the worker pool"))
	m.charactersDuplicate = auto.NewCounter(m.counterOpts("characters_duplicate_total",
		"Character submissions rejected as duplicates"))
	m.characterErrors = auto.NewCounter(m.counterOpts("character_errors_total",
		"Character builds that failed"))
	m.charactersStored = auto.NewGauge(m.gaugeOpts("characters_stored",
		"Characters currently held by the store"))
	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_latency_milliseconds",
		"Character store operation latency in milliseconds", nil), []string{"operation"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", nil),
		[]string{"endpoint", "method", "status_code"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size",
		"Current size of the build queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity",
		"Maximum build queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio",
		"Queue utilization ratio (current size / capacity)"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total",
		"Total number of build requests enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total",
		"Total number of build requests dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total",
		"Build requests rejected because the queue was full or closed"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("queue_processing_latency_milliseconds",
		"Time a build request waited in the queue", nil))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count",
		"Configured number of build workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count",
		"Number of running build workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Worker build latency in milliseconds", nil))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total",
		"Total number of worker errors"))

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordQuery records one matched description and how many assets it returned.
func RecordQuery(matches int, latencyMs float64) {
	globalManager.queries.Inc()
	globalManager.matchesPerQuery.Observe(float64(matches))
	globalManager.matchLatency.Observe(latencyMs)
	if matches == 0 {
		globalManager.emptyQueries.Inc()
	}
}

// UpdateCatalogEntries sets the catalog size.
func UpdateCatalogEntries(count int) {
	globalManager.catalogEntries.Set(float64(count))
}

// RecordCatalogLoad counts a successful catalog load from source.
func RecordCatalogLoad(source string) {
	globalManager.catalogLoads.WithLabelValues(source).Inc()
}

// RecordCatalogLoadError counts a failed catalog load.
func RecordCatalogLoadError() {
	globalManager.catalogLoadErrors.Inc()
}

// RecordCharacterBuilt increments the built characters counter.
func RecordCharacterBuilt() {
	globalManager.charactersBuilt.Inc()
}

// RecordCharacterDuplicate increments the duplicate submissions counter.
func RecordCharacterDuplicate() {
	globalManager.charactersDuplicate.Inc()
}

// RecordCharacterError increments the failed builds counter.
func RecordCharacterError() {
	globalManager.characterErrors.Inc()
}

// UpdateCharactersStored sets the number of stored characters.
func UpdateCharactersStored(count int) {
	globalManager.charactersStored.Set(float64(count))
}

// RecordStoreLatency records a store operation latency.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue wait latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Init replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before any handler reads GetRegistry.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}
