// Package metrics provides Prometheus metrics for the talentradar service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default histogram buckets in milliseconds.
var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Manager owns every Prometheus collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ingestion
	candidatesCollected *prometheus.CounterVec
	sourceErrors        *prometheus.CounterVec
	resolutions         *prometheus.CounterVec
	duplicateRetries    prometheus.Counter
	queueSize           prometheus.Gauge
	queueCapacity       prometheus.Gauge
	collectDuration     prometheus.Histogram

	// Matching
	matchRuns     *prometheus.CounterVec
	matchDuration prometheus.Histogram
	matchScored   prometheus.Counter

	// Storage
	personsTotal    prometheus.Gauge
	repositoryOps   *prometheus.HistogramVec
	repositoryFails *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talentradar",
		subsystem:        "core",
		histogramBuckets: defaultBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.candidatesCollected = auto.NewCounterVec(m.counterOpts("candidates_collected_total", "Candidates extracted from a source"), []string{"source"})
	m.sourceErrors = auto.NewCounterVec(m.counterOpts("source_errors_total", "Failed source API calls or decodes"), []string{"source"})
	m.resolutions = auto.NewCounterVec(m.counterOpts("resolutions_total", "Identity resolution outcomes"), []string{"outcome"})
	m.duplicateRetries = auto.NewCounter(m.counterOpts("duplicate_create_retries_total", "Creates that hit a unique constraint and were retried as updates"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Candidates waiting to be persisted"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the candidate queue"))
	m.collectDuration = auto.NewHistogram(m.histogramOpts("collect_duration_milliseconds", "Duration of a full collection run"))

	m.matchRuns = auto.NewCounterVec(m.counterOpts("match_runs_total", "Match runs by final status"), []string{"status"})
	m.matchDuration = auto.NewHistogram(m.histogramOpts("match_duration_milliseconds", "Duration of the TF-IDF match computation"))
	m.matchScored = auto.NewCounter(m.counterOpts("match_scored_total", "Persons scored across all match runs"))

	m.personsTotal = auto.NewGauge(m.gaugeOpts("persons_total", "Persons currently stored"))
	m.repositoryOps = auto.NewHistogramVec(m.histogramOpts("repository_op_duration_milliseconds", "Repository call latency"), []string{"op"})
	m.repositoryFails = auto.NewCounterVec(m.counterOpts("repository_errors_total", "Repository call failures"), []string{"op"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration"), []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts("http_errors_total", "HTTP error responses by endpoint and kind"), []string{"endpoint", "method", "error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
}

// Ingestion.

// RecordCandidateCollected counts one candidate extracted from source.
func RecordCandidateCollected(source string) {
	globalManager.candidatesCollected.WithLabelValues(source).Inc()
}

// RecordSourceError counts a failed call against source.
func RecordSourceError(source string) {
	globalManager.sourceErrors.WithLabelValues(source).Inc()
}

// RecordResolution counts a resolver outcome: created, merged, failed or dropped.
func RecordResolution(outcome string) {
	globalManager.resolutions.WithLabelValues(outcome).Inc()
}

// RecordDuplicateRetry counts a create retried as an update.
func RecordDuplicateRetry() {
	globalManager.duplicateRetries.Inc()
}

// UpdateQueueSize sets the candidate backlog.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the candidate queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordCollectDuration records a full collection run.
func RecordCollectDuration(ms float64) {
	globalManager.collectDuration.Observe(ms)
}

// Matching.

// RecordMatchRun counts a finished match run by status.
func RecordMatchRun(status string) {
	globalManager.matchRuns.WithLabelValues(status).Inc()
}

// RecordMatchDuration records the match computation latency.
func RecordMatchDuration(ms float64) {
	globalManager.matchDuration.Observe(ms)
}

// RecordMatchScored adds n scored persons.
func RecordMatchScored(n int) {
	globalManager.matchScored.Add(float64(n))
}

// Storage.

// UpdatePersonsTotal sets the stored person count.
func UpdatePersonsTotal(n int) {
	globalManager.personsTotal.Set(float64(n))
}

// RecordRepositoryOp records the latency of one repository call.
func RecordRepositoryOp(op string, ms float64) {
	globalManager.repositoryOps.WithLabelValues(op).Observe(ms)
}

// RecordRepositoryError counts a failed repository call.
func RecordRepositoryError(op string) {
	globalManager.repositoryFails.WithLabelValues(op).Inc()
}

// HTTP.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordHTTPError counts an error response classified as errorType.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType, severity).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
