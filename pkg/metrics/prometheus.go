package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sizeBuckets bucket result-set sizes of directory, forum and library views.
var sizeBuckets = []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000} //nolint:gochecknoglobals // static bucket layout

// Manager manages all Prometheus metrics for the portal.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Engine
	selections        *prometheus.CounterVec
	selectionLatency  *prometheus.HistogramVec
	selectionSize     *prometheus.HistogramVec
	classifications   *prometheus.CounterVec
	classifyErrors    prometheus.Counter
	leaderboardBuilds prometheus.Counter

	// Activity ingestion
	activitiesProcessed prometheus.Counter
	activitiesDuplicate prometheus.Counter
	activitiesRejected  prometheus.Counter
	pointsAwarded       prometheus.Counter

	// Store
	peopleTotal *prometheus.GaugeVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "alumni",
		subsystem:        "portal",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "selections_total",
		Help: "Total number of filter/sort selections by view",
	}, []string{"view"})

	m.selectionLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "selection_latency_milliseconds",
		Help:    "Latency of a selection in milliseconds by view",
		Buckets: m.histogramBuckets,
	}, []string{"view"})

	m.selectionSize = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "selection_result_size",
		Help:    "Number of records returned by a selection by view",
		Buckets: sizeBuckets,
	}, []string{"view"})

	m.classifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "classifications_total",
		Help: "Total number of score classifications by resulting tier",
	}, []string{"tier"})

	m.classifyErrors = m.counter("classification_errors_total", "Total number of scores rejected by the classifier")
	m.leaderboardBuilds = m.counter("leaderboard_builds_total", "Total number of leaderboards built")

	m.activitiesProcessed = m.counter("activities_processed_total", "Total number of activities applied to scores")
	m.activitiesDuplicate = m.counter("activities_duplicate_total", "Total number of duplicate activities dropped")
	m.activitiesRejected = m.counter("activities_rejected_total", "Total number of activities that could not be applied")
	m.pointsAwarded = m.counter("points_awarded_total", "Sum of positive points awarded by activities")

	m.peopleTotal = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "people_total",
		Help: "Number of people in the store by role",
	}, []string{"role"})

	m.queueSize = m.gauge("queue_size", "Current number of buffered activities")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the activity queue")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Total number of activities enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Total number of activities dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of activities rejected by a full or closed queue")

	m.workerCount = m.gauge("worker_count", "Current number of running activity workers")
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "worker_processing_latency_milliseconds",
		Help:    "Time taken by a worker to apply one activity",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = m.counter("worker_errors_total", "Total number of worker processing errors")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "http_errors_total",
		Help: "Total number of HTTP error responses by endpoint and error kind",
	}, []string{"endpoint", "kind"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated by the process")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Current number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "system_gc_pause_milliseconds",
		Help:    "Average GC pause time in milliseconds",
		Buckets: m.histogramBuckets,
	})
}

// Engine metrics.

// RecordSelection records one selection of view returning size records.
func RecordSelection(view string, size int, latencyMs float64) {
	globalManager.selections.WithLabelValues(view).Inc()
	globalManager.selectionSize.WithLabelValues(view).Observe(float64(size))
	globalManager.selectionLatency.WithLabelValues(view).Observe(latencyMs)
}

// RecordClassification counts a score classified into tier.
func RecordClassification(tier string) {
	globalManager.classifications.WithLabelValues(tier).Inc()
}

func RecordClassificationError() {
	globalManager.classifyErrors.Inc()
}

func RecordLeaderboardBuild() {
	globalManager.leaderboardBuilds.Inc()
}

// Activity metrics.

func RecordActivityProcessed(points int) {
	globalManager.activitiesProcessed.Inc()
	if points > 0 {
		globalManager.pointsAwarded.Add(float64(points))
	}
}

func RecordActivityDuplicate() {
	globalManager.activitiesDuplicate.Inc()
}

func RecordActivityRejected() {
	globalManager.activitiesRejected.Inc()
}

// UpdatePeopleTotal sets the number of people holding role.
func UpdatePeopleTotal(role string, count int) {
	globalManager.peopleTotal.WithLabelValues(role).Set(float64(count))
}

// Queue metrics.

func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker metrics.

func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP metrics.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

func RecordHTTPError(endpoint, kind string) {
	globalManager.httpErrors.WithLabelValues(endpoint, kind).Inc()
}

// System metrics.

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the global manager reports to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
