// Package metrics provides Prometheus metrics for finmacro valuation runs.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Valuation outcomes.
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
)

// latencyBuckets covers provider round trips and whole-ticker valuations in
// milliseconds.
var latencyBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// Manager manages all Prometheus metrics for a valuation run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	// Job metrics
	jobsSubmitted    prometheus.Counter
	jobsCompleted    prometheus.Counter
	jobsFailed       prometheus.Counter
	duplicateTickers prometheus.Counter
	jobLatency       prometheus.Histogram

	// Valuation metrics
	valuations  *prometheus.CounterVec
	unavailable *prometheus.CounterVec

	// Provider metrics
	providerRequests        *prometheus.CounterVec
	providerRequestDuration *prometheus.HistogramVec

	// Queue metrics
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueEnqueued  prometheus.Counter
	queueDequeued  prometheus.Counter
	queueEnqueueKO prometheus.Counter

	// Worker metrics
	workerCount       prometheus.Gauge
	workerActiveCount prometheus.Gauge
	workerErrors      prometheus.Counter

	// Store metrics
	storeRecords prometheus.Gauge

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// Batch metrics
	batchDuration prometheus.Gauge
	batchLastUnix prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// metrics go to a fresh private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "finmacro",
		subsystem:        "valuation",
		histogramBuckets: latencyBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.jobsSubmitted = auto.NewCounter(m.counter("jobs_submitted_total", "Total number of tickers accepted into the queue"))
	m.jobsCompleted = auto.NewCounter(m.counter("jobs_completed_total", "Total number of tickers valued and stored"))
	m.jobsFailed = auto.NewCounter(m.counter("jobs_failed_total", "Total number of tickers whose data could not be fetched or stored"))
	m.duplicateTickers = auto.NewCounter(m.counter("duplicate_tickers_total", "Total number of tickers dropped as duplicates"))
	m.jobLatency = auto.NewHistogram(m.histogram("job_latency_milliseconds", "Time to fetch and value one ticker in milliseconds"))

	m.valuations = auto.NewCounterVec(
		m.counter("results_total", "Valuation results by method and outcome"),
		[]string{"method", "outcome"},
	)
	m.unavailable = auto.NewCounterVec(
		m.counter("unavailable_total", "Unavailable valuation results by method and reason"),
		[]string{"method", "kind"},
	)

	m.providerRequests = auto.NewCounterVec(
		m.counter("provider_requests_total", "Provider page requests by provider and status code"),
		[]string{"provider", "status_code"},
	)
	m.providerRequestDuration = auto.NewHistogramVec(
		m.histogram("provider_request_duration_milliseconds", "Provider page request duration in milliseconds"),
		[]string{"provider"},
	)

	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Current number of queued jobs"))
	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Maximum queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counter("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counter("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueKO = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Total number of jobs that could not be enqueued"))

	m.workerCount = auto.NewGauge(m.gauge("worker_count", "Configured number of workers"))
	m.workerActiveCount = auto.NewGauge(m.gauge("worker_active_count", "Number of workers currently valuing a ticker"))
	m.workerErrors = auto.NewCounter(m.counter("worker_errors_total", "Total number of worker errors"))

	m.storeRecords = auto.NewGauge(m.gauge("store_records", "Number of valuations held in the result store"))

	m.errorsByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.batchDuration = auto.NewGauge(m.gauge("batch_duration_seconds", "Wall time of the last batch run in seconds"))
	m.batchLastUnix = auto.NewGauge(m.gauge("batch_last_unix", "Unix timestamp of the last completed batch run"))
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Recorders on a manager instance. The package-level functions below use the
// global manager.
func (m *Manager) RecordJobSubmitted()          { m.jobsSubmitted.Inc() }
func (m *Manager) RecordJobCompleted()          { m.jobsCompleted.Inc() }
func (m *Manager) RecordJobFailed()             { m.jobsFailed.Inc() }
func (m *Manager) RecordDuplicateTicker()       { m.duplicateTickers.Inc() }
func (m *Manager) RecordJobLatency(ms float64)  { m.jobLatency.Observe(ms) }
func (m *Manager) RecordQueueEnqueue()          { m.queueEnqueued.Inc() }
func (m *Manager) RecordQueueDequeue()          { m.queueDequeued.Inc() }
func (m *Manager) RecordQueueEnqueueError()     { m.queueEnqueueKO.Inc() }
func (m *Manager) UpdateQueueSize(size int)     { m.queueSize.Set(float64(size)) }
func (m *Manager) UpdateQueueCapacity(c int)    { m.queueCapacity.Set(float64(c)) }
func (m *Manager) UpdateWorkerCount(count int)  { m.workerCount.Set(float64(count)) }
func (m *Manager) UpdateWorkerActive(count int) { m.workerActiveCount.Set(float64(count)) }
func (m *Manager) RecordWorkerError()           { m.workerErrors.Inc() }
func (m *Manager) UpdateStoreRecords(count int) { m.storeRecords.Set(float64(count)) }

// RecordValuation counts one method result.
func (m *Manager) RecordValuation(method string, available bool) {
	outcome := OutcomeUnavailable
	if available {
		outcome = OutcomeAvailable
	}
	m.valuations.WithLabelValues(method, outcome).Inc()
}

// RecordUnavailable counts the reason a method was unavailable.
func (m *Manager) RecordUnavailable(method, kind string) {
	m.unavailable.WithLabelValues(method, kind).Inc()
}

// RecordProviderRequest counts one page request and its latency.
func (m *Manager) RecordProviderRequest(provider string, statusCode int, latency time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.providerRequests.WithLabelValues(provider, code).Inc()
	m.providerRequestDuration.WithLabelValues(provider).Observe(float64(latency.Milliseconds()))
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordBatch records the wall time of a finished batch.
func (m *Manager) RecordBatch(d time.Duration) {
	m.batchDuration.Set(d.Seconds())
	m.batchLastUnix.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes every metric in the text exposition format to path,
// for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteTextfile, path, err)
	}
	return nil
}

// Job Metrics Functions.

// RecordJobSubmitted increments the submitted jobs counter.
func RecordJobSubmitted() {
	globalManager.RecordJobSubmitted()
}

// RecordJobCompleted increments the completed jobs counter.
func RecordJobCompleted() {
	globalManager.RecordJobCompleted()
}

// RecordJobFailed increments the failed jobs counter.
func RecordJobFailed() {
	globalManager.RecordJobFailed()
}

// RecordDuplicateTicker increments the duplicate tickers counter.
func RecordDuplicateTicker() {
	globalManager.RecordDuplicateTicker()
}

// RecordJobLatency records the time to value one ticker in milliseconds.
func RecordJobLatency(latencyMs float64) {
	globalManager.RecordJobLatency(latencyMs)
}

// Valuation Metrics Functions.

// RecordValuation counts one method result as available or unavailable.
func RecordValuation(method string, available bool) {
	globalManager.RecordValuation(method, available)
}

// RecordUnavailable counts why a method was unavailable.
func RecordUnavailable(method, kind string) {
	globalManager.RecordUnavailable(method, kind)
}

// Provider Metrics Functions.

// RecordProviderRequest records a provider page request. A zero status code
// means the request failed before a response arrived.
func RecordProviderRequest(provider string, statusCode int, latency time.Duration) {
	globalManager.RecordProviderRequest(provider, statusCode, latency)
}

// Queue Metrics Functions.

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.RecordQueueEnqueue()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.RecordQueueDequeue()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.RecordQueueEnqueueError()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.UpdateQueueSize(size)
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.UpdateQueueCapacity(capacity)
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.UpdateWorkerCount(count)
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.UpdateWorkerActive(count)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.RecordWorkerError()
}

// UpdateStoreRecords sets the number of stored valuations.
func UpdateStoreRecords(count int) {
	globalManager.UpdateStoreRecords(count)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordBatch records the wall time of a finished batch.
func RecordBatch(d time.Duration) {
	globalManager.RecordBatch(d)
}

// WriteTextfile writes the global metrics to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
