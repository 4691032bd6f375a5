package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics defines the collectors the batch driver reports to
type Metrics interface {
	RegisterPoolMetrics(stage string, pool PoolStats)
	GetRegistry() *prometheus.Registry
	Handler() http.Handler

	IncBatchesProcessed(status string)
	ObserveBatchSize(blocks, events int)
	IncBlocksSkipped(count int)
	IncEvents(kind string)
	IncUnhandledEvents(kind string)
	IncAnomalies(reason string)
	ObserveFlushDuration(duration float64)
	ObserveBatchDuration(duration float64)
	SetLastProcessedHeight(height uint64)
}

// PoolStats is the part of a pond worker pool the pool collectors read.
// Both pond.Pool and pond.ResultPool satisfy it.
type PoolStats interface {
	RunningWorkers() int64
	WaitingTasks() uint64
	SubmittedTasks() uint64
	FailedTasks() uint64
}

// Batch outcomes
const (
	BatchSucceeded = "success"
	BatchFailed    = "failure"
	BatchSkipped   = "skipped"
)

type metricsService struct {
	registry *prometheus.Registry

	batchesProcessed    *prometheus.CounterVec
	batchBlocks         prometheus.Histogram
	batchEvents         prometheus.Histogram
	blocksSkipped       prometheus.Counter
	eventsTotal         *prometheus.CounterVec
	unhandledEvents     *prometheus.CounterVec
	anomaliesTotal      *prometheus.CounterVec
	flushDuration       prometheus.Histogram
	batchDuration       prometheus.Histogram
	lastProcessedHeight prometheus.Gauge
}

// NewMetricsService creates a metrics service with its own registry
func NewMetricsService() Metrics {
	m := &metricsService{
		registry: prometheus.NewRegistry(),
	}

	m.batchesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_batches_processed_total",
			Help: "Total number of batches processed, by outcome",
		},
		[]string{"status"},
	)
	m.batchBlocks = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "indexer_batch_blocks",
			Help:    "Number of blocks per batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	m.batchEvents = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "indexer_batch_events",
			Help:    "Number of events per batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
	m.blocksSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "indexer_blocks_skipped_total",
			Help: "Blocks at or below the stored cursor that were not applied again",
		},
	)
	m.eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_events_total",
			Help: "Events applied, by kind",
		},
		[]string{"kind"},
	)
	m.unhandledEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_unhandled_events_total",
			Help: "Events ignored because no handler reconciles their kind",
		},
		[]string{"kind"},
	)
	m.anomaliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_anomalies_total",
			Help: "Non-fatal inconsistencies observed while applying events, by reason",
		},
		[]string{"reason"},
	)
	m.flushDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "indexer_flush_duration_seconds",
			Help:    "Duration of the transactional flush of one batch",
			Buckets: prometheus.DefBuckets,
		},
	)
	m.batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "indexer_batch_duration_seconds",
			Help:    "Duration of processing one batch end to end",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	m.lastProcessedHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_last_processed_height",
			Help: "Highest block height committed together with the cursor",
		},
	)

	m.registerMetrics()
	return m
}

func (m *metricsService) registerMetrics() {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.batchesProcessed,
		m.batchBlocks,
		m.batchEvents,
		m.blocksSkipped,
		m.eventsTotal,
		m.unhandledEvents,
		m.anomaliesTotal,
		m.flushDuration,
		m.batchDuration,
		m.lastProcessedHeight,
	)
}

// RegisterPoolMetrics registers a worker pool for metrics collection
func (m *metricsService) RegisterPoolMetrics(stage string, pool PoolStats) {
	labels := prometheus.Labels{"stage": stage}

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "pool_workers_running",
			Help:        "Number of running worker goroutines",
			ConstLabels: labels,
		},
		func() float64 {
			return float64(pool.RunningWorkers())
		},
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "pool_tasks_waiting",
			Help:        "Number of tasks currently waiting in the queue",
			ConstLabels: labels,
		},
		func() float64 {
			return float64(pool.WaitingTasks())
		},
	))

	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name:        "pool_tasks_submitted_total",
			Help:        "Number of tasks submitted",
			ConstLabels: labels,
		},
		func() float64 {
			return float64(pool.SubmittedTasks())
		},
	))

	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name:        "pool_tasks_failed_total",
			Help:        "Number of tasks that completed with an error or panic",
			ConstLabels: labels,
		},
		func() float64 {
			return float64(pool.FailedTasks())
		},
	))
}

// GetRegistry returns the prometheus registry
func (m *metricsService) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *metricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *metricsService) IncBatchesProcessed(status string) {
	m.batchesProcessed.WithLabelValues(status).Inc()
}

func (m *metricsService) ObserveBatchSize(blocks, events int) {
	m.batchBlocks.Observe(float64(blocks))
	m.batchEvents.Observe(float64(events))
}

func (m *metricsService) IncBlocksSkipped(count int) {
	m.blocksSkipped.Add(float64(count))
}

func (m *metricsService) IncEvents(kind string) {
	m.eventsTotal.WithLabelValues(kind).Inc()
}

func (m *metricsService) IncUnhandledEvents(kind string) {
	m.unhandledEvents.WithLabelValues(kind).Inc()
}

func (m *metricsService) IncAnomalies(reason string) {
	m.anomaliesTotal.WithLabelValues(reason).Inc()
}

func (m *metricsService) ObserveFlushDuration(duration float64) {
	m.flushDuration.Observe(duration)
}

func (m *metricsService) ObserveBatchDuration(duration float64) {
	m.batchDuration.Observe(duration)
}

func (m *metricsService) SetLastProcessedHeight(height uint64) {
	m.lastProcessedHeight.Set(float64(height))
}
