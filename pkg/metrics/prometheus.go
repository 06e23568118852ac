// Package metrics provides Prometheus metrics for the interview service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Generation service
	generationCalls   *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	promptTokens      *prometheus.HistogramVec
	scoresClamped     *prometheus.CounterVec

	// Interview workflow
	resumesProcessed     prometheus.Counter
	answersEvaluated     prometheus.Counter
	assessmentsGenerated prometheus.Counter

	// Telemetry queue
	telemetryQueueDepth prometheus.Gauge
	telemetryDropped    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ai_interviewer",
		subsystem:        "api",
		histogramBuckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.generationCalls = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "generation_calls_total",
			Help:      "Calls to the generation service by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	m.generationLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "generation_latency_milliseconds",
			Help:      "Latency of generation calls in milliseconds, retries included",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)

	m.promptTokens = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "prompt_tokens",
			Help:      "Prompt size in tokens as counted by the generation service",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		},
		[]string{"stage"},
	)

	m.scoresClamped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scores_clamped_total",
			Help:      "Model supplied scores outside 0-100 that were clamped",
		},
		[]string{"stage"},
	)

	m.resumesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resumes_processed_total",
		Help:      "Resume uploads that produced a candidate profile, re-uploads included",
	})

	m.answersEvaluated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "answers_evaluated_total",
		Help:      "Answers scored by the generation service",
	})

	m.assessmentsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessments_generated_total",
		Help:      "Assessment reports generated",
	})

	m.telemetryQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "telemetry_queue_depth",
		Help:      "Jobs waiting in the telemetry queue",
	})

	m.telemetryDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "telemetry_dropped_total",
		Help:      "Telemetry jobs dropped because the queue was full",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordGenerationCall counts one generation call.
func RecordGenerationCall(stage, outcome string) {
	globalManager.generationCalls.WithLabelValues(stage, outcome).Inc()
}

// RecordGenerationLatency records generation latency in milliseconds.
func RecordGenerationLatency(stage string, latencyMs float64) {
	globalManager.generationLatency.WithLabelValues(stage).Observe(latencyMs)
}

// RecordPromptTokens records the token count of a prompt.
func RecordPromptTokens(stage string, tokens int) {
	globalManager.promptTokens.WithLabelValues(stage).Observe(float64(tokens))
}

func RecordScoreClamped(stage string) {
	globalManager.scoresClamped.WithLabelValues(stage).Inc()
}

func RecordResumeProcessed() {
	globalManager.resumesProcessed.Inc()
}

func RecordAnswerEvaluated() {
	globalManager.answersEvaluated.Inc()
}

func RecordAssessmentGenerated() {
	globalManager.assessmentsGenerated.Inc()
}

// UpdateTelemetryQueueDepth sets the current telemetry backlog.
func UpdateTelemetryQueueDepth(depth int) {
	globalManager.telemetryQueueDepth.Set(float64(depth))
}

func RecordTelemetryDropped() {
	globalManager.telemetryDropped.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
