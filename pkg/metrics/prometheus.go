// Package metrics provides Prometheus metrics for the matchboard service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Score histograms use small integer buckets; typical match totals are 0-20.
var scoreBuckets = []float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 12, 15, 20, 30}

// Manager manages all Prometheus metrics for the matchboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Matching
	matchesComputed   prometheus.Counter
	matchScore        prometheus.Histogram
	matchTraitBonus   prometheus.Histogram
	matchTraitSources *prometheus.CounterVec
	matchLatency      prometheus.Histogram

	// Board state
	projectsTotal  prometheus.Gauge
	favoritesTotal prometheus.Gauge
	joinersTotal   prometheus.Gauge
	coursesTotal   prometheus.Gauge
	profilePresent prometheus.Gauge

	// Workflows
	boardOperations *prometheus.CounterVec
	imports         *prometheus.CounterVec
	exports         prometheus.Counter
	feedRenders     *prometheus.CounterVec

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager and the custom registry it records into. The
// registry avoids the default Go collectors.
var (
	globalMu       sync.RWMutex
	globalManager  *Manager             //nolint:gochecknoglobals // intentional global for singleton metrics manager
	customRegistry *prometheus.Registry //nolint:gochecknoglobals // intentional global for metrics registry
)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh
// registry and returns it. Handlers that captured GetRegistry earlier keep
// serving the old registry, so call it before building them.
func Configure(opts ...Option) *Manager {
	reg := prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithPrometheusRegistry(reg))
	m := NewManager(all...)

	globalMu.Lock()
	globalManager, customRegistry = m, reg
	globalMu.Unlock()
	return m
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchboard",
		subsystem:        "board",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
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
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.matchesComputed = auto.NewCounter(m.counterOpts("matches_computed_total",
		"Total number of project/profile scores computed"))
	m.matchScore = auto.NewHistogram(m.histogramOpts("match_score",
		"Distribution of total match scores", scoreBuckets))
	m.matchTraitBonus = auto.NewHistogram(m.histogramOpts("match_trait_bonus",
		"Distribution of the trait closeness bonus", []float64{0, 1, 2, 3, 4, 5, 6}))
	m.matchTraitSources = auto.NewCounterVec(m.counterOpts("match_trait_source_total",
		"Where the project trait vector came from (declared, advantages, none)"), []string{"source"})
	m.matchLatency = auto.NewHistogram(m.histogramOpts("match_ranking_duration_milliseconds",
		"Time spent ranking all projects for the profile", m.histogramBuckets))

	m.projectsTotal = auto.NewGauge(m.gaugeOpts("projects", "Number of projects on the board"))
	m.favoritesTotal = auto.NewGauge(m.gaugeOpts("favorite_projects", "Number of favorited projects"))
	m.joinersTotal = auto.NewGauge(m.gaugeOpts("joiners", "Number of joiners across all projects"))
	m.coursesTotal = auto.NewGauge(m.gaugeOpts("courses", "Number of available courses"))
	m.profilePresent = auto.NewGauge(m.gaugeOpts("profile_present", "1 when a profile is saved"))

	m.boardOperations = auto.NewCounterVec(m.counterOpts("operations_total",
		"Board operations by name and outcome"), []string{"operation", "outcome"})
	m.imports = auto.NewCounterVec(m.counterOpts("imports_total",
		"Bundle imports by mode"), []string{"mode"})
	m.exports = auto.NewCounter(m.counterOpts("exports_total", "Bundle exports"))
	m.feedRenders = auto.NewCounterVec(m.counterOpts("feed_renders_total",
		"Feed renders by format"), []string{"format"})

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_operation_duration_milliseconds",
		"Key-value store latency by operation and driver", m.histogramBuckets), []string{"driver", "operation"})
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total",
		"Key-value store errors by operation and driver"), []string{"driver", "operation"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of failed requests", m.histogramBuckets), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds",
		"Average GC pause time", m.histogramBuckets))
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often gauges should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Global recording helpers. They are no-ops when the global manager is disabled.

// active returns the global manager, or nil when it is disabled.
func active() *Manager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalManager == nil || !globalManager.enabled {
		return nil
	}
	return globalManager
}

// RecordMatch records one computed score with its trait bonus and source.
func RecordMatch(score, traitBonus int, source string) {
	m := active()
	if m == nil {
		return
	}
	m.matchesComputed.Inc()
	m.matchScore.Observe(float64(score))
	m.matchTraitBonus.Observe(float64(traitBonus))
	m.matchTraitSources.WithLabelValues(source).Inc()
}

// RecordMatchLatency records the duration of a full ranking pass.
func RecordMatchLatency(latencyMs float64) {
	if m := active(); m != nil {
		m.matchLatency.Observe(latencyMs)
	}
}

// UpdateBoardTotals sets the board state gauges.
func UpdateBoardTotals(projects, favorites, joiners, courses int, hasProfile bool) {
	m := active()
	if m == nil {
		return
	}
	m.projectsTotal.Set(float64(projects))
	m.favoritesTotal.Set(float64(favorites))
	m.joinersTotal.Set(float64(joiners))
	m.coursesTotal.Set(float64(courses))
	if hasProfile {
		m.profilePresent.Set(1)
	} else {
		m.profilePresent.Set(0)
	}
}

// RecordOperation counts a board operation with its outcome ("ok" or an error kind).
func RecordOperation(operation, outcome string) {
	if m := active(); m != nil {
		m.boardOperations.WithLabelValues(operation, outcome).Inc()
	}
}

// RecordImport counts a bundle import.
func RecordImport(mode string) {
	if m := active(); m != nil {
		m.imports.WithLabelValues(mode).Inc()
	}
}

// RecordExport counts a bundle export.
func RecordExport() {
	if m := active(); m != nil {
		m.exports.Inc()
	}
}

// RecordFeedRender counts a feed render.
func RecordFeedRender(format string) {
	if m := active(); m != nil {
		m.feedRenders.WithLabelValues(format).Inc()
	}
}

// RecordStoreLatency records a store operation latency.
func RecordStoreLatency(driver, operation string, latencyMs float64) {
	if m := active(); m != nil {
		m.storeLatency.WithLabelValues(driver, operation).Observe(latencyMs)
	}
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(driver, operation string) {
	if m := active(); m != nil {
		m.storeErrors.WithLabelValues(driver, operation).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if m := active(); m != nil {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if m := active(); m != nil {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if m := active(); m != nil {
		m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m := active(); m != nil {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records the latency of a failed request.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if m := active(); m != nil {
		m.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if m := active(); m != nil {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if m := active(); m != nil {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if m := active(); m != nil {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return customRegistry
}
