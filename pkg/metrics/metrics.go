// Package metrics exposes Prometheus metrics for shot acquisition and scoring.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the target's metrics. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	iterationBuckets []float64
	registry         *prometheus.Registry

	shots            *prometheus.CounterVec
	solverIterations prometheus.Histogram
	solveDuration    prometheus.Histogram
	timerExhausted   prometheus.Counter
	ringOverruns     prometheus.Counter
	reportErrors     prometheus.Counter
	acquisitionState prometheus.Gauge
}

// New creates a metrics manager on its own registry.
func New(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "etarget",
		subsystem:        "",
		iterationBuckets: prometheus.LinearBuckets(1, 1, 20),
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.shots = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "shots_total",
		Help:      "Completed acquisition windows by result",
	}, []string{"result"})

	m.solverIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solver_iterations",
		Help:      "Fixed-point iterations used per solved shot",
		Buckets:   m.iterationBuckets,
	})

	m.solveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_duration_seconds",
		Help:      "Time spent solving and reporting one shot",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
	})

	m.timerExhausted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "timer_bank_exhausted_total",
		Help:      "Countdown timers that could not be allocated",
	})

	m.ringOverruns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "shot_ring_overruns_total",
		Help:      "Shot records overwritten before they were read",
	})

	m.reportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_errors_total",
		Help:      "Reports that a reporting backend failed to deliver",
	})

	m.acquisitionState = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "acquisition_state",
		Help:      "Acquisition state (0 idle, 1 waiting, 2 ring-down)",
	})
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ShotScored counts one reported window under the given result label.
func (m *Manager) ShotScored(result string, iterations int) {
	if m == nil {
		return
	}
	m.shots.WithLabelValues(result).Inc()
	if iterations > 0 {
		m.solverIterations.Observe(float64(iterations))
	}
}

// SolveDuration records how long a shot took to solve and report.
func (m *Manager) SolveDuration(seconds float64) {
	if m == nil {
		return
	}
	m.solveDuration.Observe(seconds)
}

// TimerExhausted counts a failed timer allocation.
func (m *Manager) TimerExhausted() {
	if m == nil {
		return
	}
	m.timerExhausted.Inc()
}

// RingOverrun counts shot records lost to a lagging consumer.
func (m *Manager) RingOverrun(lost uint64) {
	if m == nil {
		return
	}
	m.ringOverruns.Add(float64(lost))
}

// ReportFailed counts a reporting error.
func (m *Manager) ReportFailed() {
	if m == nil {
		return
	}
	m.reportErrors.Inc()
}

// AcquisitionState records the current acquisition state.
func (m *Manager) AcquisitionState(state int) {
	if m == nil {
		return
	}
	m.acquisitionState.Set(float64(state))
}
