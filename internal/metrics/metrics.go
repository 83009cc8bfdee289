// Package metrics instruments solver runs with Prometheus collectors on a
// private registry, grounded on this codebase's request/cache metrics
// service but adapted to solver-domain signals (spec §4.7 "Solver Report"
// ambient observability).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service encapsulates solver-run Prometheus instrumentation.
type Service struct {
	registry *prometheus.Registry
	handler  http.Handler

	solveDuration      *prometheus.HistogramVec
	attemptsTotal      *prometheus.CounterVec
	backtracksTotal    *prometheus.CounterVec
	objectiveValue     *prometheus.GaugeVec
	cpBackendDuration  prometheus.Histogram
	cpBackendFailures  *prometheus.CounterVec
	fallbacksTotal     prometheus.Counter
}

// New registers the solver's core Prometheus collectors.
func New() *Service {
	registry := prometheus.NewRegistry()

	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_solve_duration_seconds",
		Help:    "Wall-clock duration of a solve, by strategy and outcome",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"strategy", "feasible"})

	attemptsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_attempts_total",
		Help: "Total placement attempts made by the Constructive Seeder",
	}, []string{"strategy"})

	backtracksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_backtracks_total",
		Help: "Total chronological backtracks taken by the Constructive Seeder",
	}, []string{"strategy"})

	objectiveValue := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "solver_objective_value",
		Help: "Final objective value of the most recent solve, by strategy",
	}, []string{"strategy"})

	cpBackendDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_cp_backend_duration_seconds",
		Help:    "Latency of calls to the external CP-SAT backend",
		Buckets: prometheus.DefBuckets,
	})

	cpBackendFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_cp_backend_failures_total",
		Help: "Total CP backend call failures, by error code",
	}, []string{"code"})

	fallbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "solver_cp_fallback_total",
		Help: "Total cp-to-tabu fallbacks taken after a CP backend failure",
	})

	registry.MustRegister(solveDuration, attemptsTotal, backtracksTotal, objectiveValue,
		cpBackendDuration, cpBackendFailures, fallbacksTotal)

	return &Service{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		solveDuration:     solveDuration,
		attemptsTotal:     attemptsTotal,
		backtracksTotal:   backtracksTotal,
		objectiveValue:    objectiveValue,
		cpBackendDuration: cpBackendDuration,
		cpBackendFailures: cpBackendFailures,
		fallbacksTotal:    fallbacksTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *Service) Handler() http.Handler {
	if s == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return s.handler
}

// ObserveSolve records one completed solve's wall-clock duration, attempts,
// backtracks, and objective value.
func (s *Service) ObserveSolve(strategy string, feasible bool, durationSeconds float64, attempts, backtracks int, objective float64) {
	if s == nil {
		return
	}
	feasibleLabel := "false"
	if feasible {
		feasibleLabel = "true"
	}
	s.solveDuration.WithLabelValues(strategy, feasibleLabel).Observe(durationSeconds)
	s.attemptsTotal.WithLabelValues(strategy).Add(float64(attempts))
	s.backtracksTotal.WithLabelValues(strategy).Add(float64(backtracks))
	if feasible {
		s.objectiveValue.WithLabelValues(strategy).Set(objective)
	}
}

// ObserveCPBackendCall records one call to the external CP-SAT backend.
func (s *Service) ObserveCPBackendCall(durationSeconds float64, errorCode string) {
	if s == nil {
		return
	}
	s.cpBackendDuration.Observe(durationSeconds)
	if errorCode != "" {
		s.cpBackendFailures.WithLabelValues(errorCode).Inc()
	}
}

// ObserveFallback records one cp-to-tabu fallback.
func (s *Service) ObserveFallback() {
	if s == nil {
		return
	}
	s.fallbacksTotal.Inc()
}
