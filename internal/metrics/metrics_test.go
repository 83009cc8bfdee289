package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceObserveSolveExposedOnHandler(t *testing.T) {
	s := New()
	s.ObserveSolve("tabu", true, 1.5, 10, 2, 4.5)
	s.ObserveCPBackendCall(0.2, "")
	s.ObserveCPBackendCall(0.1, "timedOut")
	s.ObserveFallback()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "solver_solve_duration_seconds")
	assert.Contains(t, body, "solver_attempts_total")
	assert.Contains(t, body, "solver_objective_value")
	assert.Contains(t, body, "solver_cp_backend_failures_total")
	assert.Contains(t, body, "solver_cp_fallback_total")
}

func TestServiceNilIsSafe(t *testing.T) {
	var s *Service
	assert.NotPanics(t, func() {
		s.ObserveSolve("tabu", true, 1, 1, 0, 1)
		s.ObserveCPBackendCall(1, "infeasible")
		s.ObserveFallback()
		_ = s.Handler()
	})
}
