package orchestrator

import (
	"fmt"
	"strings"

	"mslscheduler/internal/model"
)

// ValidationErrors wraps the Model Compiler's bulk validation failures
// (spec §6 "ValidationError(reason, offendingId) — pre-search").
type ValidationErrors struct {
	Errors []*model.ValidationError
}

func (e *ValidationErrors) Error() string {
	parts := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		parts[i] = ve.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// InfeasibleError means search proved or concluded no solution within
// budget (spec §6 "Infeasible(reason)").
type InfeasibleError struct {
	Reason string
}

func (e *InfeasibleError) Error() string { return fmt.Sprintf("infeasible: %s", e.Reason) }

// CancelledError means cooperative cancellation ended the solve before a
// feasible schedule was produced (spec §6 "Cancelled").
type CancelledError struct{}

func (e *CancelledError) Error() string { return "solve cancelled" }

// BackendUnavailableError wraps a CP backend failure for the cp strategy
// when no fallback was taken (spec §6 "BackendUnavailable").
type BackendUnavailableError struct {
	Cause error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("cp backend unavailable: %v", e.Cause)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Cause }
