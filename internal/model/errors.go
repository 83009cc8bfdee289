package model

import "fmt"

// Code enumerates the Model Compiler's fail-fast validation reasons
// (spec §4.1).
type Code string

const (
	LevelMismatch    Code = "LevelMismatch"
	NoEligibleTeacher Code = "NoEligibleTeacher"
	CapacityExceeded Code = "CapacityExceeded"
	BlockSumInvalid  Code = "BlockSumInvalid"
	FixedOutOfRange  Code = "FixedOutOfRange"
	PinUnqualified   Code = "PinUnqualified"
)

// ValidationError reports one inconsistency found while compiling an
// instance. The compiler collects these in bulk rather than failing on
// the first one (spec §7 "Input errors").
type ValidationError struct {
	Code        Code
	OffendingID string
	Detail      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Detail, e.OffendingID)
}

func newError(code Code, offendingID, detail string) *ValidationError {
	return &ValidationError{Code: code, OffendingID: offendingID, Detail: detail}
}
