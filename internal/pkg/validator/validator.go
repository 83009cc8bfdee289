// Package validator provides custom validation functions and utilities.
package validator

import (
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is the singleton validator instance.
	validate *validator.Validate

	// once ensures validator is initialized only once.
	once sync.Once

	// solverStrategies are the strategy identifiers accepted by the
	// orchestrator (spec §8).
	solverStrategies = map[string]bool{
		"repair": true,
		"tabu":   true,
		"alns":   true,
		"cp":     true,
	}
)

// Get returns the singleton validator instance with all custom validators registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		registerCustomValidators(validate)
	})
	return validate
}

// registerCustomValidators registers all custom validation functions.
func registerCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("solverstrategy", validateSolverStrategy)
	_ = v.RegisterValidation("seedratio", validateSeedRatio)
	_ = v.RegisterValidation("not_blank", validateNotBlank)
}

// validateSolverStrategy validates that a field names one of the
// orchestrator's known strategies: repair, tabu, alns, cp.
func validateSolverStrategy(fl validator.FieldLevel) bool {
	strategy := fl.Field().String()
	if strategy == "" {
		return true
	}
	return solverStrategies[strategy]
}

// validateSeedRatio validates that a float field falls within the
// constructive seeder's accepted range [0.05, 0.5] (spec §3).
func validateSeedRatio(fl validator.FieldLevel) bool {
	ratio := fl.Field().Float()
	if ratio == 0 {
		return true
	}
	return ratio >= 0.05 && ratio <= 0.5
}

// validateNotBlank validates that a string is not just whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	str := fl.Field().String()
	return strings.TrimSpace(str) != ""
}

// ValidateStruct validates a struct and returns validation errors.
func ValidateStruct(s interface{}) error {
	return Get().Struct(s)
}

// ValidateVar validates a single variable against a tag.
func ValidateVar(field interface{}, tag string) error {
	return Get().Var(field, tag)
}

// FieldErrors extracts field errors from a validator error.
func FieldErrors(err error) []FieldErrorDetail {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make([]FieldErrorDetail, 0, len(validationErrors))
		for _, e := range validationErrors {
			errors = append(errors, FieldErrorDetail{
				Field:   toSnakeCase(e.Field()),
				Tag:     e.Tag(),
				Value:   e.Value(),
				Message: getErrorMessage(e),
			})
		}
		return errors
	}
	return nil
}

// FieldErrorDetail represents a single field validation error.
type FieldErrorDetail struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// getErrorMessage returns a human-readable error message for a validation error.
func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "not_blank":
		return "This field cannot be blank"
	case "oneof":
		return "Value must be one of: " + e.Param()
	case "alphanum":
		return "Value must be alphanumeric"
	case "url":
		return "Invalid URL format"
	case "datetime":
		return "Invalid datetime format"
	case "solverstrategy":
		return "Strategy must be one of: repair, tabu, alns, cp"
	case "seedratio":
		return "Seed ratio must be between 0.05 and 0.5"
	default:
		return "Validation failed on '" + e.Tag() + "' constraint"
	}
}

// toSnakeCase converts a string to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// IsValid checks if a struct is valid without returning detailed errors.
func IsValid(s interface{}) bool {
	return ValidateStruct(s) == nil
}

// IsValidUUID checks if a string is a valid UUID.
func IsValidUUID(uuid string) bool {
	return ValidateVar(uuid, "uuid") == nil
}
