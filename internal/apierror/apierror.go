// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// RuleViolation carries business rule failures as a flat message list, for
// requests that bind fine but break a domain rule.
type RuleViolation struct {
	Detail string   `json:"detail"`
	Errors []string `json:"errors"`
}

func NewRuleViolation(errs []string) *RuleViolation {
	return &RuleViolation{Detail: "Validation failed", Errors: errs}
}
