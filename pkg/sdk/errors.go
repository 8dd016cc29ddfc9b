package sdk

import "fmt"

// Sentinel errors matching the server's machine-readable error codes.
// Use errors.Is() to check.
var (
	ErrUnauthorized        = &APIError{Code: "unauthorized"}
	ErrProfileNotFound     = &APIError{Code: "profile_not_found"}
	ErrNoInterests         = &APIError{Code: "no_interests"}
	ErrUnsupportedStrategy = &APIError{Code: "unsupported_strategy"}
	ErrInvalidLimit        = &APIError{Code: "invalid_limit"}
	ErrValidationFailed    = &APIError{Code: "validation_failed"}
)

// APIError is an error response from the billboard server.
type APIError struct {
	StatusCode int    // HTTP status, 0 for sentinels
	Code       string // machine-readable code, e.g. "profile_not_found"
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("billboard: %s (status %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("billboard: %s: %s", e.Code, e.Message)
}

// Is matches two APIErrors by code, so server errors compare equal to
// the package sentinels regardless of status and message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
