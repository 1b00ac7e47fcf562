// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidSignature indicates a webhook body did not match its signature.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMarkerNotFound indicates a fetched page lacks the menu section marker.
	ErrMarkerNotFound = errors.New("menu marker not found")

	// ErrEmptyResult indicates a source answered but yielded no records.
	ErrEmptyResult = errors.New("empty result")

	// ErrUnexpectedStatus indicates a non-2xx HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrInvalidPostback indicates postback data that is not a JSON object.
	ErrInvalidPostback = errors.New("invalid postback data")

	// ErrUnknownAction indicates a postback action with no handler.
	ErrUnknownAction = errors.New("unknown postback action")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidInput indicates a caller provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates an optional collaborator was not configured.
	ErrNotConfigured = errors.New("not configured")
)

// IsInvalidSignature reports whether err wraps ErrInvalidSignature.
func IsInvalidSignature(err error) bool { return errors.Is(err, ErrInvalidSignature) }

// IsInvalidInput reports whether err wraps ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// FetchError represents a failed outbound request with the strategy that issued it.
type FetchError struct {
	Strategy   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error (strategy=%s, url=%s, status=%d): %v", e.Strategy, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error (strategy=%s, url=%s): %v", e.Strategy, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new fetch error.
func NewFetchError(strategy, url string, statusCode int, err error) *FetchError {
	return &FetchError{
		Strategy:   strategy,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// StatusCode extracts the HTTP status from a FetchError chain, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
