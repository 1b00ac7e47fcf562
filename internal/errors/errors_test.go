package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		checkFn  func(error) bool
		expected bool
	}{
		{
			name:     "ErrInvalidSignature is recognized",
			err:      ErrInvalidSignature,
			checkFn:  IsInvalidSignature,
			expected: true,
		},
		{
			name:     "wrapped ErrInvalidSignature is recognized",
			err:      fmt.Errorf("webhook: %w", ErrInvalidSignature),
			checkFn:  IsInvalidSignature,
			expected: true,
		},
		{
			name:     "different error is not ErrInvalidSignature",
			err:      ErrMarkerNotFound,
			checkFn:  IsInvalidSignature,
			expected: false,
		},
		{
			name:     "ValidationError is invalid input",
			err:      NewValidationError("user_id", "required"),
			checkFn:  IsInvalidInput,
			expected: true,
		},
		{
			name:     "joined ErrInvalidInput is recognized",
			err:      errors.Join(ErrInvalidInput, errors.New("additional context")),
			checkFn:  IsInvalidInput,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.checkFn(tt.err)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("beer_name", "required")

	expected := "validation failed on beer_name: required"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestFetchError(t *testing.T) {
	base := errors.New("connection refused")

	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "with status",
			err:  NewFetchError("direct-desktop", "https://untappd.com/v/x", 403, base),
			want: "fetch error (strategy=direct-desktop, url=https://untappd.com/v/x, status=403): connection refused",
		},
		{
			name: "without status",
			err:  NewFetchError("delegated", "http://svc/", 0, base),
			want: "fetch error (strategy=delegated, url=http://svc/): connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tt.err.Error())
			}
			if !errors.Is(tt.err, base) {
				t.Error("expected FetchError to unwrap to the cause")
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("strategy failed: %w", NewFetchError("relay-1", "u", 502, ErrEmptyResult))
	if got := StatusCode(wrapped); got != 502 {
		t.Errorf("expected 502, got %d", got)
	}
	if got := StatusCode(errors.New("plain")); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
