// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "missing api url"},
			expected: "missing api url",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %q for flag %s", "xx", "--model"),
			expected: `invalid value "xx" for flag --model`,
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "symbol", Kind: MissingField, Message: "symbol is required"}
	if got, want := err.Error(), `validation error for "symbol": symbol is required`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if MissingField.String() != "missing field" || Malformed.String() != "malformed" {
		t.Errorf("unexpected kind names: %q, %q", MissingField, Malformed)
	}

	wrapped := fmt.Errorf("submit: %w", err)
	var valErr ValidationError
	if !errors.As(wrapped, &valErr) {
		t.Fatal("errors.As should find ValidationError through wrapping")
	}
	if valErr.Kind != MissingField {
		t.Errorf("expected MissingField, got %v", valErr.Kind)
	}
}

func TestGatewayError(t *testing.T) {
	t.Parallel()
	cause := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	tests := []struct {
		name     string
		err      GatewayError
		expected string
	}{
		{
			name:     "network failure surfaces transport text",
			err:      GatewayError{Op: "fetch_series", Kind: NetworkFailure, Err: cause},
			expected: cause.Error(),
		},
		{
			name:     "non-2xx reports status code",
			err:      GatewayError{Op: "run_arima", Kind: Non2xxStatus, StatusCode: http.StatusNotFound},
			expected: "request failed with status code 404",
		},
		{
			name:     "malformed body reports cause",
			err:      GatewayError{Op: "run_echo", Kind: MalformedBody, Err: errors.New("empty predictions")},
			expected: "malformed body: empty predictions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}

	t.Run("Unwrap exposes cause", func(t *testing.T) {
		t.Parallel()
		err := GatewayError{Kind: NetworkFailure, Err: TimeoutError{Operation: "future_pred", Limit: time.Second}}
		var timeoutErr TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatal("errors.As should find TimeoutError inside GatewayError")
		}
		if timeoutErr.Operation != "future_pred" {
			t.Errorf("unexpected operation %q", timeoutErr.Operation)
		}
	})
}

func TestDomainPolicyError(t *testing.T) {
	t.Parallel()
	err := DomainPolicyError{Step: "run_echo", Required: 200, Got: 150, Message: "insufficient history for this model"}
	want := "insufficient history for this model (need at least 200 points, got 150)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      TimeoutError
		expected string
	}{
		{
			name:     "Error returns formatted message",
			err:      TimeoutError{Operation: "fetch_series", Limit: 30 * time.Second},
			expected: `operation "fetch_series" timed out after 30s`,
		},
		{
			name:     "Error with subsecond limit",
			err:      TimeoutError{Operation: "run_rf", Limit: 500 * time.Millisecond},
			expected: `operation "run_rf" timed out after 500ms`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load config",
			expectedMsg: "failed to load config: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "operation timed out",
			expectedMsg: "operation timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("connection reset"),
			format:      "failed to connect to %s:%d",
			args:        []any{"localhost", 8000},
			expectedMsg: "failed to connect to localhost:8000: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}

			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}

			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsContextError(tt.err)
			if result != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", ValidationError{Field: "model"}, ExitErrorValidation},
		{"policy", DomainPolicyError{Required: 200}, ExitErrorValidation},
		{"gateway", GatewayError{Kind: Non2xxStatus, StatusCode: 500}, ExitErrorGateway},
		{"gateway timeout", GatewayError{Kind: NetworkFailure, Err: TimeoutError{Limit: time.Second}}, ExitErrorTimeout},
		{"canceled", WrapError(context.Canceled, "stop"), ExitErrorCanceled},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":         ExitSuccess,
		"ExitErrorGeneric":    ExitErrorGeneric,
		"ExitErrorTimeout":    ExitErrorTimeout,
		"ExitErrorConfig":     ExitErrorConfig,
		"ExitErrorValidation": ExitErrorValidation,
		"ExitErrorGateway":    ExitErrorGateway,
		"ExitErrorCanceled":   ExitErrorCanceled,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
