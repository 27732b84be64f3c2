package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates a remote call timed out.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorValidation = 5   // Indicates the prediction request was rejected before dispatch.
	ExitErrorGateway    = 6   // Indicates a remote prediction call failed.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationKind classifies a validation failure.
type ValidationKind int

const (
	// MissingField means a required field was empty or absent.
	MissingField ValidationKind = iota
	// Malformed means a field was present but could not be interpreted.
	Malformed
)

// String returns the kind name.
func (k ValidationKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Kind classifies the failure.
	Kind ValidationKind
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// GatewayErrorKind classifies a failed remote call.
type GatewayErrorKind int

const (
	// NetworkFailure covers transport errors: refused connections, resets,
	// cancelled or timed-out contexts.
	NetworkFailure GatewayErrorKind = iota
	// Non2xxStatus means the server answered with a non-success status.
	Non2xxStatus
	// MalformedBody means the response could not be decoded into the
	// expected shape.
	MalformedBody
)

// String returns the kind name.
func (k GatewayErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case Non2xxStatus:
		return "non-2xx status"
	case MalformedBody:
		return "malformed body"
	default:
		return "unknown"
	}
}

// GatewayError describes the failure of a single remote prediction call.
type GatewayError struct {
	// Op is the gateway operation (e.g., "fetch_series").
	Op string
	// Kind classifies the failure.
	Kind GatewayErrorKind
	// StatusCode is the HTTP status for Non2xxStatus failures, 0 otherwise.
	StatusCode int
	// Err is the underlying cause.
	Err error
}

// Error returns the underlying error text for network failures, so that a
// transport error surfaces to the user exactly as the transport reported it.
// Other kinds are prefixed with the kind.
func (e GatewayError) Error() string {
	switch e.Kind {
	case NetworkFailure:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "network failure"
	case Non2xxStatus:
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e GatewayError) Unwrap() error { return e.Err }

// DomainPolicyError reports a request that is well-formed but cannot be served
// under the product's rules, such as a price history too short for a model.
type DomainPolicyError struct {
	// Step is the workflow step that enforced the policy.
	Step string
	// Required is the minimum number of points the step needs.
	Required int
	// Got is the number of points available.
	Got int
	// Message is the user-facing explanation.
	Message string
}

// Error returns the policy message with the counts that triggered it.
func (e DomainPolicyError) Error() string {
	return fmt.Sprintf("%s (need at least %d points, got %d)", e.Message, e.Required, e.Got)
}

// TimeoutError represents a remote call timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code. A nil error maps to
// ExitSuccess.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr     ConfigError
		valErr     ValidationError
		timeoutErr TimeoutError
		gwErr      GatewayError
		policyErr  DomainPolicyError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &valErr):
		return ExitErrorValidation
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &gwErr):
		return ExitErrorGateway
	case errors.As(err, &policyErr):
		return ExitErrorValidation
	default:
		return ExitErrorGeneric
	}
}
