package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"macro-observer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type ObserverError struct {
	Message string
	Cause   error
}

func (e *ObserverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ObserverError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As at the API boundary
type ConfigurationError struct{ ObserverError }
type FetchError struct{ ObserverError }
type DecodeError struct{ ObserverError }
type DatabaseError struct{ ObserverError }
type ValidationError struct{ ObserverError }

// -----------------------------------------------------------------------------

func NewFetchError(msg string, cause error) *FetchError {
	return &FetchError{ObserverError{Message: msg, Cause: cause}}
}

func NewDecodeError(msg string, cause error) *DecodeError {
	return &DecodeError{ObserverError{Message: msg, Cause: cause}}
}

func NewDatabaseError(msg string, cause error) *DatabaseError {
	return &DatabaseError{ObserverError{Message: msg, Cause: cause}}
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{ObserverError{Message: fmt.Sprintf(format, args...)}}
}

func NewConfigurationError(msg string, cause error) *ConfigurationError {
	return &ConfigurationError{ObserverError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------

// IsFetchError reports whether err (or anything it wraps) is a transport failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	var de *DecodeError
	return errors.As(err, &fe) || errors.As(err, &de)
}

// IsValidationError reports whether err is a rejected input.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff runs fn up to maxRetries+1 times, doubling baseDelay between
// attempts. It stops early on a Permanent error or when ctx is done. log may be nil.
func RetryWithBackoff[T any](ctx context.Context, log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	attempts := maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		lastErr = err
		if attempt == attempts-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, attempts, operation, err, delay)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%s: %w (last error: %v)", operation, ctx.Err(), lastErr)
		case <-time.After(delay):
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, lastErr)
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger     *logger.Logger
	ErrorCount int
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.ErrorCount = 0
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) Handle(err error, context string) {
	if err != nil {
		e.ErrorCount++
		e.Logger.Error("Error in %s: %v", context, err)
	}
}
