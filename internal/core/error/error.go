package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// ProviderUnavailableMessage is shown to the user once every fallback failed.
	ProviderUnavailableMessage = "Sorry, I encountered an error. Please try again later."
)

// Kind classifies an AppError so callers can branch without string matching.
type Kind string

const (
	KindInternal            Kind = "internal"
	KindInvalidInput        Kind = "invalid_input"
	KindSpawnFailed         Kind = "spawn_failed"
	KindWorkerFailed        Kind = "worker_failed"
	KindMalformedOutput     Kind = "malformed_output"
	KindUnparsableResult    Kind = "unparsable_result"
	KindInjectionFailed     Kind = "injection_failed"
	KindProviderCallFailed  Kind = "provider_call_failed"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindStorage             Kind = "storage"
	KindNotFound            Kind = "not_found"
)

// Sentinels usable with errors.Is; they match any AppError of the same Kind.
var (
	ErrInvalidInput        = &AppError{Kind: KindInvalidInput}
	ErrSpawnFailed         = &AppError{Kind: KindSpawnFailed}
	ErrWorkerFailed        = &AppError{Kind: KindWorkerFailed}
	ErrMalformedOutput     = &AppError{Kind: KindMalformedOutput}
	ErrUnparsableResult    = &AppError{Kind: KindUnparsableResult}
	ErrInjectionFailed     = &AppError{Kind: KindInjectionFailed}
	ErrProviderCallFailed  = &AppError{Kind: KindProviderCallFailed}
	ErrProviderUnavailable = &AppError{Kind: KindProviderUnavailable}
	ErrStorage             = &AppError{Kind: KindStorage}
	ErrNotFound            = &AppError{Kind: KindNotFound}
)

// AppError wraps an underlying error with a kind, an HTTP status and a safe message.
type AppError struct {
	Kind    Kind
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError by Kind, which makes the package sentinels work.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// New creates a new AppError with the provided information.
func New(kind Kind, err error, status int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Newf is New with a formatted message and no status override.
func Newf(kind Kind, err error, format string, args ...any) *AppError {
	return New(kind, err, statusFor(kind), fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of the first AppError in the chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// SafeMessage returns text that may be shown to an end user.
func SafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}

func statusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindWorkerFailed, KindMalformedOutput, KindUnparsableResult, KindProviderCallFailed, KindStorage:
		return http.StatusBadGateway
	case KindProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
