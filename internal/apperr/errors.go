// Package apperr carries the error taxonomy every booking gate reports
// through: the HTTP boundary maps each Kind to a status code without
// inspecting messages or store internals.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

type Kind string

const (
	// KindValidation: bad input or business-rule violation, the caller
	// must change the request to retry meaningfully.
	KindValidation Kind = "validation"
	// KindConflict: room overlap or double booking, retryable with
	// different input or timing.
	KindConflict Kind = "conflict"
	// KindVersionConflict: optimistic-concurrency version mismatch.
	KindVersionConflict Kind = "version_conflict"
	// KindRateLimit: denied by the rate limiter, retryable after backoff.
	KindRateLimit Kind = "rate_limit"
	// KindNotFound: referenced room/booking absent.
	KindNotFound Kind = "not_found"
	// KindForbidden: caller is not allowed to mutate this resource.
	KindForbidden Kind = "forbidden"
	// KindTransient: lock-wait timeout or store unavailability,
	// retryable as-is.
	KindTransient Kind = "transient"
	// KindInternal: everything else.
	KindInternal Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	// RetryAfter is only set for KindRateLimit denials.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validationf(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func VersionConflictf(format string, args ...any) *Error {
	return New(KindVersionConflict, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func Transientf(format string, args ...any) *Error {
	return New(KindTransient, format, args...)
}

func RateLimited(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Message:    fmt.Sprintf("rate limit exceeded, retry after %ds", int(retryAfter.Seconds())),
		RetryAfter: retryAfter,
	}
}

// KindOf extracts the taxonomy kind; unrecognized errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// RetryAfterOf returns the backoff hint for rate-limit denials, 0 otherwise.
func RetryAfterOf(err error) time.Duration {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.RetryAfter
	}
	return 0
}
