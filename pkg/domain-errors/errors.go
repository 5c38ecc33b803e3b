package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and caller handling.
type Code string

const (
	// CodeValidation marks caller-supplied input that fails range or logic
	// checks. Recoverable by the caller, never retried.
	CodeValidation Code = "validation_error"
	// CodeNotFound marks a missing or expired resource (snapshot, preset).
	CodeNotFound Code = "not_found"
	// CodeUpstream marks a registry API rejection or failure. The upstream
	// HTTP status rides along in Status.
	CodeUpstream Code = "upstream_error"
	// CodeCapabilityUnavailable marks the advanced-search endpoint being
	// unreachable, surfaced distinctly so callers can degrade gracefully.
	CodeCapabilityUnavailable Code = "capability_unavailable"
	// CodeRateLimited marks a rejected client request on the /api surface.
	CodeRateLimited Code = "rate_limited"
	// CodeInternal is the catch-all for everything the caller cannot fix.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Status is only meaningful for CodeUpstream,
// where it carries the upstream HTTP status.
type Error struct {
	Code    Code
	Message string
	Status  int
	wrapped error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error, preserving the chain.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

// Upstream builds an upstream error carrying the registry's HTTP status.
func Upstream(status int, message string) *Error {
	return &Error{Code: CodeUpstream, Message: message, Status: status}
}

// HasCode reports whether err is (or wraps) a domain error with the code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// UpstreamStatus returns the upstream HTTP status carried by an upstream
// error, or 0 when err is not one.
func UpstreamStatus(err error) int {
	var de *Error
	if errors.As(err, &de) && de.Code == CodeUpstream {
		return de.Status
	}
	return 0
}

// ToHTTPStatus maps a domain error onto an HTTP response status.
func ToHTTPStatus(err error) int {
	var de *Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeCapabilityUnavailable:
		return http.StatusServiceUnavailable
	case CodeUpstream:
		if de.Status >= 400 && de.Status < 600 {
			return de.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
