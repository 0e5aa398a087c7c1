package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// APIError is the typed error returned by the store, the services and the
// API boundary. Kind drives propagation; Code and Message are client-facing.
type APIError struct {
	Kind    Kind      `json:"-"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Status  int       `json:"-"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field: %s)", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Sentinel duplicate-state and self-reference errors.
var (
	ErrAlreadyFollowing  = conflict(ErrCodeAlreadyFollowing, "already following this user")
	ErrNotFollowing      = conflict(ErrCodeNotFollowing, "not following this user")
	ErrAlreadyLiked      = conflict(ErrCodeAlreadyLiked, "post already liked")
	ErrNotLiked          = conflict(ErrCodeNotLiked, "post not liked")
	ErrAlreadyBookmarked = conflict(ErrCodeAlreadyBookmarked, "post already bookmarked")
	ErrNotBookmarked     = conflict(ErrCodeNotBookmarked, "post not bookmarked")

	ErrSelfFollow = &APIError{
		Kind:    KindSelfReference,
		Code:    ErrSelfReference,
		Message: "cannot follow or unfollow yourself",
		Status:  http.StatusBadRequest,
	}
)

func conflict(code ErrorCode, message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Code:    code,
		Message: message,
		Status:  KindConflict.StatusCode(),
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return &APIError{
		Kind:    KindUnauthorized,
		Code:    ErrUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// ValidationError creates a VALIDATION_ERROR for a single field
func ValidationError(field, message string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  http.StatusBadRequest,
	}
}

// RateLimited creates a RATE_LIMITED error
func RateLimited(message string) *APIError {
	if message == "" {
		message = "rate limit exceeded"
	}
	return &APIError{
		Kind:    KindRateLimited,
		Code:    ErrRateLimited,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// Store wraps a persistence failure. The client only ever sees a generic
// message; deadline and cancellation failures are reported as TIMEOUT.
func Store(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return &APIError{
			Kind:    KindStore,
			Code:    ErrTimeout,
			Message: "the request timed out",
			Status:  http.StatusGatewayTimeout,
			Err:     err,
		}
	}
	return &APIError{
		Kind:    KindStore,
		Code:    ErrInternalError,
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return &APIError{
		Kind:    KindStore,
		Code:    ErrServiceUnavail,
		Message: fmt.Sprintf("%s is temporarily unavailable", service),
		Status:  http.StatusServiceUnavailable,
	}
}

// From converts any error into an *APIError, treating unknown errors as
// store failures.
func From(err error) *APIError {
	if err == nil {
		return nil
	}
	return Store(err)
}

// KindOf classifies err. Unknown errors are store failures.
func KindOf(err error) Kind {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindStore
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsTimeout reports whether err is a store failure caused by a deadline or
// cancellation.
func IsTimeout(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.Code == ErrTimeout {
		return true
	}
	return stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled)
}
