package errors

import "net/http"

// ErrorCode is the stable machine-readable code sent to clients
type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrSelfReference  ErrorCode = "SELF_REFERENCE"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrRateLimited    ErrorCode = "RATE_LIMITED"
	ErrTimeout        ErrorCode = "TIMEOUT"
	ErrServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"

	// Duplicate-state conflicts
	ErrCodeAlreadyFollowing  ErrorCode = "ALREADY_FOLLOWING"
	ErrCodeNotFollowing      ErrorCode = "NOT_FOLLOWING"
	ErrCodeAlreadyLiked      ErrorCode = "ALREADY_LIKED"
	ErrCodeNotLiked          ErrorCode = "NOT_LIKED"
	ErrCodeAlreadyBookmarked ErrorCode = "ALREADY_BOOKMARKED"
	ErrCodeNotBookmarked     ErrorCode = "NOT_BOOKMARKED"
)

// Kind classifies an error for propagation and status mapping.
type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindSelfReference
	KindUnauthorized
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindSelfReference:
		return "self_reference"
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "store"
	}
}

// StatusCode returns the HTTP status for a kind. Duplicate-state conflicts
// map to 400.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindConflict, KindSelfReference:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
