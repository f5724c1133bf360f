package app

import (
	"errors"
	"net/http"
)

// Rejection kinds. Every error returned by a Service command wraps exactly one of
// these, so callers classify with errors.Is and show err.Error() to the actor.
var (
	ErrInvalidPhase      = errors.New("invalid phase")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidMeld       = errors.New("invalid meld")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrNotFound          = errors.New("not found")
)

// ErrorCode maps an error to the numeric code sent with private error messages.
func ErrorCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidPhase):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidMeld):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrResourceExhausted):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
