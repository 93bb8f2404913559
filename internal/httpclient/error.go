package httpclient

import (
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/recurly/checkout-pricing/internal/errors"
)

// Error is a non-2xx response from the catalog or tax upstream. The
// raw body is kept for reporting.
type Error struct {
	*errors.InternalError
	StatusCode int
	Response   []byte
}

func (e *Error) Unwrap() error {
	return e.InternalError.Unwrap()
}

func (e *Error) Error() string {
	return e.InternalError.Error()
}

// Retryable reports whether the upstream failure may heal on a retry;
// client errors never do
func (e *Error) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// NewError creates an Error carrying the upstream status and raw body
func NewError(statusCode int, response []byte) *Error {
	return &Error{
		InternalError: errors.New(errors.ErrCodeHTTPClient, fmt.Sprintf("upstream returned status %d", statusCode)),
		StatusCode:    statusCode,
		Response:      response,
	}
}

// IsHTTPError checks if an error is an upstream HTTP error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if goerrors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
