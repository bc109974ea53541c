package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	dErrors "soukscan/pkg/domain-errors"
)

// ErrEmptyResponse is the cause reported when a 2xx response that should carry
// a body arrives without one.
var ErrEmptyResponse = errors.New("empty response body")

// ExternalServiceError reports a downstream call that did not complete:
// retries exhausted, a timeout, a connection failure or a non-2xx status.
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Cause      error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned %d: %v", e.Service, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Cause)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

// NotFound reports whether the downstream answered 404.
func (e *ExternalServiceError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Timeout reports whether the call ran out of time.
func (e *ExternalServiceError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Cause, &netErr) && netErr.Timeout()
}

// AsExternal unwraps err into an *ExternalServiceError.
func AsExternal(err error) (*ExternalServiceError, bool) {
	var ext *ExternalServiceError
	if errors.As(err, &ext) {
		return ext, true
	}
	return nil, false
}

// IsNotFound reports whether err is a downstream 404.
func IsNotFound(err error) bool {
	ext, ok := AsExternal(err)
	return ok && ext.NotFound()
}

// Classify attaches a transport code to a downstream failure: a 404 becomes
// not_found, anything else external_service_error. Errors that are not
// downstream failures are returned unchanged.
func Classify(err error, msg string) error {
	ext, ok := AsExternal(err)
	if !ok {
		return err
	}
	if ext.NotFound() {
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeExternalService, msg+": "+ext.Error())
}
