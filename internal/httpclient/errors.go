package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError represents a non-2xx reply from an upstream service.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
	RetryAfter string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}

// Transient reports whether the status is worth retrying.
func (e *UpstreamError) Transient() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return e.StatusCode >= 500
}

// TransportError wraps a failure to exchange or decode a request.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransient reports whether err came from the network or from an
// upstream status that may succeed on retry.
func IsTransient(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Transient()
	}
	var te *TransportError
	return errors.As(err, &te)
}
