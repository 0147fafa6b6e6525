package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// "host:port" form with a port between 1 and 65535.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrBodyTooLarge is returned when a response body exceeds the
	// configured maximum size. The body is discarded rather than truncated.
	ErrBodyTooLarge = errors.New("response body exceeds maximum size")
)

// HTTPError is returned when the server answers with a non-2xx status.
type HTTPError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// URL is the requested URL.
	URL string
}

// Error implements error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// IsNotFound reports whether err is an HTTPError with status 404.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}
