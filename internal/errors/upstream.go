package errors

import "fmt"

// UpstreamError carries a failed response from a remote HTTP service
// (the OAuth provider or an identity endpoint). It propagates unmodified
// to the request boundary; there is no automatic retry or fallback.
type UpstreamError struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int
	// Message describes what the caller was doing when the upstream failed,
	// or the provider's own error string when it returned one.
	Message string
	// Body is the raw upstream response body, kept for logging.
	Body string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Definitive reports whether the failure is a definitive rejection (the
// upstream understood the request and said no) rather than a transient
// fault. 4xx responses are definitive; everything else may resolve on its
// own and should not discard client state.
func (e *UpstreamError) Definitive() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
