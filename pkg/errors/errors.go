package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// Region errors
	ErrUnknownRegion = errors.New("unknown region")

	// Payload errors
	ErrInvalidPayload      = errors.New("transaction must be bytes or string")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// Submission errors
	ErrInvalidResponse    = errors.New("invalid response format: missing 'result' field")
	ErrSubmissionRejected = errors.New("transaction submission failed")
)

// RegionError represents a region-lookup error
type RegionError struct {
	Code string
	Err  error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region '%s': %v", e.Code, e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}

// TransportError represents a network-level failure during submission.
// StatusCode is zero when the request never produced an HTTP response.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error (%s): HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("transport error (%s): %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RPCError represents an error object returned inside a well-formed
// JSON-RPC response envelope. Never retried.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("transaction submission failed: %s", e.Message)
}

func (e *RPCError) Unwrap() error {
	return ErrSubmissionRejected
}

// IsTransport reports whether err is a network-level failure that is
// safe to retry. Everything else (rpc rejections, malformed responses,
// bad input) is definitive.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
