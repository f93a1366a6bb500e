package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL means the base URL + path did not form a valid URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidRequest means the request body could not be serialized.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidResponse means the response was malformed or could not be read.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrDecoding means a response body could not be decoded into the
	// expected record. Never retried: it indicates a contract mismatch.
	ErrDecoding = errors.New("decoding error")

	// ErrAuthenticationFailed is surfaced when the retry budget for forced
	// reauthentication is exhausted, or when no way to authenticate exists.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// ServerError is a non-2xx response outside the retryable classes. Detail
// carries the optional `detail` field of the error body when present.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// NetworkKind classifies transport-level failures.
type NetworkKind string

const (
	NetworkConnectivityLost NetworkKind = "connectivity_lost"
	NetworkTimeout          NetworkKind = "timeout"
	NetworkHostUnreachable  NetworkKind = "host_unreachable"
	NetworkGeneric          NetworkKind = "generic"
)

// NetworkError wraps a transport failure with its classification.
type NetworkError struct {
	Kind NetworkKind
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error (%s): %v", e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
