package domain

import (
	"errors"
	"fmt"
)

// APIError is returned when a node was reached and explicitly rejected the
// request. Surfaced to the caller, never retried automatically.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("node rejected request: HTTP %d: %s", e.Status, e.Body)
}

// NetworkError is returned when an endpoint was unreachable, the connection
// was blocked (CORS, mixed content), or the call timed out. Retried only by
// the polling cadence, never by tight loops.
type NetworkError struct {
	Endpoint string
	Cause    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("endpoint %s unreachable: %v", e.Endpoint, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// RequestError is returned when the local request was malformed before any
// network traffic happened.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// SigningError is returned when a deploy could not be signed. Fatal to the
// single operation, never retried.
type SigningError struct {
	Message string
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %s", e.Message)
}

// DeployFailedError wraps any submission failure into the single error shape
// surfaced to the send/deploy action.
type DeployFailedError struct {
	Reason string
	Cause  error
}

func (e *DeployFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("deploy failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("deploy failed: %s", e.Reason)
}

func (e *DeployFailedError) Unwrap() error { return e.Cause }

// IndexerUnavailableError is returned when the indexing service could not be
// queried (unreachable, mixed-content blocked, or rejecting requests).
// Triggers the block-scan fallback, not user-visible unless the fallback
// also fails.
type IndexerUnavailableError struct {
	Endpoint string
	Reason   string
}

func (e *IndexerUnavailableError) Error() string {
	return fmt.Sprintf("indexer %s unavailable: %s", e.Endpoint, e.Reason)
}

// IsNetworkError reports whether err classifies as a transport failure
// (node or indexer unreachable). Callers branch on this, never on raw
// transport errors.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsIndexerUnavailable reports whether err means the indexer cannot be used
// and the fallback path should run.
func IsIndexerUnavailable(err error) bool {
	var ie *IndexerUnavailableError
	return errors.As(err, &ie)
}

// IsTransport reports whether err is any transport-class failure, the class
// counted by the polling orchestrator's circuit breaker.
func IsTransport(err error) bool {
	return IsNetworkError(err) || IsIndexerUnavailable(err)
}

// IsAPIError reports whether err is an explicit rejection by the node.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
