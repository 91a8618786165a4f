// Package clients holds the outbound HTTP client used for upstream APIs.
package clients

import "errors"

// Transport-level failures. The acl package turns them into domain errors.
var (
	// ErrCircuitOpen means the upstream has failed repeatedly and calls are being refused.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last error once every attempt has failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
