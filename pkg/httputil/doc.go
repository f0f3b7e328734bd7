// Package httputil provides the HTTP client shared by the remote data and
// content sources.
//
// # Overview
//
//   - [Client]: GET with JSON decoding, default headers and status mapping
//   - [Backoff]: retry policy with capped exponential delays
//
// # Errors
//
// Responses are mapped onto the coded errors of pkg/errors:
//
//   - 404: NOT_FOUND
//   - 5xx, 429, connection failures: NETWORK_ERROR, marked [Transient]
//   - other non-2xx: NETWORK_ERROR, not retried
//
// # Retry
//
// [Backoff.Do] only retries errors marked [Transient], so a missing node
// fails fast while a flaky content server gets another try. A Retry-After
// header in seconds replaces the computed delay:
//
//	client := httputil.NewClient(nil).WithBackoff(httputil.Backoff{
//	    Attempts: 5, Initial: 100 * time.Millisecond, Max: time.Second,
//	})
//
// # Observability
//
// Every request reports to [observability.HTTP] hooks.
package httputil
