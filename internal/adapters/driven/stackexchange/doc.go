// Package stackexchange implements the post lookup port over the Stack
// Exchange API v2.3.
//
// Requests are throttled with a token bucket, and the API's backoff
// field is honoured before the next request is sent.
package stackexchange
