// Package transport is the authenticated HTTP client shared by the Rootly
// and Glean adapters.
//
// Every request carries a static bearer token, is throttled by a token
// bucket and is retried with exponential backoff on 429, 5xx and network
// errors. Retry-After is honoured. Other 4xx responses fail immediately.
package transport
