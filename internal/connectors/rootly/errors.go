package rootly

import "errors"

// Rootly-specific errors.
var (
	// ErrForeignCursor indicates a pagination link points away from the API host.
	// Following it would send the bearer token to another server.
	ErrForeignCursor = errors.New("rootly: pagination link leaves the API host")

	// ErrInvalidCursor indicates the pagination cursor could not be parsed.
	ErrInvalidCursor = errors.New("rootly: invalid pagination cursor")

	errMissingAttributes = errors.New("resource has no attributes")
)
