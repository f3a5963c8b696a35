package loader

import "errors"

// Errors recorded in the log when a load fails. Load itself returns nil.
var (
	// ErrHTTPStatus is wrapped when the server answers with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrInvalidJSON is wrapped when the body is not a JSON document.
	ErrInvalidJSON = errors.New("response is not valid JSON")

	// ErrBodyTooLarge is wrapped when the body exceeds the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrInvalidBaseURL is returned by New when the base URL does not parse
	// as an absolute URL.
	ErrInvalidBaseURL = errors.New("invalid base URL")
)
