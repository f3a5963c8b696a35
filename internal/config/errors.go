package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrInvalidTimeout is returned when the timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative (0 disables it)")

	// ErrInvalidMaxBodySize is returned when the body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidProxyAddress is returned when the proxy is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --html is given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown and --html")

	// ErrInvalidSiteURL is returned when the feed site URL is not an
	// absolute http(s) URL.
	ErrInvalidSiteURL = errors.New("invalid feed site URL: must be an absolute http(s) URL")

	// ErrInvalidFeedLimit is returned when the feed item limit is not positive.
	ErrInvalidFeedLimit = errors.New("invalid feed limit: must be positive")

	// ErrInvalidFeedDescriptionLength is returned when the description
	// length is not positive.
	ErrInvalidFeedDescriptionLength = errors.New("invalid feed description length: must be positive")

	// ErrInvalidStartingEquity is returned when the starting equity is not positive.
	ErrInvalidStartingEquity = errors.New("invalid starting equity: must be positive")

	// ErrInvalidInception is returned when the inception date is not YYYY-MM-DD.
	ErrInvalidInception = errors.New("invalid inception date: expected YYYY-MM-DD")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
