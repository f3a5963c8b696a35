// Package log provides sitekit's slog setup.
//
// Loggers created here wrap the text or JSON handler in a RedactingHandler,
// which masks secrets before a record is written:
//   - attributes whose key names a credential (token, cookie, authorization)
//   - values that look like credentials (bearer tokens, JWTs, long keys)
//   - user info and sensitive query parameters inside URL values
//
// The resource loader logs the URL of every failed request, and site URLs
// may carry signed query strings, so URL scrubbing is always on.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Warn("failed to load resource", "url", "https://x.io/d.json?token=abc")
//	// url=https://x.io/d.json?token=***REDACTED***
package log
