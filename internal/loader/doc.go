// Package loader fetches the site's JSON documents with per-session request
// de-duplication.
//
// A Loader is one session. The first Load of a path starts exactly one GET
// request; every later or concurrent Load of the same path string shares its
// result, success or failure, for the rest of the session. Each first
// request carries a "_t=<unix millis>" query parameter so intermediate HTTP
// caches never answer with a stale document.
//
// Load never returns an error. Transport failures, non-2xx responses and
// invalid JSON are logged and yield nil, and callers must nil-check:
//
//	l, err := loader.New(loader.WithBaseURL("https://example.github.io/"))
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	var snap model.Snapshot
//	if !l.LoadInto(ctx, "portfolio_data.json", &snap) {
//		// show the page without portfolio data
//	}
//
// Close ends the session: in-flight requests are cancelled and Close waits
// for their goroutines before returning.
package loader
