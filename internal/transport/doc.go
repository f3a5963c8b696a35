// Package transport builds the HTTP clients sitekit uses to fetch the site's
// JSON documents.
//
// A client can optionally route every connection through a SOCKS5 proxy
// (for example a local Tor or SSH tunnel). Requests carry the configured
// User-Agent and extra headers, which are injected by a RoundTripper so
// redirects get them too.
//
// Construct one Client per process and share its *http.Client; the
// underlying transport pools connections.
package transport
