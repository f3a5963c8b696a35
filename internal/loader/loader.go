package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxBodySize limits a document to 10 MiB.
	DefaultMaxBodySize int64 = 10 << 20

	// DefaultConcurrency is the number of parallel requests in LoadAll.
	DefaultConcurrency = 4

	// cacheBustParam is the query parameter that defeats HTTP caches.
	cacheBustParam = "_t"
)

// Loader fetches JSON documents for one session.
type Loader struct {
	client      *http.Client
	baseURL     *url.URL
	rawBaseURL  string
	logger      *slog.Logger
	now         func() time.Time
	timeout     time.Duration
	maxBodySize int64
	concurrency int

	cache *Cache[json.RawMessage]

	// ctx is the session context; Close cancels it.
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithBaseURL resolves relative paths against base.
func WithBaseURL(base string) Option {
	return func(l *Loader) {
		l.rawBaseURL = base
	}
}

// WithLogger sets the logger for failed loads.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock sets the time source of the cache-busting parameter.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// WithTimeout bounds each request. Zero, the default, means requests wait
// until the session is closed.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d >= 0 {
			l.timeout = d
		}
	}
}

// WithMaxBodySize limits the size of a document in bytes.
func WithMaxBodySize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBodySize = n
		}
	}
}

// WithConcurrency limits how many paths LoadAll loads at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// New starts a session.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		client:      http.DefaultClient,
		logger:      slog.Default(),
		now:         time.Now,
		maxBodySize: DefaultMaxBodySize,
		concurrency: DefaultConcurrency,
		cache:       NewCache[json.RawMessage](),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.rawBaseURL != "" {
		u, err := url.Parse(l.rawBaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, l.rawBaseURL)
		}
		l.baseURL = u
	}

	l.ctx, l.cancel = context.WithCancel(context.Background())
	return l, nil
}

// Load returns the JSON document at path, or nil if it could not be loaded.
//
// Only the first Load of a path string issues a request; later calls share
// its outcome. ctx bounds how long this caller waits, not the request
// itself: when ctx ends first, Load returns nil and the request continues
// for other callers.
func (l *Loader) Load(ctx context.Context, path string) json.RawMessage {
	f, _ := l.future(path)
	doc, _ := f.Wait(ctx)
	return doc
}

// LoadInto decodes the document at path into v. It reports false when the
// document is missing or does not decode into v.
func (l *Loader) LoadInto(ctx context.Context, path string, v any) bool {
	doc := l.Load(ctx, path)
	if doc == nil {
		return false
	}
	if err := json.Unmarshal(doc, v); err != nil {
		l.logger.Warn("failed to decode resource",
			"path", path,
			"error", err,
		)
		return false
	}
	return true
}

// LoadAll loads several paths concurrently and returns their documents in
// the same order. Duplicate paths share one request.
func (l *Loader) LoadAll(ctx context.Context, paths ...string) []json.RawMessage {
	docs := make([]json.RawMessage, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			docs[i] = l.Load(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return docs
}

// Prefetch starts loading paths without waiting for them. Later Loads of
// the same paths share these requests.
func (l *Loader) Prefetch(paths ...string) {
	for _, path := range paths {
		l.future(path)
	}
}

// Cached returns the paths requested so far in this session.
func (l *Loader) Cached() []string {
	return l.cache.Keys()
}

// Close ends the session. In-flight requests are cancelled and Close waits
// for them. Loads after Close return nil unless the path was already
// settled.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		l.cancel()
		l.cache.Close()
		l.client.CloseIdleConnections()
	})
}

// future returns the shared future for path, starting the request when the
// path is new.
func (l *Loader) future(path string) (*Future[json.RawMessage], bool) {
	return l.cache.GetOrCreate(path, func() json.RawMessage {
		return l.fetch(path)
	})
}

// fetch performs the single request for path and logs any failure.
func (l *Loader) fetch(path string) json.RawMessage {
	target, err := l.requestURL(path)
	if err != nil {
		l.logger.Warn("failed to load resource", "path", path, "error", err)
		return nil
	}

	ctx := l.ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	doc, err := l.get(ctx, target)
	if err != nil {
		l.logger.Warn("failed to load resource",
			"path", path,
			"url", target,
			"error", err,
		)
		return nil
	}

	l.logger.Debug("loaded resource",
		"path", path,
		"bytes", len(doc),
		"duration", time.Since(start),
	)
	return doc
}

// requestURL appends the cache-busting parameter to path and resolves it
// against the base URL.
func (l *Loader) requestURL(path string) (string, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	busted := path + sep + cacheBustParam + "=" + strconv.FormatInt(l.now().UnixMilli(), 10)

	if l.baseURL == nil {
		return busted, nil
	}
	ref, err := url.Parse(busted)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	return l.baseURL.ResolveReference(ref).String(), nil
}

func (l *Loader) get(ctx context.Context, target string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: HTTP %d", ErrHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > l.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, l.maxBodySize)
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}
	if bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}
