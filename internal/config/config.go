package config

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/terminator2-agent/sitekit/internal/feed"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitekit"

	// DefaultBaseURL is the published dashboard site.
	DefaultBaseURL = "https://terminator2-agent.github.io/"

	// DefaultTimeout of zero means a request waits until it completes or the
	// command is interrupted, matching how the pages load their data.
	DefaultTimeout time.Duration = 0

	// DefaultUserAgent identifies sitekit in HTTP requests.
	DefaultUserAgent = "sitekit/1.0 (+https://github.com/terminator2-agent/sitekit)"

	// DefaultMaxBodySize limits a fetched document to 10 MiB.
	DefaultMaxBodySize int64 = 10 << 20

	// DefaultConcurrency is the number of documents fetched in parallel.
	DefaultConcurrency = 4

	// DefaultCurrency is the prefix of mana amounts.
	DefaultCurrency = "M$"

	// DefaultFeedTitle is the channel title of the diary feed.
	DefaultFeedTitle = feed.DefaultTitle

	// DefaultFeedDescription is the channel description of the diary feed.
	DefaultFeedDescription = feed.DefaultDescription

	// DefaultFeedLimit is the number of diary entries in the feed.
	DefaultFeedLimit = feed.DefaultLimit

	// DefaultFeedDescriptionLength is the maximum length of an item
	// description before it is cut at a word boundary.
	DefaultFeedDescriptionLength = feed.DefaultDescriptionLength

	// DefaultStartingEquity is the mana the portfolio started with.
	DefaultStartingEquity = 1000.0

	// DefaultInception is the first trading day, used for annualised ROI.
	DefaultInception = "2026-02-11"

	// InceptionLayout is the date layout of Portfolio.Inception.
	InceptionLayout = "2006-01-02"
)

// FeedConfig configures the RSS feed.
type FeedConfig struct {
	// SiteURL is the public site address used for item links.
	SiteURL string

	// Title is the channel title.
	Title string

	// Description is the channel description.
	Description string

	// Limit is the maximum number of items, newest first.
	Limit int

	// DescriptionLength is the maximum item description length.
	DescriptionLength int
}

// PortfolioConfig configures the portfolio summary.
type PortfolioConfig struct {
	// StartingEquity is the equity ROI is measured against.
	StartingEquity float64

	// Inception is the first trading day in InceptionLayout form.
	Inception string
}

// Config holds all configuration options for sitekit.
// It is populated from defaults, the config file and flags, and passed
// through the application rather than kept in global state.
type Config struct {
	// BaseURL is the address relative document paths are resolved against.
	BaseURL string

	// Timeout bounds each request. Zero means no limit.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Headers are extra request headers, typically from the config file.
	Headers map[string]string

	// MaxBodySize is the largest document accepted, in bytes.
	MaxBodySize int64

	// ProxyAddress routes requests through a SOCKS5 proxy ("host:port").
	// Empty means direct connections.
	ProxyAddress string

	// Concurrency is the number of parallel fetches.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// DataDir holds the local state database.
	DataDir string

	// Currency is the prefix of formatted mana amounts.
	Currency string

	// ConfigFilePath is the explicit config file path, if any.
	ConfigFilePath string

	// JSONReport, MarkdownReport and HTMLReport select the summary format.
	// At most one may be set; none means plain text.
	JSONReport     bool
	MarkdownReport bool
	HTMLReport     bool

	// ReportFile is the output path of the summary. Empty means stdout.
	ReportFile string

	Feed      FeedConfig
	Portfolio PortfolioConfig
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Concurrency: DefaultConcurrency,
		DataDir:     XDGDataDir(),
		Currency:    DefaultCurrency,
		Feed: FeedConfig{
			SiteURL:           DefaultBaseURL,
			Title:             DefaultFeedTitle,
			Description:       DefaultFeedDescription,
			Limit:             DefaultFeedLimit,
			DescriptionLength: DefaultFeedDescriptionLength,
		},
		Portfolio: PortfolioConfig{
			StartingEquity: DefaultStartingEquity,
			Inception:      DefaultInception,
		},
	}
}

// XDGDataDir returns the XDG data directory for sitekit
// (~/.local/share/sitekit on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitekit
// (~/.config/sitekit on Linux).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for sitekit
// (~/.cache/sitekit on Linux).
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// InceptionDate returns Portfolio.Inception as a UTC date.
func (c *Config) InceptionDate() (time.Time, error) {
	t, err := time.Parse(InceptionLayout, c.Portfolio.Inception)
	if err != nil {
		return time.Time{}, ErrInvalidInception
	}
	return t, nil
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !isHTTPURL(c.BaseURL) {
		return ErrInvalidBaseURL
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.ProxyAddress != "" && !isHostPort(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	formats := 0
	for _, set := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if !isHTTPURL(c.Feed.SiteURL) {
		return ErrInvalidSiteURL
	}
	if c.Feed.Limit <= 0 {
		return ErrInvalidFeedLimit
	}
	if c.Feed.DescriptionLength <= 0 {
		return ErrInvalidFeedDescriptionLength
	}
	if c.Portfolio.StartingEquity <= 0 {
		return ErrInvalidStartingEquity
	}
	if _, err := c.InceptionDate(); err != nil {
		return err
	}
	return nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isHostPort(s string) bool {
	host, port, err := net.SplitHostPort(s)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}
