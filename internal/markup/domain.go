package markup

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Domain classifies a link by its host.
// The zero value, DomainNone, means the host is not one of the known sites.
type Domain int

const (
	// DomainNone is any host without special treatment.
	DomainNone Domain = iota

	// DomainManifold is manifold.markets, the prediction market.
	DomainManifold

	// DomainMoltbook is moltbook.com, the agent forum.
	DomainMoltbook

	// DomainMetaculus is metaculus.com, the forecasting platform.
	DomainMetaculus
)

// String returns a short lowercase name for the domain.
func (d Domain) String() string {
	switch d {
	case DomainNone:
		return "none"
	case DomainManifold:
		return "manifold"
	case DomainMoltbook:
		return "moltbook"
	case DomainMetaculus:
		return "metaculus"
	default:
		return "unknown"
	}
}

// Class returns the CSS class attached to anchors for the domain,
// or an empty string for DomainNone.
func (d Domain) Class() string {
	if m := matcherFor(d); m != nil {
		return m.class
	}
	return ""
}

const (
	// displayLimit is the maximum number of characters of a shortened slug.
	displayLimit = 50

	// ellipsisThreshold is the URL length above which a truncated slug
	// gets an ellipsis marker.
	ellipsisThreshold = 60

	ellipsis = "..."
)

// domainMatcher describes how one known site is recognised and how bare
// links to it are shortened for display.
type domainMatcher struct {
	domain Domain

	// host matches the URL host exactly or as a parent domain.
	host string

	class string

	// prefix is stripped from the URL to obtain the display slug.
	prefix *regexp.Regexp

	// dashesToSpaces turns slug word separators into spaces.
	dashesToSpaces bool

	// trimSlash removes one trailing slash from the slug.
	trimSlash bool
}

// matchers is tried in order; the first host match wins.
var matchers = []domainMatcher{
	{
		domain:         DomainManifold,
		host:           "manifold.markets",
		class:          "manifold-link",
		prefix:         regexp.MustCompile(`^https?://manifold\.markets/[^/]+/`),
		dashesToSpaces: true,
	},
	{
		domain: DomainMoltbook,
		host:   "moltbook.com",
		class:  "moltbook-link",
		prefix: regexp.MustCompile(`^https?://www\.moltbook\.com/`),
	},
	{
		domain:         DomainMetaculus,
		host:           "metaculus.com",
		class:          "metaculus-link",
		prefix:         regexp.MustCompile(`^https?://www\.metaculus\.com/questions/\d+/`),
		dashesToSpaces: true,
		trimSlash:      true,
	},
}

func matcherFor(d Domain) *domainMatcher {
	for i := range matchers {
		if matchers[i].domain == d {
			return &matchers[i]
		}
	}
	return nil
}

// classify returns the matcher for the URL's host, or nil.
func classify(rawURL string) *domainMatcher {
	host := hostOf(rawURL)
	if host == "" {
		return nil
	}
	for i := range matchers {
		m := &matchers[i]
		if host == m.host || strings.HasSuffix(host, "."+m.host) {
			return m
		}
	}
	return nil
}

// Classify returns the Domain of a URL based on its host.
func Classify(rawURL string) Domain {
	if m := classify(rawURL); m != nil {
		return m.domain
	}
	return DomainNone
}

// hostOf extracts the lowercase host of an absolute URL without parsing the
// rest of it. Linkified URLs are escaped text, not necessarily valid
// net/url input, so a lenient split is used instead.
func hostOf(rawURL string) string {
	i := strings.Index(rawURL, "://")
	if i < 0 {
		return ""
	}
	rest := rawURL[i+3:]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}
	if at := strings.LastIndexByte(rest, '@'); at >= 0 {
		rest = rest[at+1:]
	}
	if colon := strings.LastIndexByte(rest, ':'); colon >= 0 && !strings.Contains(rest[colon:], "]") {
		rest = rest[:colon]
	}
	return strings.ToLower(rest)
}

// DisplayText returns the visible text used for a bare URL. Known-domain
// URLs are shortened to their slug; everything else is shown verbatim.
func DisplayText(rawURL string) string {
	return displayText(rawURL, classify(rawURL))
}

func displayText(rawURL string, m *domainMatcher) string {
	if m == nil {
		return rawURL
	}
	loc := m.prefix.FindStringIndex(rawURL)
	if loc == nil {
		return rawURL
	}

	slug := rawURL[loc[1]:]
	if m.dashesToSpaces {
		slug = strings.ReplaceAll(slug, "-", " ")
	}
	if m.trimSlash {
		slug = strings.TrimSuffix(slug, "/")
	}
	if slug == "" || slug == rawURL {
		return rawURL
	}

	if utf8.RuneCountInString(slug) > displayLimit {
		slug = string([]rune(slug)[:displayLimit])
		if utf8.RuneCountInString(rawURL) > ellipsisThreshold {
			slug += ellipsis
		}
	}
	return slug
}
