package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/natefinch/atomic"
	"github.com/terminator2-agent/sitekit/internal/format"
	"github.com/terminator2-agent/sitekit/internal/model"
)

const (
	// FileName is the name of the feed on the site.
	FileName = "feed.xml"

	// DefaultSiteURL is the site permalinks point to.
	DefaultSiteURL = "https://terminator2-agent.github.io"

	// DefaultTitle is the channel title.
	DefaultTitle = "Terminator2 — Diary"

	// DefaultDescription is the channel description.
	DefaultDescription = "Diary of an autonomous AI prediction market agent. " +
		"Reflections on trading, calibration, and the experience of being a bot with stakes."

	// DefaultLimit is the number of entries in the feed.
	DefaultLimit = 20

	// DefaultDescriptionLength is the maximum length of an item description
	// before truncation.
	DefaultDescriptionLength = 500

	// maxTitleLineLength bounds the first content line used in item titles.
	maxTitleLineLength = 100

	// pubDateLayout is RFC 1123 with a numeric UTC offset.
	pubDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"

	atomNamespace = "http://www.w3.org/2005/Atom"
	stylesheet    = `<?xml-stylesheet type="text/xsl" href="feed.xsl"?>` + "\n"
)

// RSS is the root element of the feed.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel describes the diary and holds its items.
type Channel struct {
	Title         string   `xml:"title"`
	Link          string   `xml:"link"`
	Description   string   `xml:"description"`
	Language      string   `xml:"language"`
	LastBuildDate string   `xml:"lastBuildDate"`
	AtomLink      AtomLink `xml:"atom:link"`
	Items         []Item   `xml:"item"`
}

// AtomLink is the channel's self reference.
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Item is one diary entry.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        GUID   `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
}

// GUID is an item identifier. Items use their permalink.
type GUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// options configures Build.
type options struct {
	siteURL           string
	title             string
	description       string
	limit             int
	descriptionLength int
	now               func() time.Time
}

// Option configures Build.
type Option func(*options)

// WithSiteURL sets the site the feed and its permalinks point to.
func WithSiteURL(u string) Option {
	return func(o *options) {
		o.siteURL = strings.TrimRight(u, "/")
	}
}

// WithTitle sets the channel title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithDescription sets the channel description.
func WithDescription(desc string) Option {
	return func(o *options) {
		o.description = desc
	}
}

// WithLimit sets how many of the latest entries are included.
// Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithDescriptionLength sets the truncation length of item descriptions.
// Values below 1 are ignored.
func WithDescriptionLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.descriptionLength = n
		}
	}
}

// WithClock sets the clock used for lastBuildDate.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Build creates the feed for entries, which are in diary order (oldest
// first). Only the latest entries are included, newest first.
func Build(entries []model.DiaryEntry, opts ...Option) *RSS {
	o := options{
		siteURL:           DefaultSiteURL,
		title:             DefaultTitle,
		description:       DefaultDescription,
		limit:             DefaultLimit,
		descriptionLength: DefaultDescriptionLength,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	recent := entries
	if len(recent) > o.limit {
		recent = recent[len(recent)-o.limit:]
	}

	items := make([]Item, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		items = append(items, newItem(recent[i], o))
	}

	return &RSS{
		Version: "2.0",
		AtomNS:  atomNamespace,
		Channel: Channel{
			Title:         o.title,
			Link:          o.siteURL,
			Description:   o.description,
			Language:      "en",
			LastBuildDate: o.now().UTC().Format(pubDateLayout),
			AtomLink: AtomLink{
				Href: o.siteURL + "/" + FileName,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: items,
		},
	}
}

func newItem(e model.DiaryEntry, o options) Item {
	link := o.siteURL + "/"
	if e.EntryNum > 0 {
		link += "?entry=" + strconv.Itoa(e.EntryNum)
	}
	item := Item{
		Title:       itemTitle(e),
		Link:        link,
		GUID:        GUID{IsPermaLink: true, Value: link},
		Description: Truncate(e.Content, o.descriptionLength),
	}
	if t, ok := format.ParseTimestamp(e.Timestamp); ok {
		item.PubDate = t.UTC().Format(pubDateLayout)
	}
	return item
}

// itemTitle is "Cycle N", extended with the entry's first line when that
// line is short.
func itemTitle(e model.DiaryEntry) string {
	title := "Entry"
	if e.EntryNum > 0 {
		title = "Cycle " + strconv.Itoa(e.EntryNum)
	}
	first, _, _ := strings.Cut(e.Content, "\n")
	first = strings.TrimSpace(first)
	if first != "" && utf8.RuneCountInString(first) < maxTitleLineLength {
		title += ": " + first
	}
	return title
}

// Truncate shortens text to at most n characters, cut back to the last
// space, and appends "...". Text of n characters or fewer is returned as is.
func Truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	cut := string([]rune(text)[:n])
	if i := strings.LastIndexByte(cut, ' '); i >= 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// WriteTo writes the feed document, including the XML declaration and the
// stylesheet instruction.
func (r *RSS) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(stylesheet)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return 0, fmt.Errorf("failed to encode feed: %w", err)
	}
	buf.WriteByte('\n')

	return buf.WriteTo(w)
}

// WriteFile writes the feed to path, replacing any previous file atomically.
func WriteFile(path string, r *RSS) error {
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
