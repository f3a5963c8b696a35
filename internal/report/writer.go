package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/terminator2-agent/sitekit/internal/format"
	"github.com/terminator2-agent/sitekit/internal/portfolio"
)

// Writer defines the interface for summary output.
type Writer interface {
	// Write renders the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(s *portfolio.Summary) (int, error)
}

// Format selects a Writer implementation.
type Format int

const (
	// FormatText selects TextWriter.
	FormatText Format = iota
	// FormatMarkdown selects MarkdownWriter.
	FormatMarkdown
	// FormatJSON selects JSONWriter.
	FormatJSON
	// FormatHTML selects HTMLWriter.
	FormatHTML
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// New returns the Writer for f. JSON output is pretty-printed.
func New(f Format, output io.Writer, opts ...Option) Writer {
	switch f {
	case FormatMarkdown:
		return NewMarkdownWriter(output, opts...)
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatHTML:
		return NewHTMLWriter(output, opts...)
	default:
		return NewTextWriter(output, opts...)
	}
}

// Option configures the human-readable writers.
type Option func(*baseWriter)

// WithCurrency replaces the "M$" prefix of amounts.
func WithCurrency(prefix string) Option {
	return func(w *baseWriter) {
		if prefix != "" {
			w.currency = prefix
		}
	}
}

// WithLocation sets the time zone of printed timestamps. The default is the
// local zone.
func WithLocation(loc *time.Location) Option {
	return func(w *baseWriter) {
		if loc != nil {
			w.loc = loc
		}
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output   io.Writer
	currency string
	loc      *time.Location
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts ...Option) baseWriter {
	w := baseWriter{
		output:   output,
		currency: format.DefaultManaPrefix,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// mana formats an amount with magnitude-based precision.
func (w baseWriter) mana(v float64) string {
	return format.FormatMana(v, format.WithPrefix(w.currency))
}

// wholeMana formats a nullable amount without decimals.
func (w baseWriter) wholeMana(v *float64) string {
	return format.FormatManaPtr(v, format.WithPrefix(w.currency), format.WithDecimals(0))
}

// timestamp formats t in the writer's zone, or Placeholder for the zero time.
func (w baseWriter) timestamp(t time.Time) string {
	if t.IsZero() {
		return format.Placeholder
	}
	return format.FormatTimestamp(t.In(w.loc))
}

// signedPercent formats v as "+12.5%".
func signedPercent(v *float64, decimals int) string {
	if v == nil {
		return format.Placeholder
	}
	sign := ""
	if !math.Signbit(*v) {
		sign = "+"
	}
	return sign + format.FormatNumber(*v, decimals) + "%"
}

// percent formats v as "80%".
func percent(v *float64) string {
	if v == nil {
		return format.Placeholder
	}
	return format.FormatNumber(*v, 0) + "%"
}

// edgeLabel formats an edge in whole percentage points.
func edgeLabel(p portfolio.EdgePosition) string {
	return format.FormatNumber(p.EdgePoints(), 0) + "pp"
}

// daysLabel formats a days-to-close value as "3d".
func daysLabel(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64) + "d"
}

// heartbeatLabel is the heartbeat with its grade, e.g. "12m ago (fresh)".
func heartbeatLabel(h portfolio.Heartbeat) string {
	if h.Status == portfolio.FreshnessUnknown {
		return format.Placeholder
	}
	return fmt.Sprintf("%s (%s)", h.Label, h.Status)
}

// suspensionLabel describes the moltbook account state.
func suspensionLabel(s *portfolio.SuspensionStatus) string {
	switch {
	case s == nil:
		return "active"
	case s.Lifted:
		return "back"
	default:
		return fmt.Sprintf("suspended, %s remaining (%s)", s.Label, s.Reason)
	}
}

// tradeLabel describes the last trade, e.g. "traded 2d ago".
func tradeLabel(t *portfolio.TradeAge) string {
	if t == nil {
		return format.Placeholder
	}
	return "traded " + t.Label
}
