package portfolio

import "time"

const (
	// DefaultStartingEquity is the mana the agent started trading with.
	DefaultStartingEquity = 1000.0

	// DefaultTopN is the number of positions listed by edge.
	DefaultTopN = 5

	// DefaultLiberationDays is the window of the capital liberation view.
	DefaultLiberationDays = 14

	// DefaultResolvingDays is the window of the "resolving soon" count.
	DefaultResolvingDays = 7
)

// DefaultInception is the first trading day.
var DefaultInception = time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC)

type options struct {
	startingEquity float64
	inception      time.Time
	topN           int
	liberationDays float64
	resolvingDays  float64
}

// Option configures Summarize.
type Option func(*options)

func defaultOptions() options {
	return options{
		startingEquity: DefaultStartingEquity,
		inception:      DefaultInception,
		topN:           DefaultTopN,
		liberationDays: DefaultLiberationDays,
		resolvingDays:  DefaultResolvingDays,
	}
}

// WithStartingEquity sets the equity ROI is measured against.
// Non-positive values are ignored.
func WithStartingEquity(v float64) Option {
	return func(o *options) {
		if v > 0 {
			o.startingEquity = v
		}
	}
}

// WithInception sets the first trading day used for annualised ROI.
func WithInception(t time.Time) Option {
	return func(o *options) {
		if !t.IsZero() {
			o.inception = t
		}
	}
}

// WithTopN sets how many positions are listed by edge.
func WithTopN(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.topN = n
		}
	}
}

// WithLiberationDays sets the window of the capital liberation view.
func WithLiberationDays(days float64) Option {
	return func(o *options) {
		if days > 0 {
			o.liberationDays = days
		}
	}
}

// WithResolvingDays sets the window of the "resolving soon" count.
func WithResolvingDays(days float64) Option {
	return func(o *options) {
		if days > 0 {
			o.resolvingDays = days
		}
	}
}
