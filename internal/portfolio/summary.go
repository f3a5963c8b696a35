package portfolio

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/terminator2-agent/sitekit/internal/format"
	"github.com/terminator2-agent/sitekit/internal/model"
)

const (
	// annualizedCap is the largest annualised ROI printed as a number.
	annualizedCap = 9999

	// lowCashThreshold is the balance under which cash is flagged.
	lowCashThreshold = 50

	// questionLimit is the length of shortened position questions.
	questionLimit = 40

	freshMinutes = 60
	staleMinutes = 180

	day = 24 * time.Hour
)

// Freshness grades how recent an event is.
type Freshness int

const (
	// FreshnessUnknown means the event time is missing or unreadable.
	FreshnessUnknown Freshness = iota
	Fresh
	Stale
	Dead
)

// String returns the lowercase name of the grade.
func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// MarshalText encodes the grade as its name.
func (f Freshness) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Summary holds every figure of the portfolio snapshot.
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`
	Cycles      int       `json:"cycles,omitempty"`

	Equity  *float64 `json:"equity,omitempty"`
	Balance *float64 `json:"balance,omitempty"`
	LowCash bool     `json:"low_cash,omitempty"`

	StartingEquity float64 `json:"starting_equity"`

	// ROI is the return on StartingEquity in percent.
	ROI *float64 `json:"roi,omitempty"`

	// Deployed is the share of equity not held as cash, in percent.
	Deployed *float64 `json:"deployed,omitempty"`

	Positions int `json:"positions"`

	// DaysActive counts whole days since inception, at least 1.
	DaysActive int `json:"days_active"`

	// Annualized is ROI compounded to a yearly rate, in percent.
	Annualized      *float64 `json:"annualized,omitempty"`
	AnnualizedLabel string   `json:"annualized_label,omitempty"`

	Heartbeat  Heartbeat         `json:"heartbeat"`
	LastTrade  *TradeAge         `json:"last_trade,omitempty"`
	Suspension *SuspensionStatus `json:"suspension,omitempty"`

	EdgeHealth EdgeHealth     `json:"edge_health"`
	TopEdge    []EdgePosition `json:"top_edge,omitempty"`
	Liberation Liberation     `json:"liberation"`
	Resolving  Resolving      `json:"resolving"`
}

// Heartbeat reports how long ago the agent last completed a cycle.
type Heartbeat struct {
	Status    Freshness `json:"status"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	// Label is "Nm ago" when fresh, "Nh ago" when stale, and a relative
	// time otherwise.
	Label string `json:"label"`
}

// TradeAge reports how long ago the agent last traded.
type TradeAge struct {
	Status Freshness `json:"status"`
	At     time.Time `json:"at"`
	Days   int       `json:"days"`
	Label  string    `json:"label"`
}

// SuspensionStatus is the countdown of an active moltbook suspension.
type SuspensionStatus struct {
	Reason    string        `json:"reason,omitempty"`
	LiftAt    time.Time     `json:"lift_at"`
	Remaining time.Duration `json:"remaining"`
	Lifted    bool          `json:"lifted"`

	// Label is "Xh Ym", "Ym", or "back" once lifted.
	Label string `json:"label"`
}

// EdgeHealth counts positions per edge bucket.
type EdgeHealth struct {
	Strong   int `json:"strong"`
	Moderate int `json:"moderate"`
	Thin     int `json:"thin"`
	Negative int `json:"negative"`
	Total    int `json:"total"`
}

// Count returns the number of positions in bucket b.
func (h EdgeHealth) Count(b model.EdgeBucket) int {
	switch b {
	case model.EdgeStrong:
		return h.Strong
	case model.EdgeModerate:
		return h.Moderate
	case model.EdgeThin:
		return h.Thin
	case model.EdgeNegative:
		return h.Negative
	default:
		return 0
	}
}

// Percent returns the share of bucket b, rounded to a whole percent.
func (h EdgeHealth) Percent(b model.EdgeBucket) int {
	if h.Total == 0 {
		return 0
	}
	return int(roundHalfUp(float64(h.Count(b)) / float64(h.Total) * 100))
}

func (h *EdgeHealth) add(b model.EdgeBucket) {
	switch b {
	case model.EdgeStrong:
		h.Strong++
	case model.EdgeModerate:
		h.Moderate++
	case model.EdgeThin:
		h.Thin++
	case model.EdgeNegative:
		h.Negative++
	}
	h.Total++
}

// EdgePosition is a position ranked by directional edge.
type EdgePosition struct {
	Question string `json:"question"`

	// Short is Question cut to 40 characters.
	Short   string           `json:"short"`
	URL     string           `json:"url,omitempty"`
	Outcome string           `json:"outcome,omitempty"`
	Edge    float64          `json:"edge"`
	Bucket  model.EdgeBucket `json:"bucket"`
}

// EdgePoints returns the edge in percentage points.
func (p EdgePosition) EdgePoints() float64 {
	return p.Edge * 100
}

// Liberation is the capital tied up in positions closing soon.
type Liberation struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
	Shares float64 `json:"shares"`
	Waves  []Wave  `json:"waves,omitempty"`
}

// Wave groups the positions closing on the same day.
type Wave struct {
	Days   float64 `json:"days"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
	Shares float64 `json:"shares"`

	// BarPercent is the wave's share of Liberation.Shares, capped at 100.
	BarPercent int `json:"bar_percent"`
}

// Resolving counts positions closing within the resolving window.
type Resolving struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Summarize computes the summary of s as of now. A nil snapshot yields a
// summary with only the time-derived fields set.
func Summarize(s *model.Snapshot, now time.Time, opts ...Option) *Summary {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if s == nil {
		s = &model.Snapshot{}
	}

	sum := &Summary{
		GeneratedAt:    now,
		Cycles:         s.Cycles,
		Equity:         s.TotalEquity,
		Balance:        s.Balance,
		StartingEquity: o.startingEquity,
		Positions:      s.TotalPositions,
		DaysActive:     daysActive(o.inception, now),
		Heartbeat:      heartbeat(s.LastUpdated, now),
		LastTrade:      tradeAge(s.LastTrade, now),
		Suspension:     suspension(s.MoltbookSuspension, now),
	}
	if sum.Positions == 0 {
		sum.Positions = len(s.Positions)
	}
	if s.Balance != nil {
		sum.LowCash = *s.Balance < lowCashThreshold
	}

	if eq := s.TotalEquity; eq != nil {
		roi := (*eq - o.startingEquity) / o.startingEquity * 100
		sum.ROI = &roi

		ann := annualized(*eq, o.startingEquity, sum.DaysActive)
		sum.Annualized = &ann
		sum.AnnualizedLabel = annualizedLabel(ann)

		if s.Balance != nil && *eq != 0 {
			deployed := (1 - *s.Balance / *eq) * 100
			sum.Deployed = &deployed
		}
	}

	sum.EdgeHealth, sum.TopEdge = edges(s.Positions, o.topN)
	sum.Liberation = liberation(s.Positions, o.liberationDays)
	sum.Resolving = resolving(s.Positions, o.resolvingDays)
	return sum
}

func daysActive(inception, now time.Time) int {
	days := int(math.Floor(float64(now.Sub(inception)) / float64(day)))
	return max(1, days)
}

func annualized(equity, start float64, days int) float64 {
	if equity <= 0 {
		return 0
	}
	return (math.Pow(equity/start, 365/float64(days)) - 1) * 100
}

func annualizedLabel(ann float64) string {
	if ann > annualizedCap {
		return fmt.Sprintf(">%d", annualizedCap)
	}
	return format.FormatNumber(ann, 0)
}

func heartbeat(updated string, now time.Time) Heartbeat {
	t, ok := format.ParseTimestamp(updated)
	if !ok {
		return Heartbeat{Status: FreshnessUnknown, Label: format.Placeholder}
	}

	mins := max(0, roundHalfUp(now.Sub(t).Minutes()))
	switch {
	case mins < freshMinutes:
		return Heartbeat{Status: Fresh, UpdatedAt: t, Label: fmt.Sprintf("%dm ago", mins)}
	case mins < staleMinutes:
		return Heartbeat{Status: Stale, UpdatedAt: t, Label: fmt.Sprintf("%dh ago", roundHalfUp(float64(mins)/60))}
	default:
		return Heartbeat{Status: Dead, UpdatedAt: t, Label: format.RelativeTimeAt(t, now)}
	}
}

func tradeAge(last string, now time.Time) *TradeAge {
	t, ok := format.ParseTimestamp(last)
	if !ok {
		return nil
	}

	days := max(0, int(math.Floor(float64(now.Sub(t))/float64(day))))
	age := &TradeAge{At: t, Days: days}
	switch {
	case days <= 1:
		age.Status = Fresh
	case days <= 3:
		age.Status = Stale
	default:
		age.Status = Dead
	}
	switch days {
	case 0:
		age.Label = "today"
	default:
		age.Label = fmt.Sprintf("%dd ago", days)
	}
	return age
}

func suspension(s *model.Suspension, now time.Time) *SuspensionStatus {
	left, ok := s.Remaining(now, format.ParseTimestamp)
	if !ok {
		return nil
	}

	st := &SuspensionStatus{
		Reason:    s.Reason,
		LiftAt:    now.Add(left),
		Remaining: max(0, left),
	}
	if st.Reason == "" {
		st.Reason = "policy violation"
	}
	if left <= 0 {
		st.Lifted = true
		st.Label = "back"
		return st
	}

	h := int(left / time.Hour)
	m := int(left % time.Hour / time.Minute)
	if h > 0 {
		st.Label = fmt.Sprintf("%dh %dm", h, m)
	} else {
		st.Label = fmt.Sprintf("%dm", m)
	}
	return st
}

func edges(positions []model.Position, topN int) (EdgeHealth, []EdgePosition) {
	var health EdgeHealth
	var ranked []EdgePosition
	for _, p := range positions {
		edge, ok := p.DirectionalEdge()
		if !ok {
			continue
		}
		bucket := model.ClassifyEdge(edge)
		health.add(bucket)
		ranked = append(ranked, EdgePosition{
			Question: p.Question,
			Short:    shorten(p.Question, questionLimit),
			URL:      p.URL,
			Outcome:  p.Outcome,
			Edge:     edge,
			Bucket:   bucket,
		})
	}

	slices.SortStableFunc(ranked, func(a, b EdgePosition) int {
		return cmp.Compare(b.Edge, a.Edge)
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return health, ranked
}

func liberation(positions []model.Position, window float64) Liberation {
	var lib Liberation
	waves := make(map[float64]*Wave)
	for _, p := range positions {
		if !p.ClosesWithin(window) {
			continue
		}
		d := *p.DaysToClose
		w, ok := waves[d]
		if !ok {
			w = &Wave{Days: d}
			waves[d] = w
		}
		w.Count++
		w.Amount += p.Amount
		w.Shares += p.Shares

		lib.Count++
		lib.Amount += p.Amount
		lib.Shares += p.Shares
	}

	for _, d := range slices.Sorted(maps.Keys(waves)) {
		w := waves[d]
		if lib.Shares > 0 {
			w.BarPercent = int(min(roundHalfUp(w.Shares/lib.Shares*100), 100))
		}
		lib.Waves = append(lib.Waves, *w)
	}
	return lib
}

func resolving(positions []model.Position, window float64) Resolving {
	var r Resolving
	for _, p := range positions {
		if p.ClosesWithin(window) {
			r.Count++
			r.Amount += p.Amount
		}
	}
	return r
}

// shorten cuts s to n characters and appends "..." when it was longer.
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
