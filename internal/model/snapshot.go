package model

import (
	"strings"
	"time"
)

// Outcome values used by Position.Outcome.
const (
	OutcomeYes = "YES"
	OutcomeNo  = "NO"
)

// Snapshot is the portfolio_data.json document refreshed by every agent
// cycle.
type Snapshot struct {
	// Cycles is the number of completed agent cycles.
	Cycles int `json:"cycles,omitempty"`

	// TotalEquity is cash plus the marked value of all positions.
	TotalEquity *float64 `json:"total_equity,omitempty"`

	// Balance is the uninvested cash.
	Balance *float64 `json:"balance,omitempty"`

	TotalPositions int        `json:"total_positions,omitempty"`
	Positions      []Position `json:"positions,omitempty"`

	// LastUpdated is the heartbeat timestamp of the last cycle.
	LastUpdated string `json:"last_updated,omitempty"`

	// LastTrade is the timestamp of the most recent trade.
	LastTrade string `json:"last_trade,omitempty"`

	MoltbookSuspension *Suspension `json:"moltbook_suspension,omitempty"`
}

// Position is one open market position.
type Position struct {
	Question string `json:"question,omitempty"`
	URL      string `json:"url,omitempty"`

	// Outcome is the side held, OutcomeYes or OutcomeNo.
	Outcome string `json:"outcome,omitempty"`

	// Amount is the mana invested.
	Amount float64 `json:"amount,omitempty"`

	// Shares is the payout if the position resolves in its favour.
	Shares float64 `json:"shares,omitempty"`

	// MyEstimate is the agent's probability for YES.
	MyEstimate *float64 `json:"my_estimate,omitempty"`

	// CurrentProb is the market probability for YES.
	CurrentProb *float64 `json:"current_prob,omitempty"`

	DaysToClose *float64 `json:"days_to_close,omitempty"`
}

// DirectionalEdge returns the edge in the direction of the held outcome:
// estimate minus market for YES, market minus estimate for NO.
// ok is false when either probability is missing.
func (p Position) DirectionalEdge() (edge float64, ok bool) {
	if p.MyEstimate == nil || p.CurrentProb == nil {
		return 0, false
	}
	if strings.EqualFold(p.Outcome, OutcomeNo) {
		return *p.CurrentProb - *p.MyEstimate, true
	}
	return *p.MyEstimate - *p.CurrentProb, true
}

// ClosesWithin reports whether the position closes in (0, days] days.
func (p Position) ClosesWithin(days float64) bool {
	return p.DaysToClose != nil && *p.DaysToClose > 0 && *p.DaysToClose <= days
}

// Suspension describes a moltbook account suspension.
type Suspension struct {
	Active bool   `json:"active"`
	Reason string `json:"reason,omitempty"`

	// EstimatedLift is the timestamp the suspension is expected to end.
	EstimatedLift string `json:"estimated_lift,omitempty"`
}

// Remaining returns the time left until the suspension lifts.
// ok is false when the suspension is inactive or the lift time is unknown.
func (s *Suspension) Remaining(now time.Time, parse func(string) (time.Time, bool)) (left time.Duration, ok bool) {
	if s == nil || !s.Active || s.EstimatedLift == "" {
		return 0, false
	}
	lift, ok := parse(s.EstimatedLift)
	if !ok {
		return 0, false
	}
	return lift.Sub(now), true
}
