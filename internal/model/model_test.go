package model

import (
	"encoding/json"
	"testing"
	"time"
)

func ptr(v float64) *float64 { return &v }

// TestDirectionalEdge tests the edge sign per outcome.
func TestDirectionalEdge(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		pos    Position
		want   float64
		wantOK bool
	}{
		{"yes above market", Position{Outcome: "YES", MyEstimate: ptr(0.7), CurrentProb: ptr(0.5)}, 0.2, true},
		{"no below market", Position{Outcome: "NO", MyEstimate: ptr(0.2), CurrentProb: ptr(0.5)}, 0.3, true},
		{"lowercase no", Position{Outcome: "no", MyEstimate: ptr(0.6), CurrentProb: ptr(0.5)}, -0.1, true},
		{"empty outcome counts as yes", Position{MyEstimate: ptr(0.5), CurrentProb: ptr(0.25)}, 0.25, true},
		{"missing estimate", Position{Outcome: "YES", CurrentProb: ptr(0.5)}, 0, false},
		{"missing market", Position{Outcome: "YES", MyEstimate: ptr(0.5)}, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tc.pos.DirectionalEdge()
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("edge = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClosesWithin(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		days *float64
		want bool
	}{
		{"unknown", nil, false},
		{"closed", ptr(0), false},
		{"past", ptr(-2), false},
		{"inside", ptr(3), true},
		{"boundary", ptr(7), true},
		{"outside", ptr(7.5), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := (Position{DaysToClose: tc.days}).ClosesWithin(7); got != tc.want {
				t.Errorf("ClosesWithin(7) = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestClassifyEdge tests bucket boundaries.
func TestClassifyEdge(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		edge float64
		want EdgeBucket
	}{
		{0.3, EdgeStrong},
		{0.15, EdgeModerate},
		{0.06, EdgeModerate},
		{0.05, EdgeThin},
		{0, EdgeThin},
		{-0.01, EdgeNegative},
	}

	for _, tc := range testCases {
		if got := ClassifyEdge(tc.edge); got != tc.want {
			t.Errorf("ClassifyEdge(%v) = %v, want %v", tc.edge, got, tc.want)
		}
	}
	if got := EdgeBucket(42).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestSuspensionRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	parse := func(s string) (time.Time, bool) {
		ts, err := time.Parse(time.RFC3339, s)
		return ts, err == nil
	}

	t.Run("active", func(t *testing.T) {
		t.Parallel()
		s := &Suspension{Active: true, EstimatedLift: "2026-03-01T14:30:00Z"}
		left, ok := s.Remaining(now, parse)
		if !ok || left != 150*time.Minute {
			t.Errorf("Remaining() = %v, %v", left, ok)
		}
	})

	t.Run("inactive", func(t *testing.T) {
		t.Parallel()
		s := &Suspension{Active: false, EstimatedLift: "2026-03-01T14:30:00Z"}
		if _, ok := s.Remaining(now, parse); ok {
			t.Error("expected ok = false")
		}
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		var s *Suspension
		if _, ok := s.Remaining(now, parse); ok {
			t.Error("expected ok = false")
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()
		s := &Suspension{Active: true, EstimatedLift: "soon"}
		if _, ok := s.Remaining(now, parse); ok {
			t.Error("expected ok = false")
		}
	})
}

// TestSnapshotDecode tests decoding of a published document.
func TestSnapshotDecode(t *testing.T) {
	t.Parallel()

	raw := `{
		"cycles": 412,
		"total_equity": 1234.5,
		"balance": 0,
		"total_positions": 1,
		"positions": [{"question": "Will it rain?", "outcome": "NO", "amount": 10, "shares": 25, "my_estimate": 0.1, "current_prob": 0.3, "days_to_close": 4}],
		"last_updated": "2026-03-01T12:00:00Z",
		"moltbook_suspension": {"active": true, "estimated_lift": "2026-03-02T00:00:00Z"}
	}`

	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Cycles != 412 || s.TotalEquity == nil || *s.TotalEquity != 1234.5 {
		t.Errorf("unexpected header fields: %+v", s)
	}
	if s.Balance == nil || *s.Balance != 0 {
		t.Error("zero balance must be distinguishable from a missing one")
	}
	if len(s.Positions) != 1 || s.Positions[0].Outcome != OutcomeNo {
		t.Fatalf("Positions = %+v", s.Positions)
	}
	if s.MoltbookSuspension == nil || !s.MoltbookSuspension.Active {
		t.Error("suspension not decoded")
	}
}
