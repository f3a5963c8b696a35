package model

// EdgeBucket is the health class of a directional edge.
type EdgeBucket int

const (
	// EdgeNegative is an edge below zero: the market moved against us.
	EdgeNegative EdgeBucket = iota

	// EdgeThin is an edge in [0, 0.05].
	EdgeThin

	// EdgeModerate is an edge in (0.05, 0.15].
	EdgeModerate

	// EdgeStrong is an edge above 0.15.
	EdgeStrong
)

const (
	strongEdge   = 0.15
	moderateEdge = 0.05
)

// ClassifyEdge returns the bucket for a directional edge.
func ClassifyEdge(edge float64) EdgeBucket {
	switch {
	case edge > strongEdge:
		return EdgeStrong
	case edge > moderateEdge:
		return EdgeModerate
	case edge >= 0:
		return EdgeThin
	default:
		return EdgeNegative
	}
}

// String returns the label used in summaries.
func (b EdgeBucket) String() string {
	switch b {
	case EdgeNegative:
		return "negative"
	case EdgeThin:
		return "thin"
	case EdgeModerate:
		return "moderate"
	case EdgeStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// MarshalText encodes the bucket as its label.
func (b EdgeBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
