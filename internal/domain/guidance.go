package domain

import "time"

// FixedConfidence is reported on every successful result. The system
// performs no real confidence estimation; this is a known limitation kept
// for compatibility with the original API.
const FixedConfidence = 0.9

// GuidanceResult is the structured outcome of one orchestrated query.
// Immutable after construction; the core keeps no copy after returning it.
type GuidanceResult struct {
	Guidance   string
	Steps      []string // nil when no structured steps were found
	Confidence float64
	ModelUsed  string
	Context    string
	Timestamp  time.Time
}
