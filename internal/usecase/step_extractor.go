package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// StepExtractor parses raw model output into ordered instructional steps.
type StepExtractor interface {
	// Extract returns the cleaned steps in input order, or nil when the
	// text contains no recognizable step lines.
	Extract(text string) []string
}

// LineStepExtractor is a line-oriented heuristic, not an outline parser:
// a line counts as a step when it starts with a digit or with "step"
// (case-insensitive). Multi-line step bodies are not merged and wrapped
// continuations are dropped. Kept behind the interface so a smarter parser
// can replace it without touching the orchestrator.
type LineStepExtractor struct{}

// NewLineStepExtractor creates the default step extractor.
func NewLineStepExtractor() StepExtractor {
	return &LineStepExtractor{}
}

// Extract scans each line, strips "1." / "1)" / "Step 1:" markers, and
// collects the non-empty remainders.
func (e *LineStepExtractor) Extract(text string) []string {
	var steps []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		first, _ := utf8.DecodeRuneInString(line)
		switch {
		case unicode.IsDigit(first):
			clean := line
			if idx := strings.Index(clean, "."); idx >= 0 {
				clean = strings.TrimSpace(clean[idx+1:])
			}
			if idx := strings.Index(clean, ")"); idx >= 0 {
				clean = strings.TrimSpace(clean[idx+1:])
			}
			if clean != "" {
				steps = append(steps, clean)
			}
		case strings.HasPrefix(strings.ToLower(line), "step"):
			clean := line
			if idx := strings.Index(clean, ":"); idx >= 0 {
				clean = strings.TrimSpace(clean[idx+1:])
			}
			if clean != "" {
				steps = append(steps, clean)
			}
		}
	}

	return steps
}
