package usecase

import "strings"

// PromptBuilder renders the generation prompt for one query.
type PromptBuilder interface {
	Build(contextTag, query string, hasImage bool) string
}

// GuidancePromptBuilder composes the elderly-friendly persona prompt. Pure
// and deterministic: the same inputs always render the same string, which
// keeps it snapshot-testable.
type GuidancePromptBuilder struct{}

// NewGuidancePromptBuilder creates the default prompt builder.
func NewGuidancePromptBuilder() PromptBuilder {
	return &GuidancePromptBuilder{}
}

// Build renders the persona preamble, the app context line, an optional
// screenshot note, and the verbatim user query.
func (b *GuidancePromptBuilder) Build(contextTag, query string, hasImage bool) string {
	var sb strings.Builder

	sb.WriteString("You are a patient, helpful AI assistant specifically designed to help elderly users learn smartphone technology.\n")
	sb.WriteString("\n")
	sb.WriteString("Your characteristics:\n")
	sb.WriteString("- Use simple, clear language\n")
	sb.WriteString("- Break down tasks into small, manageable steps\n")
	sb.WriteString("- Be encouraging and patient\n")
	sb.WriteString("- Avoid technical jargon\n")
	sb.WriteString("- Repeat important information\n")
	sb.WriteString("- Assume the user may need extra reassurance\n")
	sb.WriteString("\n")
	sb.WriteString("Current app context: ")
	sb.WriteString(contextTag)
	sb.WriteString("\n")
	if hasImage {
		sb.WriteString("The user has provided a screenshot of their phone screen for you to analyze.")
	}
	sb.WriteString("\n")
	sb.WriteString("\n")
	sb.WriteString("User's question: \"")
	sb.WriteString(query)
	sb.WriteString("\"\n")
	sb.WriteString("\n")
	sb.WriteString("Please provide step-by-step guidance that is easy to follow. If analyzing a screenshot, describe what you see and provide specific guidance based on the current screen.")

	return sb.String()
}
