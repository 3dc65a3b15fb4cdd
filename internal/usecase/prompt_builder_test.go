package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuidancePromptBuilder_Deterministic(t *testing.T) {
	b := NewGuidancePromptBuilder()

	first := b.Build("whatsapp", "help", true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, b.Build("whatsapp", "help", true), "repeated builds must be byte-identical")
	}
}

func TestGuidancePromptBuilder_ContainsQueryVerbatim(t *testing.T) {
	b := NewGuidancePromptBuilder()

	prompt := b.Build("phone", `How do I call my daughter? She's "favorite" #1`, false)

	assert.Contains(t, prompt, `User's question: "How do I call my daughter? She's "favorite" #1"`)
	assert.Contains(t, prompt, "Current app context: phone")
}

func TestGuidancePromptBuilder_ScreenshotSentence(t *testing.T) {
	b := NewGuidancePromptBuilder()

	withImage := b.Build("general", "what is this", true)
	withoutImage := b.Build("general", "what is this", false)

	assert.Contains(t, withImage, "The user has provided a screenshot of their phone screen for you to analyze.")
	assert.NotContains(t, withoutImage, "screenshot of their phone screen")
	assert.NotEqual(t, withImage, withoutImage)
}

func TestGuidancePromptBuilder_PersonaPreamble(t *testing.T) {
	b := NewGuidancePromptBuilder()

	prompt := b.Build("settings", "larger text", false)

	assert.True(t, strings.HasPrefix(prompt, "You are a patient, helpful AI assistant"))
	assert.Contains(t, prompt, "- Use simple, clear language")
	assert.Contains(t, prompt, "- Assume the user may need extra reassurance")
	assert.Contains(t, prompt, "Please provide step-by-step guidance")
}
