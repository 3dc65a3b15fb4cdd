package domain

import "context"

// BackendClient defines the capability to probe the model backend and request generations.
type BackendClient interface {
	// CheckHealth reports backend reachability and the models it serves.
	// It never returns an error; failures are carried inside BackendHealth.
	CheckHealth(ctx context.Context) BackendHealth

	// Generate performs a single non-streaming generation attempt and
	// returns the raw model output. No retries are made; the error carries
	// the upstream status and body when available.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Close releases pooled connections. Called once at process shutdown.
	Close()
}

// BackendHealth is the transient result of one health probe. It is
// recomputed on every query and never persisted.
type BackendHealth struct {
	Reachable          bool
	AvailableModels    []string
	TargetModelPresent bool
	ErrorDetail        string
}

// GenerateRequest carries one generation call to the backend.
type GenerateRequest struct {
	Model  string
	Prompt string
	// Images holds base64-encoded payloads for multimodal prompts.
	Images []string
	// Options overrides the default decoding parameters when non-nil.
	Options map[string]any
}

// DefaultGenerateOptions returns the fixed decoding parameters used when a
// request carries no override.
func DefaultGenerateOptions() map[string]any {
	return map[string]any{
		"temperature":    0.3,
		"top_p":          0.9,
		"repeat_penalty": 1.1,
	}
}
