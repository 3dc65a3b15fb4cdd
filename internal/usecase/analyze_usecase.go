package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gaganmanku96/ElderlyCare/internal/domain"
)

// MaxQueryLength bounds the query in characters, matching the public API contract.
const MaxQueryLength = 1000

// AnalyzeInput carries one guidance query through the orchestrator.
type AnalyzeInput struct {
	Query   string
	Context string
	// Image is an optional base64-encoded screenshot.
	Image string
	// ModelOverride selects a specific model instead of the configured default.
	ModelOverride string
}

// AnalyzeQueryUsecase defines the contract for orchestrating one guidance query.
type AnalyzeQueryUsecase interface {
	Execute(ctx context.Context, input AnalyzeInput) (*domain.GuidanceResult, error)
}

type analyzeQueryUsecase struct {
	backend       domain.BackendClient
	promptBuilder PromptBuilder
	stepExtractor StepExtractor
	defaultModel  string
	maxImageSize  int
	log           *slog.Logger
}

// NewAnalyzeQueryUsecase wires the orchestrator with its collaborators.
func NewAnalyzeQueryUsecase(
	backend domain.BackendClient,
	promptBuilder PromptBuilder,
	stepExtractor StepExtractor,
	defaultModel string,
	maxImageSize int,
	log *slog.Logger,
) AnalyzeQueryUsecase {
	return &analyzeQueryUsecase{
		backend:       backend,
		promptBuilder: promptBuilder,
		stepExtractor: stepExtractor,
		defaultModel:  defaultModel,
		maxImageSize:  maxImageSize,
		log:           log,
	}
}

// Execute validates the input, renders the prompt, invokes the backend once,
// extracts steps, and assembles the immutable result. Each call operates on
// its own local data; nothing is shared between concurrent runs.
func (u *analyzeQueryUsecase) Execute(ctx context.Context, input AnalyzeInput) (result *domain.GuidanceResult, err error) {
	// A fault in a collaborator surfaces as ErrInternal, not a panic.
	defer func() {
		if r := recover(); r != nil {
			u.log.Error("unexpected orchestration fault", "panic", r)
			result = nil
			err = fmt.Errorf("%w: %v", domain.ErrInternal, r)
		}
	}()

	if err := u.validate(input); err != nil {
		return nil, err
	}

	contextTag := input.Context
	if contextTag == "" {
		contextTag = "general"
	}

	model := input.ModelOverride
	if model == "" {
		model = u.defaultModel
	}

	runID := uuid.NewString()
	log := u.log.With("run_id", runID, "model", model, "context", contextTag)

	prompt := u.promptBuilder.Build(contextTag, input.Query, input.Image != "")

	var images []string
	if input.Image != "" {
		images = []string{input.Image}
	}

	start := time.Now()
	raw, err := u.backend.Generate(ctx, domain.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Images: images,
	})
	if err != nil {
		log.Error("generation failed", "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	steps := u.stepExtractor.Extract(raw)
	log.Info("query analyzed", "steps", len(steps), "elapsed", time.Since(start))

	return &domain.GuidanceResult{
		Guidance:   raw,
		Steps:      steps,
		Confidence: domain.FixedConfidence,
		ModelUsed:  model,
		Context:    contextTag,
		Timestamp:  time.Now(),
	}, nil
}

func (u *analyzeQueryUsecase) validate(input AnalyzeInput) error {
	if strings.TrimSpace(input.Query) == "" {
		return domain.ErrEmptyQuery
	}
	if utf8.RuneCountInString(input.Query) > MaxQueryLength {
		return domain.ErrQueryTooLong
	}
	// The ceiling is compared against the encoded string length, not the
	// decoded byte count. This mirrors the public API's historical behavior.
	if len(input.Image) > u.maxImageSize {
		return domain.ErrImageTooLarge
	}
	return nil
}
