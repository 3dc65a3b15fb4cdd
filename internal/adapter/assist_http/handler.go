package assist_http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaganmanku96/ElderlyCare/internal/domain"
	"github.com/gaganmanku96/ElderlyCare/internal/usecase"
)

// AnalyzeRequest is the inbound body for POST /api/analyze.
type AnalyzeRequest struct {
	Query   string `json:"query"`
	Context string `json:"context"`
	Image   string `json:"image"`
	Model   string `json:"model"`
}

// ScreenshotRequest is the inbound body for POST /api/screenshot.
type ScreenshotRequest struct {
	Image   string `json:"image"`
	Query   string `json:"query"`
	Context string `json:"context"`
}

// AnalysisResponse mirrors the public guidance contract.
type AnalysisResponse struct {
	Guidance   string   `json:"guidance"`
	Steps      []string `json:"steps"`
	Confidence float64  `json:"confidence"`
	ModelUsed  string   `json:"model_used"`
	Context    string   `json:"context"`
	Timestamp  string   `json:"timestamp"`
}

// HealthResponse summarizes server and backend health.
type HealthResponse struct {
	ServerStatus    string   `json:"server_status"`
	OllamaStatus    string   `json:"ollama_status"`
	AvailableModels []string `json:"available_models"`
	GemmaAvailable  bool     `json:"gemma_available"`
	Timestamp       string   `json:"timestamp"`
}

// ModelsResponse lists backend models for GET /api/models.
type ModelsResponse struct {
	Models         []string `json:"models"`
	Recommended    string   `json:"recommended"`
	GemmaAvailable bool     `json:"gemma_available"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	analyzeUsecase usecase.AnalyzeQueryUsecase
	backend        domain.BackendClient
	defaultModel   string
	log            *slog.Logger
}

func NewHandler(
	analyzeUsecase usecase.AnalyzeQueryUsecase,
	backend domain.BackendClient,
	defaultModel string,
	log *slog.Logger,
) *Handler {
	return &Handler{
		analyzeUsecase: analyzeUsecase,
		backend:        backend,
		defaultModel:   defaultModel,
		log:            log,
	}
}

// Service information and endpoint index
// (GET /)
func (h *Handler) Root(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"name":        "Elderly Care Assistant API",
		"version":     "1.0.0",
		"description": "Backend for AI-powered elderly smartphone assistance",
		"health":      "/health",
		"models":      "/api/models",
		"analyze":     "/api/analyze",
	})
}

// Server and backend health summary
// (GET /health)
func (h *Handler) Health(ctx echo.Context) error {
	health := h.backend.CheckHealth(ctx.Request().Context())

	status := "healthy"
	if !health.Reachable {
		status = "unhealthy"
	}

	return ctx.JSON(http.StatusOK, HealthResponse{
		ServerStatus:    "healthy",
		OllamaStatus:    status,
		AvailableModels: health.AvailableModels,
		GemmaAvailable:  health.TargetModelPresent,
		Timestamp:       time.Now().Format(time.RFC3339),
	})
}

// Available backend models
// (GET /api/models)
func (h *Handler) Models(ctx echo.Context) error {
	health := h.backend.CheckHealth(ctx.Request().Context())
	if !health.Reachable {
		return errorJSON(ctx, http.StatusServiceUnavailable, "Ollama service not available", "")
	}

	return ctx.JSON(http.StatusOK, ModelsResponse{
		Models:         health.AvailableModels,
		Recommended:    h.defaultModel,
		GemmaAvailable: health.TargetModelPresent,
	})
}

// Analyze a user query with optional screenshot
// (POST /api/analyze)
func (h *Handler) Analyze(ctx echo.Context) error {
	var req AnalyzeRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body", "")
	}

	return h.respond(ctx, usecase.AnalyzeInput{
		Query:         req.Query,
		Context:       req.Context,
		Image:         req.Image,
		ModelOverride: req.Model,
	})
}

// Analyze a screenshot with a defaulted query
// (POST /api/screenshot)
func (h *Handler) Screenshot(ctx echo.Context) error {
	var req ScreenshotRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body", "")
	}
	if req.Image == "" {
		return errorJSON(ctx, http.StatusBadRequest, domain.ErrImageRequired.Error(), "")
	}

	query := req.Query
	if query == "" {
		query = "What can I do on this screen?"
	}

	return h.respond(ctx, usecase.AnalyzeInput{
		Query:   query,
		Context: req.Context,
		Image:   req.Image,
	})
}

func (h *Handler) respond(ctx echo.Context, input usecase.AnalyzeInput) error {
	result, err := h.analyzeUsecase.Execute(ctx.Request().Context(), input)
	if err != nil {
		return h.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AnalysisResponse{
		Guidance:   result.Guidance,
		Steps:      result.Steps,
		Confidence: result.Confidence,
		ModelUsed:  result.ModelUsed,
		Context:    result.Context,
		Timestamp:  result.Timestamp.Format(time.RFC3339),
	})
}

// mapError translates domain errors to HTTP statuses. Backend failures are
// logged with full detail but surface sanitized, without upstream bodies.
func (h *Handler) mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrQueryTooLong):
		return errorJSON(ctx, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrImageTooLarge):
		return errorJSON(ctx, http.StatusRequestEntityTooLarge, "Image too large", "")
	case errors.Is(err, domain.ErrBackendUnavailable):
		h.log.Error("backend failure", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to generate response", "generation backend error")
	case errors.Is(err, domain.ErrInternal):
		h.log.Error("orchestration fault", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Internal server error", "")
	default:
		h.log.Error("unexpected analysis error", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Internal server error", "")
	}
}

func errorJSON(ctx echo.Context, status int, msg, detail string) error {
	return ctx.JSON(status, ErrorResponse{
		Error:     msg,
		Detail:    detail,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
