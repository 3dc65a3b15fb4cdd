package assist_http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaganmanku96/ElderlyCare/internal/adapter/assist_http"
	"github.com/gaganmanku96/ElderlyCare/internal/domain"
	"github.com/gaganmanku96/ElderlyCare/internal/usecase"
)

type stubAnalyzeUsecase struct {
	result    *domain.GuidanceResult
	err       error
	lastInput usecase.AnalyzeInput
}

func (s *stubAnalyzeUsecase) Execute(ctx context.Context, input usecase.AnalyzeInput) (*domain.GuidanceResult, error) {
	s.lastInput = input
	return s.result, s.err
}

type stubBackend struct {
	health domain.BackendHealth
}

func (s *stubBackend) CheckHealth(ctx context.Context) domain.BackendHealth {
	return s.health
}

func (s *stubBackend) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	return "", nil
}

func (s *stubBackend) Close() {}

func newHandler(uc usecase.AnalyzeQueryUsecase, backend domain.BackendClient) *assist_http.Handler {
	testLogger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return assist_http.NewHandler(uc, backend, "gemma3:4b-instruct-q4_0", testLogger)
}

func doRequest(t *testing.T, handlerFunc echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handlerFunc(c))
	return rec
}

func TestHealth_BackendUp(t *testing.T) {
	backend := &stubBackend{health: domain.BackendHealth{
		Reachable:          true,
		AvailableModels:    []string{"gemma3:4b-instruct-q4_0"},
		TargetModelPresent: true,
	}}
	h := newHandler(&stubAnalyzeUsecase{}, backend)

	rec := doRequest(t, h.Health, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp assist_http.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.ServerStatus)
	assert.Equal(t, "healthy", resp.OllamaStatus)
	assert.Equal(t, []string{"gemma3:4b-instruct-q4_0"}, resp.AvailableModels)
	assert.True(t, resp.GemmaAvailable)
}

func TestHealth_BackendDownStillReturns200(t *testing.T) {
	backend := &stubBackend{health: domain.BackendHealth{
		Reachable:       false,
		AvailableModels: []string{},
		ErrorDetail:     "connection refused",
	}}
	h := newHandler(&stubAnalyzeUsecase{}, backend)

	rec := doRequest(t, h.Health, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp assist_http.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.ServerStatus)
	assert.Equal(t, "unhealthy", resp.OllamaStatus)
	assert.False(t, resp.GemmaAvailable)
}

func TestModels_BackendUnreachableIs503(t *testing.T) {
	backend := &stubBackend{health: domain.BackendHealth{Reachable: false}}
	h := newHandler(&stubAnalyzeUsecase{}, backend)

	rec := doRequest(t, h.Models, http.MethodGet, "/api/models", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestModels_ListsWithRecommendation(t *testing.T) {
	backend := &stubBackend{health: domain.BackendHealth{
		Reachable:          true,
		AvailableModels:    []string{"gemma3:4b-instruct-q4_0", "llama3:8b"},
		TargetModelPresent: true,
	}}
	h := newHandler(&stubAnalyzeUsecase{}, backend)

	rec := doRequest(t, h.Models, http.MethodGet, "/api/models", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp assist_http.ModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gemma3:4b-instruct-q4_0", resp.Recommended)
	assert.Len(t, resp.Models, 2)
}

func TestAnalyze_Success(t *testing.T) {
	uc := &stubAnalyzeUsecase{result: &domain.GuidanceResult{
		Guidance:   "1. Open app",
		Steps:      []string{"Open app"},
		Confidence: 0.9,
		ModelUsed:  "gemma3:4b-instruct-q4_0",
		Context:    "whatsapp",
		Timestamp:  time.Now(),
	}}
	h := newHandler(uc, &stubBackend{})

	rec := doRequest(t, h.Analyze, http.MethodPost, "/api/analyze",
		`{"query":"change my picture","context":"whatsapp"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp assist_http.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1. Open app", resp.Guidance)
	assert.Equal(t, []string{"Open app"}, resp.Steps)
	assert.Equal(t, 0.9, resp.Confidence)
	assert.Equal(t, "whatsapp", resp.Context)
	assert.NotEmpty(t, resp.Timestamp)

	assert.Equal(t, "change my picture", uc.lastInput.Query)
	assert.Equal(t, "whatsapp", uc.lastInput.Context)
}

func TestAnalyze_ValidationErrorsMapTo4xx(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty query", domain.ErrEmptyQuery, http.StatusBadRequest},
		{"overlong query", domain.ErrQueryTooLong, http.StatusBadRequest},
		{"image too large", domain.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&stubAnalyzeUsecase{err: tt.err}, &stubBackend{})

			rec := doRequest(t, h.Analyze, http.MethodPost, "/api/analyze", `{"query":"x"}`)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAnalyze_InternalFaultIs500(t *testing.T) {
	wrapped := fmt.Errorf("%w: extractor blew up", domain.ErrInternal)
	h := newHandler(&stubAnalyzeUsecase{err: wrapped}, &stubBackend{})

	rec := doRequest(t, h.Analyze, http.MethodPost, "/api/analyze", `{"query":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp assist_http.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.NotContains(t, rec.Body.String(), "blew up", "fault detail stays server-side")
}

func TestAnalyze_BackendFailureIsSanitized500(t *testing.T) {
	wrapped := fmt.Errorf("%w: generate endpoint returned 500: connection refused", domain.ErrBackendUnavailable)
	h := newHandler(&stubAnalyzeUsecase{err: wrapped}, &stubBackend{})

	rec := doRequest(t, h.Analyze, http.MethodPost, "/api/analyze", `{"query":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp assist_http.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to generate response", resp.Error)
	assert.NotContains(t, rec.Body.String(), "connection refused", "raw transport detail must not leak")
}

func TestScreenshot_RequiresImage(t *testing.T) {
	h := newHandler(&stubAnalyzeUsecase{}, &stubBackend{})

	rec := doRequest(t, h.Screenshot, http.MethodPost, "/api/screenshot", `{"query":"what is this"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenshot_DefaultsQueryAndDelegates(t *testing.T) {
	uc := &stubAnalyzeUsecase{result: &domain.GuidanceResult{
		Guidance:   "You are on the home screen.",
		Confidence: 0.9,
		ModelUsed:  "gemma3:4b-instruct-q4_0",
		Context:    "general",
		Timestamp:  time.Now(),
	}}
	h := newHandler(uc, &stubBackend{})

	rec := doRequest(t, h.Screenshot, http.MethodPost, "/api/screenshot", `{"image":"aGVsbG8="}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What can I do on this screen?", uc.lastInput.Query)
	assert.Equal(t, "aGVsbG8=", uc.lastInput.Image)
	assert.Empty(t, uc.lastInput.ModelOverride)
}

func TestRoot_ListsEndpoints(t *testing.T) {
	h := newHandler(&stubAnalyzeUsecase{}, &stubBackend{})

	rec := doRequest(t, h.Root, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/analyze")
}
