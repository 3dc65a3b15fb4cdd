package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gaganmanku96/ElderlyCare/internal/domain"
	"github.com/gaganmanku96/ElderlyCare/internal/infra/httpclient"
)

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options"`
	Images  []string       `json:"images,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Client talks to an Ollama-compatible backend over plain HTTP. One
// instance is shared by all in-flight requests; it holds no per-request
// state, so no locking is needed.
type Client struct {
	baseURL      string
	targetFamily string
	genClient    *http.Client
	probeClient  *http.Client
	probes       singleflight.Group
	log          *slog.Logger
}

// NewClient constructs a client over the shared pooled transport. The
// generation and health probe calls carry separate timeouts.
func NewClient(baseURL, targetFamily string, generateTimeout, healthTimeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		targetFamily: targetFamily,
		genClient:    httpclient.NewPooledClient(generateTimeout),
		probeClient:  httpclient.NewPooledClient(healthTimeout),
		log:          log,
	}
}

// CheckHealth probes the model-listing endpoint. Failures are reported
// inside the returned value, never as an error. Concurrent probes coalesce
// onto one in-flight request; nothing is cached between arrivals.
func (c *Client) CheckHealth(ctx context.Context) domain.BackendHealth {
	v, _, _ := c.probes.Do("tags", func() (any, error) {
		// The probe outlives the first caller's cancellation so a dropped
		// caller cannot poison the coalesced result. The probe client's own
		// timeout still bounds the request.
		return c.listModels(context.WithoutCancel(ctx)), nil
	})
	return v.(domain.BackendHealth)
}

func (c *Client) listModels(ctx context.Context) domain.BackendHealth {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return c.unhealthy(fmt.Sprintf("failed to create tags request: %v", err))
	}

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return c.unhealthy(fmt.Sprintf("failed to call tags endpoint: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return c.unhealthy(fmt.Sprintf("tags endpoint returned %d: %s", resp.StatusCode, string(body)))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return c.unhealthy(fmt.Sprintf("failed to decode tags response: %v", err))
	}

	models := make([]string, 0, len(tags.Models))
	targetPresent := false
	for _, m := range tags.Models {
		models = append(models, m.Name)
		if strings.Contains(m.Name, c.targetFamily) {
			targetPresent = true
		}
	}

	return domain.BackendHealth{
		Reachable:          true,
		AvailableModels:    models,
		TargetModelPresent: targetPresent,
	}
}

func (c *Client) unhealthy(detail string) domain.BackendHealth {
	c.log.Error("backend health check failed", "detail", detail)
	return domain.BackendHealth{
		Reachable:          false,
		AvailableModels:    []string{},
		TargetModelPresent: false,
		ErrorDetail:        detail,
	}
}

// Generate issues a single non-streaming generation request. A single
// attempt is made per call; retry policy belongs to the caller. On non-2xx
// responses the error carries the upstream status and body.
func (c *Client) Generate(ctx context.Context, genReq domain.GenerateRequest) (string, error) {
	options := genReq.Options
	if options == nil {
		options = domain.DefaultGenerateOptions()
	}

	payload := generateRequest{
		Model:   genReq.Model,
		Prompt:  genReq.Prompt,
		Stream:  false,
		Options: options,
		Images:  genReq.Images,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.genClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call generate endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generate endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}

	return genResp.Response, nil
}

// Close releases idle pooled connections. Called once at process shutdown.
func (c *Client) Close() {
	httpclient.CloseIdleConnections()
}

var _ domain.BackendClient = (*Client)(nil)
