package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/onboarding/internal/httpx"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// GenerateResponse holds the result of a generation call.
type GenerateResponse struct {
	Text      string
	LatencyMs int64
}

// Client provides access to the goal-extraction model.
type Client interface {
	// Generate sends a prompt and returns the raw text of the first prediction.
	Generate(ctx context.Context, prompt string) (*GenerateResponse, error)
}

// geminiClient implements Client against the /gemini-extract proxy.
type geminiClient struct {
	cfg      Config
	http     *retryablehttp.Client
	observer Observer
}

// NewClient creates a Client for the proxy at cfg.Endpoint.
func NewClient(cfg Config, observer Observer, logger *zap.Logger) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &geminiClient{
		cfg: cfg,
		http: httpx.NewClient(httpx.Options{
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}),
		observer: observer,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (*GenerateResponse, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	text, err := c.doRequest(ctx, prompt)
	latency := time.Since(start).Milliseconds()
	if err == nil {
		c.observer.OnCallComplete(CallEvent{
			Task:      TaskGoalExtract,
			LatencyMs: latency,
			PromptLen: len(prompt),
			Success:   true,
		})
		return &GenerateResponse{Text: text, LatencyMs: latency}, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	c.observer.OnCallComplete(CallEvent{
		Task:      TaskGoalExtract,
		LatencyMs: latency,
		PromptLen: len(prompt),
		Success:   false,
		ErrorCode: errorCode(err),
	})
	return nil, err
}

func (c *geminiClient) doRequest(ctx context.Context, prompt string) (string, error) {
	data, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/gemini-extract"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		err = httpx.Classify(ctx, err)
		if errors.Is(err, httpx.ErrUnavailable) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed,
			&httpx.APIError{Endpoint: "/gemini-extract", Status: resp.StatusCode, Body: string(body)})
	}

	content := gjson.GetBytes(body, "predictions.0.content")
	if !content.Exists() {
		return "", fmt.Errorf("%w: response has no predictions", ErrInvalidOutput)
	}
	return content.String(), nil
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRequestFailed):
		return "HTTP_STATUS"
	default:
		return "UNKNOWN"
	}
}
