// Package persist talks to the remote user/goals API.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/httpx"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// APIError is returned when the API answers with a non-2xx status.
type APIError = httpx.APIError

// Config configures the API client.
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the user and goals endpoints.
type Client struct {
	endpoint string
	http     *retryablehttp.Client
	logger   *zap.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		http: httpx.NewClient(httpx.Options{
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}),
		logger: logger,
	}
}

type addUserRequest struct {
	UserID string `json:"auth0_id"`
	Email  string `json:"email"`
}

type saveGoalsRequest struct {
	UserID string                 `json:"auth0_id"`
	Goals  *domain.GoalCollection `json:"goals"`
}

// AddUser registers the user.
func (c *Client) AddUser(ctx context.Context, userID, email string) error {
	return c.post(ctx, "/add-user", addUserRequest{UserID: userID, Email: email})
}

// SaveGoals stores the user's goal collection.
func (c *Client) SaveGoals(ctx context.Context, userID string, goals *domain.GoalCollection) error {
	return c.post(ctx, "/save-goals", saveGoalsRequest{UserID: userID, Goals: goals})
}

// FetchGoals returns the raw JSON the API holds for the user.
func (c *Client) FetchGoals(ctx context.Context, userID string) (json.RawMessage, error) {
	path := "/goals/" + url.PathEscape(userID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	body, err := c.do(ctx, path, req)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("GET %s: response is not JSON", path)
	}
	return json.RawMessage(body), nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(ctx, path, req)
	return err
}

func (c *Client) do(ctx context.Context, path string, req *retryablehttp.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, httpx.Classify(ctx, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Endpoint: path, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
