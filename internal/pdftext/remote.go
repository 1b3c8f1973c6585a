package pdftext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/onboarding/internal/httpx"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// RemoteConfig configures the text extraction service.
type RemoteConfig struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
}

// Remote posts the document to <Endpoint>/extract-pdf-text as the
// multipart field "pdf" and reads {"text": ...} back.
type Remote struct {
	endpoint string
	http     *retryablehttp.Client
	logger   *zap.Logger
}

// NewRemote creates a Remote extractor.
func NewRemote(cfg RemoteConfig, logger *zap.Logger) *Remote {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remote{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		http: httpx.NewClient(httpx.Options{
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}),
		logger: logger,
	}
}

type extractResponse struct {
	Text *string `json:"text"`
}

func (r *Remote) Text(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("pdf", name)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/extract-pdf-text", body.Bytes())
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	r.logger.Debug("sending pdf for extraction", zap.String("file", name), zap.Int("bytes", len(data)))
	resp, err := r.http.Do(req)
	if err != nil {
		return "", httpx.Classify(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &httpx.APIError{Endpoint: "/extract-pdf-text", Status: resp.StatusCode, Body: string(respBody)}
	}

	var out extractResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if out.Text == nil {
		return "", errors.New("extraction response has no text field")
	}
	r.logger.Debug("extracted text", zap.String("file", name), zap.Int("chars", len(*out.Text)))
	return nonEmpty(*out.Text)
}
