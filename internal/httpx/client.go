// Package httpx builds the retrying HTTP client shared by the remote
// collaborators.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// ErrUnavailable indicates the remote service could not be reached.
var ErrUnavailable = errors.New("service unavailable")

// APIError is returned for non-2xx responses.
type APIError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Status, e.Body)
}

// dialTimeout bounds connection setup so an unreachable service fails fast.
const dialTimeout = 5 * time.Second

// Options configures a client.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	Logger     *zap.Logger
}

// NewClient returns a retryablehttp client. Retries are off unless
// MaxRetries is positive.
func NewClient(opts Options) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = max(opts.MaxRetries, 0)
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = opts.Timeout
	transport := cleanhttp.DefaultPooledTransport()
	transport.DialContext = (&net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	c.HTTPClient.Transport = transport
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Logger != nil {
		c.Logger = zapLeveled{opts.Logger.Sugar()}
	} else {
		c.Logger = nil
	}
	return c
}

// Classify maps transport failures onto sentinel errors: context
// expiry stays a context error and dial failures become ErrUnavailable.
func Classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// zapLeveled adapts a sugared zap logger to retryablehttp.LeveledLogger.
type zapLeveled struct {
	s *zap.SugaredLogger
}

func (z zapLeveled) Error(msg string, kv ...any) { z.s.Errorw(msg, kv...) }
func (z zapLeveled) Info(msg string, kv ...any)  { z.s.Debugw(msg, kv...) }
func (z zapLeveled) Debug(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z zapLeveled) Warn(msg string, kv ...any)  { z.s.Warnw(msg, kv...) }
