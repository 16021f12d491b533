package upstream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultRetryMax     = 2
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 3 * time.Second
)

// leveledSlog adapts *slog.Logger to retryablehttp's LeveledLogger.
// Client ERROR is re-written to WARN because the request is being retried.
type leveledSlog struct {
	inner *slog.Logger
}

func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

// retryPolicy wraps retryablehttp.DefaultRetryPolicy but treats
// 429 Too Many Requests as non-retryable: the cache layer decides how to
// deal with upstream rate limiting, retrying would only make it worse.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// NewClient returns the HTTP client used for all alejo.io API calls.
// It has the stdlib http.Client interface but retries connection errors and
// 5xx responses internally, logging intermediate failures at WARN level.
// Build it once and share it across resources.
func NewClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Transport = cleanhttp.DefaultPooledTransport()
	retryClient.RetryMax = defaultRetryMax
	retryClient.RetryWaitMin = defaultRetryWaitMin
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.CheckRetry = retryPolicy
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{
		inner: slog.Default().With("subsystem", "upstream"),
	})

	client := retryClient.StandardClient()
	client.Timeout = defaultTimeout
	return client
}
