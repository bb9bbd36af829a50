package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltbook_retries_total",
		Help: "Total number of retry attempts by reason",
	}, []string{"reason"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moltbook_retry_backoff_seconds",
		Help:    "Backoff duration before retries by reason",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30},
	}, []string{"reason"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltbook_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by reason",
	}, []string{"reason"})
)

// Retry reasons used as metric labels.
const (
	retryReasonStatus  = "status"
	retryReasonTimeout = "timeout"
)

// doWithRetry issues the request up to MaxRetries times.
//
// Transient statuses (429, 500, 502, 503, 504) and transport timeouts are
// retried after a linear backoff of RetryDelay * attempt (1-indexed). Any
// other response is returned immediately, and any non-timeout transport
// error fails immediately. When attempts run out, the most recent outcome
// wins: the last transient response is returned as-is, or the last timeout
// is surfaced wrapped in ErrRetryExhausted.
func (c *Client) doWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var lastResp *http.Response
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if !isTimeout(err) {
				closeBody(lastResp)
				return nil, err
			}

			c.logger.Warn().
				Err(err).
				Str("endpoint", req.URL.Path).
				Int("attempt", attempt).
				Msg("Request timed out")

			closeBody(lastResp)
			lastResp = nil
			lastErr = err

			if attempt < c.config.MaxRetries {
				if err := c.backoff(ctx, attempt, retryReasonTimeout); err != nil {
					return nil, err
				}
			}
			continue
		}

		if !RetryableStatus(resp.StatusCode) {
			closeBody(lastResp)
			return resp, nil
		}

		c.logger.Warn().
			Str("endpoint", req.URL.Path).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Msg("Transient API error")

		closeBody(lastResp)
		lastResp = resp
		lastErr = nil

		if attempt < c.config.MaxRetries {
			if err := c.backoff(ctx, attempt, retryReasonStatus); err != nil {
				closeBody(lastResp)
				return nil, err
			}
		}
	}

	// Attempts exhausted. The final transient response is the explicit loop
	// result; only when the last attempt timed out is the error surfaced.
	if lastResp != nil {
		retryExhaustedTotal.WithLabelValues(retryReasonStatus).Inc()
		c.logger.Warn().
			Str("endpoint", req.URL.Path).
			Int("status", lastResp.StatusCode).
			Int("max_retries", c.config.MaxRetries).
			Msg("Retry attempts exhausted, returning last response")
		return lastResp, nil
	}

	retryExhaustedTotal.WithLabelValues(retryReasonTimeout).Inc()
	c.logger.Error().
		Err(lastErr).
		Str("endpoint", req.URL.Path).
		Int("max_retries", c.config.MaxRetries).
		Msg("Retry attempts exhausted, all attempts timed out")
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, c.config.MaxRetries, lastErr)
}

// backoff sleeps for RetryDelay * attempt, respecting context cancellation.
func (c *Client) backoff(ctx context.Context, attempt int, reason string) error {
	wait := time.Duration(attempt) * c.config.RetryDelay

	retriesTotal.WithLabelValues(reason).Inc()
	retryBackoffSeconds.WithLabelValues(reason).Observe(wait.Seconds())

	c.logger.Debug().
		Str("reason", reason).
		Int("attempt", attempt).
		Dur("backoff", wait).
		Msg("Retrying request after backoff")

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
	case <-time.After(wait):
		return nil
	}
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}
