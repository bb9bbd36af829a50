// Package client provides the resilient Moltbook HTTP client with retry,
// rate limiting and optional response caching.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bendavidsteel/carcinologer/pkg/cache"
	"github.com/bendavidsteel/carcinologer/pkg/logging"
)

// DefaultBaseURL is the Moltbook v1 API root.
const DefaultBaseURL = "https://www.moltbook.com/api/v1"

// defaultUserAgent mirrors a desktop browser; the API rejects obvious bots.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltbook_requests_total",
		Help: "Total Moltbook requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moltbook_request_duration_seconds",
		Help:    "Moltbook request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root requests are issued against.
	BaseURL string

	// APIKey is attached as a bearer token when non-empty.
	APIKey string

	// UserAgent sent with every request.
	UserAgent string

	// Retry
	MaxRetries int           // attempts per request, including the first
	RetryDelay time.Duration // base backoff, scaled linearly per attempt

	// Timeout is the per-request transport timeout.
	Timeout time.Duration

	// RequestsPerSecond enables a courtesy token-bucket limiter in front of
	// every request when > 0.
	RequestsPerSecond float64

	// Redis enables response caching for successful GETs when non-nil.
	Redis *redis.Client

	// CacheTTL is how long cached responses stay fresh.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		UserAgent:  defaultUserAgent,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		Timeout:    30 * time.Second,
		CacheTTL:   5 * time.Minute,
	}
}

// Client is the resilient Moltbook HTTP client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// New creates a new Moltbook client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("max_retries must be >= 1 (got %d)", cfg.MaxRetries)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logging.NewLogger("moltbook-client"),
	}

	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis, cfg.CacheTTL)
	}

	return c, nil
}

// Do performs an HTTP request with rate limiting, caching and retry.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	var key cache.Key
	cacheable := c.cache != nil && req.Method == http.MethodGet
	if cacheable {
		key = cache.Key{
			Endpoint:    endpoint,
			QueryParams: req.URL.Query(),
		}
		entry, err := c.cache.Get(ctx, key)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		if entry != nil {
			c.logger.Debug().Str("endpoint", endpoint).Msg("Serving response from cache")
			requestsTotal.WithLabelValues(endpoint, "cached").Inc()
			return entry.Response(), nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing Moltbook request")

	resp, err := c.doWithRetry(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}

	requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if cacheable && resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp, c.config.CacheTTL)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if err := c.cache.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		}
	}

	return resp, nil
}

// Get performs a GET request against an API endpoint path (for example
// "/submolts"). Query parameters are part of the endpoint string.
func (c *Client) Get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// Authenticated reports whether an API key is configured.
func (c *Client) Authenticated() bool {
	return c.config.APIKey != ""
}

// Close releases the underlying transport's idle connections. It is safe to
// call regardless of how the client session ends.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager, or nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
