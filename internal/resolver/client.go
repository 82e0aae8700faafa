package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/resilience"
	"go.uber.org/zap"
)

// DefaultBaseURL is the jsdelivr data API
const DefaultBaseURL = "https://data.jsdelivr.com/v1"

// DefaultTimeout bounds one resolution call end to end
const DefaultTimeout = 5 * time.Second

// Client resolves package versions against the CDN
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	timeout time.Duration
	logger  *logging.Logger
}

// Config tunes the resolver client
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *logging.Logger
}

// resolvedVersion is the CDN's response shape
type resolvedVersion struct {
	Version string `json:"version"`
}

// New creates a resolver client with retrying transport, rate limiting,
// and a circuit breaker
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDefault()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 1 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "previewd/1.0").
		SetTransport(&retryablehttp.RoundTripper{Client: retryClient})

	return &Client{
		resty:   restyClient,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		breaker: resilience.NewBreaker("cdn-resolver", 5, 30*time.Second),
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// ResolveLatest resolves a package name to its latest published version.
// A deadline exceeded is rethrown as a descriptive error; everything else
// wraps the underlying cause.
func (c *Client) ResolveLatest(ctx context.Context, pkg string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("dependency resolution for %q timed out waiting for rate limit: %w", pkg, err)
	}

	var version string
	err := c.breaker.Do(func() error {
		var resolved resolvedVersion
		resp, err := c.resty.R().
			SetContext(ctx).
			SetResult(&resolved).
			Get("/packages/npm/" + pkg + "/resolved")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("CDN returned %s", resp.Status())
		}
		if resolved.Version == "" {
			return fmt.Errorf("CDN returned no version")
		}
		version = resolved.Version
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("dependency resolution for %q timed out after %s: %w", pkg, c.timeout, err)
		}
		return "", fmt.Errorf("failed to resolve %q: %w", pkg, err)
	}
	return version, nil
}

// ResolveAll resolves a set of packages, returning whatever succeeded.
// Failures are logged and skipped; callers pin the rest to "latest".
func (c *Client) ResolveAll(ctx context.Context, pkgs []string) map[string]string {
	out := make(map[string]string, len(pkgs))
	for _, pkg := range pkgs {
		version, err := c.ResolveLatest(ctx, pkg)
		if err != nil {
			c.logger.Debug("version resolution skipped", zap.String("package", pkg), zap.Error(err))
			continue
		}
		out[pkg] = version
	}
	return out
}
