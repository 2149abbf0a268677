// Package web fetches provider pages. Each page is one rate-limited,
// blocking GET with no retries.
package web

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/okian/finmacro/pkg/logger"
	"github.com/okian/finmacro/pkg/metrics"
)

// Client defaults.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Getter fetches a page body. provider labels the request in logs and
// metrics.
type Getter interface {
	Get(ctx context.Context, provider, url string) (string, error)
}

// Client is a Getter backed by resty.
type Client struct {
	http      *resty.Client
	timeout   time.Duration
	userAgent string
	rps       float64
	limiter   *rate.Limiter
	log       logger.Logger
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		rps:       DefaultRateLimit,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.limiter = rate.NewLimiter(rate.Inf, 0)
	if c.rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.rps), 1)
	}
	c.http = resty.New().
		SetTimeout(c.timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", c.userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return c
}

// Get returns the body of url. Transport failures and status codes >= 400
// are errors; the latter wrap ErrStatus.
func (c *Client) Get(ctx context.Context, provider, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordErrorByComponent(provider, "rate_limit")
		return "", fmt.Errorf("%s: get %s: %w", provider, url, err)
	}

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		metrics.RecordProviderRequest(provider, 0, time.Since(start))
		metrics.RecordErrorByComponent(provider, "transport")
		c.log.Error(ctx, "request failed",
			logger.String("provider", provider),
			logger.String("url", url),
			logger.Error(err))
		return "", fmt.Errorf("%s: get %s: %w", provider, url, err)
	}

	metrics.RecordProviderRequest(provider, resp.StatusCode(), resp.Time())
	if resp.StatusCode() >= 400 {
		metrics.RecordErrorByComponent(provider, "status")
		c.log.Error(ctx, "request rejected",
			logger.String("provider", provider),
			logger.String("url", url),
			logger.Int("status_code", resp.StatusCode()))
		return "", fmt.Errorf("%s: get %s: %w %d", provider, url, ErrStatus, resp.StatusCode())
	}

	c.log.Debug(ctx, "page fetched",
		logger.String("provider", provider),
		logger.String("url", url),
		logger.Int("bytes", len(resp.Body())))
	return resp.String(), nil
}
