package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"instalytics/pkg/config"
	errs "instalytics/pkg/errors"
	"instalytics/pkg/logger"
	"instalytics/pkg/ratelimit"
	"instalytics/pkg/retry"
)

// Client fetches raw scrape records over HTTP
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	baseURL     string
	rateLimiter ratelimit.Limiter
	retryCfg    *config.RetryConfig
	logger      logger.Logger
}

// scrapeResponse is the provider's envelope around raw records
type scrapeResponse struct {
	Status  string      `json:"status"`
	Records []RawRecord `json:"records"`
}

// NewClient creates a new fetch client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9",
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// NewClientWithConfig creates a client with rate limiting and retry wired in
func NewClientWithConfig(cfg *config.Config, log logger.Logger) *Client {
	c := NewClient(cfg.Instagram.FetchTimeout, log)
	c.retryCfg = &cfg.Retry

	if cfg.RateLimit.RequestsPerMinute > 0 {
		c.rateLimiter = ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	}

	if cfg.Instagram.SessionID != "" {
		c.SetHeader("Cookie", fmt.Sprintf("sessionid=%s; csrftoken=%s",
			cfg.Instagram.SessionID, cfg.Instagram.CSRFToken))
	}
	if cfg.Instagram.CSRFToken != "" {
		c.SetHeader("x-csrftoken", cfg.Instagram.CSRFToken)
	}
	if cfg.Instagram.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.Instagram.UserAgent)
	}

	return c
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL overrides the provider base URL, mainly for tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// FetchProfile fetches the raw profile record set for a handle.
// An empty record set is a distinct no-data failure, not a network error.
func (c *Client) FetchProfile(ctx context.Context, handle string) (*RawRecord, error) {
	reqURL := c.baseURL + ProfileEndpoint + "?username=" + handle
	return c.fetchRecord(ctx, reqURL, handle)
}

// FetchPost fetches the raw record for a single post shortcode
func (c *Client) FetchPost(ctx context.Context, shortcode string) (*RawRecord, error) {
	reqURL := c.baseURL + PostEndpoint + "?shortcode=" + shortcode
	return c.fetchRecord(ctx, reqURL, shortcode)
}

// fetchRecord performs a rate-limited, retried GET and decodes the envelope
func (c *Client) fetchRecord(ctx context.Context, reqURL, subject string) (*RawRecord, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, &errs.Error{
				Type:    errs.ErrorTypeNetwork,
				Message: fmt.Sprintf("rate limit wait aborted: %v", err),
			}
		}
	}

	op := func() (*scrapeResponse, error) {
		return c.getJSON(ctx, reqURL)
	}

	var resp *scrapeResponse
	var err error
	if c.retryCfg != nil {
		resp, err = retry.DoWithResult(op, &retry.Config{
			MaxAttempts: c.retryCfg.MaxAttempts,
			Backoff: &retry.ExponentialBackoff{
				BaseDelay:    c.retryCfg.BaseDelay,
				MaxDelay:     c.retryCfg.MaxDelay,
				Multiplier:   c.retryCfg.Multiplier,
				JitterFactor: c.retryCfg.JitterFactor,
			},
			RetryIf: retry.DefaultRetryIf,
			Context: ctx,
			Logger:  c.logger,
		})
	} else {
		resp, err = op()
	}
	if err != nil {
		return nil, err
	}

	if len(resp.Records) == 0 {
		c.logger.WarnWithFields("fetch returned no records", map[string]interface{}{
			"subject": subject,
		})
		return nil, errs.NewNoDataError(subject)
	}

	return &resp.Records[0], nil
}

// getJSON performs a single GET request and decodes the response envelope
func (c *Client) getJSON(ctx context.Context, reqURL string) (*scrapeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	var envelope scrapeResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	return &envelope, nil
}

// statusError maps an HTTP status code to a typed error
func statusError(statusCode int) *errs.Error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &errs.Error{
			Type:    errs.ErrorTypeRateLimit,
			Message: "rate limited by provider",
			Code:    statusCode,
		}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &errs.Error{
			Type:    errs.ErrorTypeAuth,
			Message: "authentication failed",
			Code:    statusCode,
		}
	case statusCode == http.StatusNotFound:
		return &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: "account not found",
			Code:    statusCode,
		}
	case statusCode >= 500:
		return &errs.Error{
			Type:    errs.ErrorTypeServerError,
			Message: fmt.Sprintf("server returned status %d", statusCode),
			Code:    statusCode,
		}
	default:
		return &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status %d", statusCode),
			Code:    statusCode,
		}
	}
}
