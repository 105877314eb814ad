// Package studio wraps the production back-office HTTP API: workflow
// queries, operator verdicts, and recording session management.
package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"slate/internal/config"
	"slate/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPDoer describes the HTTP client used by the studio service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the studio backend with bearer-token auth.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPDoer
}

// Option customizes the studio client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a studio API client.
func NewClient(baseURL, token string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewConfiguredClient builds a client from configuration.
func NewConfiguredClient(cfg *config.Config) *Client {
	timeout := defaultHTTPTimeout
	if cfg.Studio.RequestTimeout > 0 {
		timeout = time.Duration(cfg.Studio.RequestTimeout) * time.Second
	}
	return NewClient(cfg.Studio.BaseURL, cfg.Studio.APIToken,
		WithHTTPClient(&http.Client{Timeout: timeout}))
}

// do issues one API request and decodes the JSON response into out when
// out is non-nil. Failures are wrapped with the service marker that best
// matches the HTTP status so callers can branch on retryability.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return services.Wrap(services.ErrConfiguration, "studio", "request", "base url not configured", nil)
	}
	endpoint := c.baseURL + path
	if _, err := url.Parse(endpoint); err != nil {
		return services.Wrap(services.ErrConfiguration, "studio", "request", "build url", err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, "studio", "request", "encode body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return services.Wrap(services.ErrValidation, "studio", "request", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "studio", "request", method+" "+path, err)
		}
		return services.Wrap(services.ErrUnavailable, "studio", "request", method+" "+path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Wrap(services.ErrTransient, "studio", "request", "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(resp.StatusCode, method, path, payload)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return services.Wrap(services.ErrTransient, "studio", "request", "decode response", err)
	}
	return nil
}

func statusError(status int, method, path string, body []byte) error {
	msg := fmt.Sprintf("%s %s returned %d", method, path, status)
	detail := strings.TrimSpace(string(body))
	if detail != "" && len(detail) < 512 {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	marker := services.ErrTransient
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		marker = services.ErrConfiguration
	case status == http.StatusNotFound:
		marker = services.ErrNotFound
	case status == http.StatusRequestTimeout:
		marker = services.ErrTimeout
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		marker = services.ErrValidation
	case status >= http.StatusInternalServerError:
		marker = services.ErrUnavailable
	}
	return services.Wrap(marker, "studio", "request", msg, nil)
}
