// Package api implements the Tiendanube REST client used by the store
// management tools. Results are returned as strings ready to hand back
// to the model: JSON bodies on success, descriptive messages on failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vinayprograms/agentkit/logging"
)

const defaultTimeout = 30 * time.Second

// Config holds the connection settings for a store.
type Config struct {
	AccessToken string
	StoreID     string
	UserAgent   string

	// BaseURL overrides the computed store URL. Mainly for tests.
	BaseURL string

	Timeout time.Duration
}

// Client is a thin wrapper over the Tiendanube Admin API.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	log       *logging.Logger
	sleep     func(time.Duration)
}

// NewClient builds a client for the configured store.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://api.tiendanube.com/2025-03/%s", cfg.StoreID)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		token:     cfg.AccessToken,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		log:       logging.New().WithComponent("api"),
		sleep:     time.Sleep,
	}
}

// Get performs a GET request. params may be nil.
func (c *Client) Get(ctx context.Context, path string, params url.Values) string {
	return c.request(ctx, http.MethodGet, path, params, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) string {
	return c.request(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) string {
	return c.request(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) string {
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

// request issues the HTTP call and renders the outcome for the model.
// Rate-limited requests (429) are retried once, honoring Retry-After.
func (c *Client) request(ctx context.Context, method, path string, params url.Values, body interface{}) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Sprintf("HTTP error: %v", err)
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return fmt.Sprintf("HTTP error: %v", err)
		}
		req.Header.Set("Authentication", "bearer "+c.token)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn("request failed", map[string]interface{}{
				"method": method,
				"path":   path,
				"error":  err.Error(),
			})
			return fmt.Sprintf("HTTP error: %v", err)
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Sprintf("HTTP error: %v", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			wait := retryAfter(resp.Header.Get("Retry-After"))
			c.log.Warn("rate limited, retrying", map[string]interface{}{
				"path": path,
				"wait": wait.String(),
			})
			c.sleep(wait)
			continue
		}

		if resp.StatusCode == http.StatusNoContent {
			return `{"status":"success","message":"Resource deleted"}`
		}

		if resp.StatusCode >= 400 {
			c.log.Warn("api error", map[string]interface{}{
				"method": method,
				"path":   path,
				"status": resp.StatusCode,
			})
			return fmt.Sprintf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}

		c.log.Debug("request ok", map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		})
		return string(raw)
	}

	return "Request failed after retry"
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.ParseFloat(header, 64)
	if err != nil || secs < 0 {
		secs = 1
	}
	return time.Duration(secs * float64(time.Second))
}

// ToJSON renders a value as compact JSON for the model. Strings pass
// through untouched so error messages are not double-encoded.
func ToJSON(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// ParseJSON parses a JSON string supplied by the model. On failure the
// second return is a message suitable for returning as a tool result.
func ParseJSON(raw, label string) (interface{}, string) {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Sprintf("Invalid JSON in %s: %v", label, err)
	}
	return v, ""
}
