// Package api is the single chokepoint for backend calls: it attaches the
// bearer token, classifies failures, and triggers the navigations the
// failure taxonomy demands. Endpoint methods are thin parameter-forwarding
// wrappers with no retries, backoff, or caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// TokenSource yields the current bearer token; empty means unauthenticated.
type TokenSource interface {
	Token() string
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Navigator  Navigator
	Sessions   SessionClearer
	Logger     *zap.Logger
}

type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	nav      Navigator
	sessions SessionClearer
	logger   *zap.Logger
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	nav := cfg.Navigator
	if nav == nil {
		nav = NopNavigator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpClient,
		tokens:   cfg.Tokens,
		nav:      nav,
		sessions: cfg.Sessions,
		logger:   logger,
	}
}

// do issues one request and decodes a 2xx body into out. Any other outcome is
// classified per the failure taxonomy and returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := &Error{RequestID: requestID, Code: "network_failure", Message: err.Error(), Err: err}
		c.logger.Warn("request failed before a response was received",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		c.nav.NetworkError(ErrorContext{RequestID: requestID, Message: apiErr.Message, Code: apiErr.Code})
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return c.classify(resp, requestID, method, path)
}

func (c *Client) classify(resp *http.Response, requestID, method, path string) error {
	var body ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &body); err != nil {
		body.Error = http.StatusText(resp.StatusCode)
	}

	apiErr := &Error{
		Status:    resp.StatusCode,
		Code:      body.Code,
		Message:   body.Error,
		RequestID: requestID,
	}
	ectx := ErrorContext{RequestID: requestID, Message: apiErr.Message, Code: apiErr.Code}

	c.logger.Warn("backend returned an error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.sessions != nil {
			c.sessions.ClearSession()
		}
		c.nav.Unauthorized()
	case resp.StatusCode == http.StatusForbidden:
		c.nav.Forbidden(ectx)
	case resp.StatusCode == http.StatusNotFound:
		// Caller decides page-level handling.
	case resp.StatusCode >= 500:
		c.nav.ServerError(ectx)
	default:
		// Remaining 4xx: message only, no navigation.
	}

	return apiErr
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}
