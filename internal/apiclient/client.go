// Package apiclient is the uniform JSON request layer between the watcher
// and the fraud API. Every call goes through Do, which normalizes transport
// failures, non-2xx rejections and malformed bodies into one tagged error
// type. The client itself never raises user notifications; presenting a
// failure is the caller's concern.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/fraudwatch/internal/logging"
	"github.com/raysh454/fraudwatch/internal/model"
	"github.com/raysh454/fraudwatch/internal/urlutil"
)

// Client performs JSON requests against a single base endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// New creates a Client for the given base endpoint. If httpClient is nil a
// default with a 30s timeout is used; the client performs exactly one attempt
// per call, so any retry policy belongs to the caller.
func New(baseURL string, logger logging.Logger, httpClient *http.Client) (*Client, error) {
	normalized, err := urlutil.NormalizeEndpoint(baseURL)
	if err != nil {
		return nil, fmt.Errorf("normalize endpoint: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	componentLogger := logger.With(logging.Field{Key: "component", Value: "apiclient"})
	componentLogger.Info("created api client",
		logging.Field{Key: "endpoint", Value: normalized},
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()})

	return &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		logger:     componentLogger,
	}, nil
}

// BaseURL returns the normalized base endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs one JSON request. target may be an absolute URL or a path
// resolved against the base endpoint. An empty method means GET; methods are
// passed through uninterpreted otherwise. payload, when non-nil, is
// serialized as the JSON request body. On success the parsed body is
// returned raw; interpreting its shape is the caller's job.
func (c *Client) Do(ctx context.Context, method, target string, payload any) (json.RawMessage, error) {
	if strings.TrimSpace(target) == "" {
		return nil, &RequestError{Kind: KindTransport, Message: "empty request target"}
	}
	if method == "" {
		method = http.MethodGet
	}
	url := target
	if !strings.Contains(target, "://") {
		url = urlutil.Join(c.baseURL, target)
	}

	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &RequestError{
				Kind:    KindSerialize,
				Message: fmt.Sprintf("serialize request payload: %v", err),
				Err:     err,
			}
		}
		bodyReader = bytes.NewReader(data)
	}

	c.logger.Debug("sending api request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: url})

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &RequestError{
			Kind:    KindTransport,
			Message: err.Error(),
			Err:     err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("api request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, &RequestError{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read response body",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, &RequestError{Kind: KindTransport, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Kind:    KindApplication,
			Message: applicationMessage(body),
			Status:  resp.StatusCode,
		}
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &RequestError{Kind: KindParse, Message: err.Error(), Err: err}
	}
	return json.RawMessage(body), nil
}

// applicationMessage extracts the server-supplied "error" field from a
// rejection body, falling back to the generic message when absent or when
// the body is not JSON at all.
func applicationMessage(body []byte) string {
	var wire struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		return wire.Error
	}
	return FallbackMessage
}

// Get is a convenience method for simple GET requests.
func (c *Client) Get(ctx context.Context, target string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, target, nil)
}

// Stats fetches and validates the statistics snapshot. A body missing
// required fields is reported as a parse-kind failure rather than leaking
// zero values to rendering.
func (c *Client) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	raw, err := c.Get(ctx, "/api/stats")
	if err != nil {
		return nil, err
	}
	snap, err := model.DecodeStatsSnapshot(raw)
	if err != nil {
		return nil, &RequestError{Kind: KindParse, Message: err.Error(), Err: err}
	}
	return snap, nil
}

// CheckTransaction submits one transaction for fraud scoring.
func (c *Client) CheckTransaction(ctx context.Context, req model.CheckRequest) (*model.Assessment, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/api/check-transaction", req)
	if err != nil {
		return nil, err
	}
	var out model.Assessment
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &RequestError{Kind: KindParse, Message: err.Error(), Err: err}
	}
	return &out, nil
}

// Close releases client resources. Present for symmetry with other clients;
// the underlying http.Client needs no explicit teardown.
func (c *Client) Close() error {
	c.logger.Info("closing api client")
	return nil
}
