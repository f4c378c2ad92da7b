// Package convert is the client side of a link conversion: it posts the current
// page URL to the conversion service and normalizes the reply.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"songbridge/internal/core"
)

const (
	// RequestIDHeader correlates client calls with server logs.
	RequestIDHeader = "X-Request-ID"
	// maxResponseSize caps the response body read from the service.
	maxResponseSize = 1 << 20
)

type convertRequest struct {
	URL string `json:"url"`
}

// Client performs conversions against one endpoint. Each Convert call makes
// exactly one request and never retries.
type Client struct {
	endpoint   string
	addr       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the configured endpoint.
func NewClient(config *core.ClientConfig, logger *zap.Logger) *Client {
	addr := config.Endpoint
	if u, err := url.Parse(config.Endpoint); err == nil && u.Host != "" {
		addr = u.Host
	}

	return &Client{
		endpoint:   config.Endpoint,
		addr:       addr,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// Endpoint returns the conversion endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Convert posts pageURL to the service. It returns either a result or one of
// UnreachableError, TransportError, StatusError, APIError or MalformedResponseError.
func (c *Client) Convert(ctx context.Context, pageURL string) (*Result, error) {
	payload, err := json.Marshal(convertRequest{URL: pageURL})
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With(zap.String("request_id", requestID), zap.String("url", pageURL))
	logger.Debug("Sending conversion request", zap.String("endpoint", c.endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isUnreachable(err) {
			logger.Debug("Conversion service unreachable", zap.Error(err))
			return nil, &UnreachableError{Addr: c.addr, Err: err}
		}
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	logger.Debug("Conversion response received", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Code: resp.StatusCode}
		if gjson.ValidBytes(body) {
			statusErr.Detail = gjson.GetBytes(body, "error").String()
		}
		logger.Info("Conversion failed",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", statusErr.Detail))
		return nil, statusErr
	}

	result, err := parseBody(body)
	if err != nil {
		logger.Info("Conversion returned no result", zap.Error(err))
		return nil, err
	}

	logger.Debug("Conversion succeeded",
		zap.String("song", result.Original.Song),
		zap.Int("alternatives", len(result.Alternatives)))
	return result, nil
}

// isUnreachable reports whether err means the service could not be contacted,
// as opposed to failing after the connection was made.
func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
