package cosmos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultHTTPTimeout bounds each REST or RPC call when the caller's context
// has no deadline.
const DefaultHTTPTimeout = 30 * time.Second

// maxResponseBytes caps a node response. Account, broadcast and status
// replies are a few kilobytes.
const maxResponseBytes = 4 << 20

// StatusError is a non-200 answer from a node. Message is the gateway's
// error message when the body carries one, otherwise the raw body.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Message)
}

// gatewayError is the {code, message} body returned by the gRPC gateway.
type gatewayError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func defaultHTTPClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: DefaultHTTPTimeout}
}

func trimEndpoint(endpoint string) string {
	return strings.TrimRight(endpoint, "/")
}

// fetch performs one JSON request and returns the body of a 200 response.
// A nil payload sends no body.
func fetch(ctx context.Context, client *http.Client, method, url string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > maxResponseBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		var gerr gatewayError
		if json.Unmarshal(data, &gerr) == nil && gerr.Message != "" {
			msg = gerr.Message
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	return data, nil
}
