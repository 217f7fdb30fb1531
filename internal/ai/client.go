// Package ai calls the external AI execution endpoint on behalf of the
// "ai" action handler. The endpoint contract is owned by the platform:
// one JSON request in, one {result} or {error} JSON response out.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is the payload sent to the execution endpoint.
type Request struct {
	AppID    string            `json:"appId"`
	AIAction string            `json:"aiAction"`
	Prompt   string            `json:"prompt"`
	Persona  string            `json:"persona,omitempty"`
	Context  map[string]string `json:"context,omitempty"`
}

type response struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// Executor is the interface the action engine depends on; tests swap in
// a fake.
type Executor interface {
	Execute(ctx context.Context, req Request) (string, error)
}

// Client talks HTTP to a real execution endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Execute posts the request and returns the generated text.
func (c *Client) Execute(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding ai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building ai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling ai endpoint: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading ai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ai endpoint returned %d", resp.StatusCode)
	}

	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding ai response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ai execution failed: %s", out.Error)
	}
	return out.Result, nil
}
