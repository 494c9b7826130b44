package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johann/setlab/internal/config"
)

// Client is an HTTP client for the set operations server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// New creates a new client from config
func New(cfg *config.ClientConfig) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("server URL not configured. Run 'setlab login <server-url>'")
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.ServerURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// PowerSet asks the server for the power set of a comma-separated list
func (c *Client) PowerSet(ctx context.Context, elements string) ([][]string, error) {
	var resp struct {
		PowerSet [][]string `json:"powerset"`
	}
	if err := c.postJSON(ctx, "/powerset", map[string]string{"elements": elements}, &resp); err != nil {
		return nil, err
	}
	return resp.PowerSet, nil
}

// Check asks the server whether two comma-separated lists describe the same set
func (c *Client) Check(ctx context.Context, setA, setB string) (bool, error) {
	var resp struct {
		Equal bool `json:"equal"`
	}
	if err := c.postJSON(ctx, "/check", map[string]string{"setA": setA, "setB": setB}, &resp); err != nil {
		return false, err
	}
	return resp.Equal, nil
}

// Health checks that the server is reachable and healthy
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Type = payload.Type
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
