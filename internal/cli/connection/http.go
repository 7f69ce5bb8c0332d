package connection

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

// DefaultTimeout bounds one request/response cycle.
const DefaultTimeout = 30 * time.Second

// Client provides HTTP communication with a MintVault server.
type Client struct {
	baseURL string
	caller  string
	client  *http.Client
}

// NewClient creates a client for the given server address. The caller
// address is sent as X-Caller-Address on every request; it may be
// empty for read-only use.
func NewClient(server, callerAddr string) *Client {
	baseURL := server
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &Client{
		baseURL: baseURL,
		caller:  callerAddr,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

// Post performs a POST request with a JSON body and decodes the
// envelope data into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.caller != "" {
		req.Header.Set("X-Caller-Address", c.caller)
	}
	req.Header.Set("User-Agent", "mintvault-cli/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	return parseEnvelope(resp, out)
}

// envelope mirrors the server's standard response format.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// parseEnvelope unwraps the response envelope. Error envelopes become
// errors of the form "[CODE] message".
func parseEnvelope(resp *http.Response, out any) error {
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("parse response: %w", err)
	}

	if resp.StatusCode >= 400 || (env.Code != "OK" && env.Code != "") {
		if env.Message != "" {
			return fmt.Errorf("[%s] %s", env.Code, env.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}
