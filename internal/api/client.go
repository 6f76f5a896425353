// Package api is the terminal client's view of the kernel's JSON endpoints.
package api

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
)

const DefaultTimeout = 10 * time.Second

// ResponseError is returned when the kernel answers with a non-zero code.
type ResponseError struct {
	Endpoint string
	Status   int
	Code     int
	Msg      string
}

func (e *ResponseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: code %d (status %d)", e.Endpoint, e.Code, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Msg)
}

// IsNotFound reports whether err is a kernel 404.
func IsNotFound(err error) bool {
	var re *ResponseError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Client posts requests to a kernel.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request; zero disables the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a client for the kernel at baseURL, e.g. "http://127.0.0.1:6806".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the kernel address.
func (c *Client) BaseURL() string { return c.baseURL }

// Post sends req to endpoint and decodes the data field into out (when
// non-nil).
func (c *Client) Post(ctx context.Context, endpoint string, req, out interface{}) error {
	if req == nil {
		req = struct{}{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", endpoint, err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", endpoint, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &ResponseError{Endpoint: endpoint, Status: resp.StatusCode, Code: -1, Msg: fmt.Sprintf("malformed response: %v", err)}
	}
	if env.Code != 0 || resp.StatusCode >= http.StatusBadRequest {
		code := env.Code
		if code == 0 {
			code = -1
		}
		return &ResponseError{Endpoint: endpoint, Status: resp.StatusCode, Code: code, Msg: env.Msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", endpoint, err)
	}
	return nil
}
