package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// Request represents an HTTP request
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client interface for making HTTP requests
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout time.Duration
	// RetryMax is the number of transport-level retries. Collaborator
	// reads (gateway status) tolerate retries; coupon validation must use
	// zero because retry policy belongs to the caller.
	RetryMax int
}

// DefaultClient implements the Client interface
type DefaultClient struct {
	client *http.Client
}

// NewDefaultClient creates a new DefaultClient with an 8 second timeout
func NewDefaultClient() Client {
	return NewClient(ClientConfig{Timeout: 8 * time.Second})
}

// NewClient creates a client from the given config. With RetryMax > 0 the
// client is backed by retryablehttp, otherwise by a plain http.Client.
func NewClient(cfg ClientConfig) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}

	if cfg.RetryMax > 0 {
		rc := retryablehttp.NewClient()
		rc.RetryMax = cfg.RetryMax
		rc.HTTPClient.Timeout = cfg.Timeout
		rc.Logger = nil
		return &DefaultClient{client: rc.StandardClient()}
	}

	return &DefaultClient{
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send makes an HTTP request and returns the response
func (c *DefaultClient) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrHTTPClient)
	}

	// Set Content-Length if body is present
	if req.Body != nil {
		httpReq.ContentLength = int64(len(req.Body))
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// Set headers
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Make request
	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ierr.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, ierr.WithError(err).
				WithHint("The upstream service did not respond in time").
				Mark(ierr.ErrTimeout)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to reach the upstream service").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the upstream response").
			Mark(ierr.ErrHTTPClient)
	}

	// Copy response headers
	headers := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	// Return HTTP error for non-2xx responses
	if resp.StatusCode >= 400 {
		return nil, NewError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}, nil
}
