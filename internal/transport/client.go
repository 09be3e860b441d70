// Package transport provides the shared HTTP client used by the catalog
// sources.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/nxshot/capturedb/pkg/errors"
)

// UserAgent identifies this tool to upstream catalogs.
const UserAgent = "capturedb/1.0"

// DefaultTimeout is the default timeout for catalog requests.
const DefaultTimeout = 30 * time.Second

// Client wraps http.Client with the headers and timeout the catalog
// endpoints expect.
type Client struct {
	http *http.Client
}

// New creates a transport client with the given timeout. A zero timeout
// falls back to DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Do performs an HTTP request with common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", UserAgent)
	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	return c.Do(req)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "HEAD "+url, err)
	}
	return c.Do(req)
}
