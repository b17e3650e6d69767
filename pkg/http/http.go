// Package http provides the HTTP client used to fetch remote CRDs.
package http

import (
	"fmt"
	nethttp "net/http"
	"time"
)

// Client sends requests with a timeout and a fixed User-Agent.
type Client struct {
	http      *nethttp.Client
	userAgent string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		http:      &nethttp.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Do sends req. The request is cloned before headers are added.
func (c *Client) Do(req *nethttp.Request) (*nethttp.Response, error) {
	req = req.Clone(req.Context())
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}
