// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reader fetches markdown renderings of web pages from the Jina
// Reader service (https://r.jina.ai/<page>).
package reader

import (
	"context"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/rotisserie/eris"

	"github.com/pdiddy/url2md/internal/httputil"
	"github.com/pdiddy/url2md/pkg/types"
)

// acceptMarkdown asks for markdown but tolerates a plain-text rendering.
const acceptMarkdown = "text/markdown, text/plain;q=0.9, */*;q=0.1"

// Client retrieves converted pages. It satisfies convert.Fetcher.
type Client struct {
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a reader client from cfg.
func New(cfg types.ReaderConfig, opts ...Option) *Client {
	c := &Client{http: httputil.NewClient(cfg.HTTPConfig)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues a single GET for targetURL and returns the response body.
// Any status outside 2xx is an error. There are no retries.
func (c *Client) Fetch(ctx context.Context, targetURL string) (string, error) {
	var body string
	err := requests.
		URL(targetURL).
		Client(c.http).
		Accept(acceptMarkdown).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return "", eris.Wrapf(err, "reader: GET %s", targetURL)
	}
	return body, nil
}
