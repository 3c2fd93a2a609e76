package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
	PostForm(ctx context.Context, path string, form url.Values) (*Response, error)
}

type Client struct {
	baseURL      string
	userAgent    string
	httpClient   *http.Client
	GetFunc      func(ctx context.Context, path string) (*Response, error)
	PostFormFunc func(ctx context.Context, path string, form url.Values) (*Response, error)
}

type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fullURL(path), nil)
	if err != nil {
		return nil, err
	}

	return c.do(req)
}

// PostForm sends an application/x-www-form-urlencoded POST body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	if c.PostFormFunc != nil {
		return c.PostFormFunc(ctx, path, form)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.fullURL(path),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			return
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *Client) fullURL(path string) string {
	if c.baseURL == "" {
		return path // If no base URL, treat path as full URL
	}
	return c.baseURL + path
}
