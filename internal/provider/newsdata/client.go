package newsdata

import (
	"net/http"
	"net/url"
)

const baseURL = "https://newsdata.io/api/1/news"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=newsdata_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// KeySource yields the API key to send with each request.
type KeySource func() string

// Client is a client for the NewsData.io latest news endpoint.
type Client struct {
	// baseURL is the news endpoint.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// key returns the current API key.
	key KeySource
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// ClientOption is a configuration option for the NewsData client.
type ClientOption func(*Client)

// WithBaseURL sets the news endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithQuery sets additional query parameters, such as language or country
// filters, to be sent with each request.
func WithQuery(query url.Values) ClientOption {
	return func(c *Client) {
		for key, values := range query {
			for _, value := range values {
				c.query.Add(key, value)
			}
		}
	}
}

// NewClient creates a new NewsData client.
func NewClient(key KeySource, options ...ClientOption) *Client {
	if key == nil {
		key = func() string { return "" }
	}
	var c = &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		key:        key,
		header:     http.Header{},
		query:      url.Values{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// NewStaticClient creates a client with a fixed API key.
func NewStaticClient(key string, options ...ClientOption) *Client {
	return NewClient(func() string { return key }, options...)
}
