package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"bubbledash/internal/provider"
)

const baseURL = "https://www.alphavantage.co/query"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// KeySource yields the API key to send with each request. It is consulted
// on every call so a key changed at runtime takes effect immediately.
type KeySource func() string

// Client is a client for the Alpha Vantage query API.
type Client struct {
	// baseURL is the base URL for the API.
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

// ClientOption is a configuration option for the Alpha Vantage client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
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

// WithQuery sets additional query parameters to be sent with each request.
func WithQuery(query url.Values) ClientOption {
	return func(c *Client) {
		for key, values := range query {
			for _, value := range values {
				c.query.Add(key, value)
			}
		}
	}
}

// NewClient creates a new Alpha Vantage client. The key source may return a
// placeholder; it is sent as-is and the provider rejects it.
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

// get issues one GET for the given function and symbol and decodes the JSON
// body into out. The status code is not inspected: the provider reports
// rate limits and bad symbols inside a 200 body, and any JSON body is
// handed to the caller to look for its envelope.
func (c *Client) get(ctx context.Context, op, function, symbol string, out any) error {
	query := maps.Clone(c.query)
	query.Set("function", function)
	query.Set("symbol", symbol)
	query.Set("apikey", c.key())

	u := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return &provider.FetchError{Provider: provider.AlphaVantage, Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &provider.FetchError{Provider: provider.AlphaVantage, Op: op, Err: fmt.Errorf("performing request: %w", err)}
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &provider.FetchError{Provider: provider.AlphaVantage, Op: op, Err: fmt.Errorf("decoding response (status %d): %w", res.StatusCode, err)}
	}
	return nil
}
