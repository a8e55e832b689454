// Package httpx is the shared outbound HTTP transport.
package httpx

import (
	"net"
	"net/http"
	"time"
)

// UserAgent is sent on every outbound request that does not set its own.
const UserAgent = "bubbledash/1.0"

// Client is a small wrapper around http.Client with sane defaults. It
// satisfies the HTTPClient interface of every provider client.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
}

// New returns a client whose requests time out after timeout. The timeout
// covers the whole exchange including reading the body.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: UserAgent}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req)
}
