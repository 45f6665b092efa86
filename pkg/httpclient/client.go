package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Client defines an interface for making HTTP requests with a shared cookie store.
// The jar plays the part of the browser cookie store: every request sent through
// Do carries the cookies that apply to its URL.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
	Jar() http.CookieJar
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a new HTTP client with a fresh cookie jar.
// A zero timeout disables the client-side deadline.
func NewStandardClient(timeout time.Duration) (*StandardHTTPClient, error) {
	return NewClientWithTransport(nil, timeout)
}

// NewClientWithTransport creates a client using a custom transport.
// A nil transport falls back to http.DefaultTransport.
func NewClientWithTransport(transport http.RoundTripper, timeout time.Duration) (*StandardHTTPClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &StandardHTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			Jar:       jar,
		},
	}, nil
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// Jar returns the cookie jar shared by all requests
func (c *StandardHTTPClient) Jar() http.CookieJar {
	return c.client.Jar
}
