package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abroadmap/abroadmap/config"
	"github.com/abroadmap/abroadmap/pkg/circuitbreaker"
	"github.com/abroadmap/abroadmap/pkg/httpclient"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/abroadmap/abroadmap/pkg/metrics"
	"github.com/abroadmap/abroadmap/pkg/retry"
	"github.com/abroadmap/abroadmap/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// CSRFCookieName is the cookie the backend stores its anti-forgery token in
	CSRFCookieName = "csrftoken"

	// CSRFHeader echoes the token back on mutating requests
	CSRFHeader = "X-CSRFToken"

	serviceName = "backend"
)

// RequestOptions describes a single backend call
type RequestOptions struct {
	Method string
	// Body is JSON-encoded unless IsFormData is set. []byte, string and io.Reader
	// bodies are sent as they are.
	Body any
	// IsFormData sends Body (a *FormData) as multipart/form-data
	IsFormData bool
	Headers    map[string]string
}

// FormData is a multipart body; the encoder picks the boundary
type FormData struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is a file part of a multipart body
type FormFile struct {
	Field    string
	FileName string
	Content  []byte
}

// Response is a successful backend reply.
// Data holds the parsed JSON value when JSON is true and the body text otherwise.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	JSON       bool
	Data       any
}

// Decode unmarshals the body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return decodeError(r.StatusCode, err)
	}
	return nil
}

// Text returns the body as a string
func (r *Response) Text() string {
	return string(r.Body)
}

// Client is the only component that talks to the REST backend.
// It keeps no session state: identity lives in the cookie jar of the HTTP client.
type Client struct {
	baseURL    string
	base       *url.URL
	httpClient httpclient.Client
	breaker    *circuitbreaker.Breaker
	retries    int
}

// Option customizes a Client
type Option func(*Client)

// WithCircuitBreaker routes every call through cb
func WithCircuitBreaker(b *circuitbreaker.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithRetries retries GET requests that fail at the transport level
func WithRetries(maxRetries int) Option {
	return func(c *Client) {
		c.retries = maxRetries
	}
}

// New creates a client for the backend rooted at baseURL
func New(baseURL string, httpClient httpclient.Client, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL:    baseURL,
		base:       base,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds the HTTP transport, cookie jar and client from configuration
func NewFromConfig(cfg config.APIConfig) (*Client, error) {
	httpClient, err := httpclient.NewStandardClient(time.Duration(cfg.TimeoutSeconds) * time.Second)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithRetries(cfg.RetryMax)}
	if cfg.CircuitBreaker {
		opts = append(opts, WithCircuitBreaker(circuitbreaker.New(circuitbreaker.DefaultSettings(serviceName))))
	}

	return New(cfg.BaseURL, httpClient, opts...)
}

// BaseURL returns the configured backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CSRFToken reads the current anti-forgery token from the cookie jar.
// The jar is the source of truth, so the token is read fresh on every call.
func (c *Client) CSRFToken() string {
	jar := c.httpClient.Jar()
	if jar == nil {
		return ""
	}

	for _, cookie := range jar.Cookies(c.base) {
		if cookie.Name != CSRFCookieName {
			continue
		}
		if value, err := url.PathUnescape(cookie.Value); err == nil {
			return value
		}
		return cookie.Value
	}
	return ""
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodGet})
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, data any) (*Response, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPost, Body: data})
}

// Request performs one backend call. Every failure is returned as *Error.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	operation := method + " " + path
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "apiclient "+operation,
		attribute.String("http.request.method", method),
		attribute.String("url.path", path))
	defer span.End()

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, c.fail(span, operation, method, start, requestError(err))
	}

	resp, err := retry.Do(ctx, c.retryPolicy(method), operation, func() (*http.Response, error) {
		req, err := c.newRequest(ctx, method, path, body, contentType, opts.Headers)
		if err != nil {
			return nil, err
		}
		return circuitbreaker.Run(c.breaker, func() (*http.Response, error) {
			return c.httpClient.Do(req)
		})
	})
	if err != nil {
		return nil, c.fail(span, operation, method, start, networkError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(span, operation, method, start, networkError(err))
	}

	result := parseBody(resp, raw)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(span, operation, method, start, httpError(resp.StatusCode, result.Data))
	}

	duration := metrics.MeasureDuration(start)
	metrics.APIClientRequestDuration.WithLabelValues(method, "success").Observe(duration)
	metrics.APIClientRequestTotal.WithLabelValues(method, "success").Inc()
	logger.LogAPICall(serviceName, operation, "success", duration, zap.Int("status_code", resp.StatusCode))

	return result, nil
}

// retryPolicy repeats only GETs; other methods are not safe to send twice
func (c *Client) retryPolicy(method string) retry.Policy {
	if method != http.MethodGet || c.retries <= 0 {
		return retry.None()
	}
	p := retry.Backoff(c.retries)
	p.Retryable = func(err error) bool {
		return !errors.Is(err, circuitbreaker.ErrOpen)
	}
	return p
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, contentType string, headers map[string]string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if method != http.MethodGet {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(CSRFHeader, token)
		}
	}

	tracing.Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

// fail records a normalized error and hands it back
func (c *Client) fail(span trace.Span, operation, method string, start time.Time, apiErr *Error) *Error {
	duration := metrics.MeasureDuration(start)

	status := "rejected"
	if apiErr.Kind == KindNetwork || apiErr.Kind == KindRequest || apiErr.Status >= http.StatusInternalServerError {
		status = "error"
	}

	span.RecordError(apiErr)
	span.SetStatus(codes.Error, apiErr.Message)

	metrics.APIClientRequestDuration.WithLabelValues(method, status).Observe(duration)
	metrics.APIClientRequestTotal.WithLabelValues(method, status).Inc()
	metrics.APIClientErrors.WithLabelValues(string(apiErr.Kind)).Inc()

	logger.LogAPICall(serviceName, operation, status, duration,
		zap.String("kind", string(apiErr.Kind)),
		zap.Int("status_code", apiErr.Status),
		zap.String("message", apiErr.Message))

	return apiErr
}

// encodeBody serializes the request body and picks its content type
func encodeBody(opts RequestOptions) ([]byte, string, error) {
	if opts.IsFormData {
		return encodeFormData(opts.Body)
	}

	contentType := "application/json"
	switch body := opts.Body.(type) {
	case nil:
		return nil, contentType, nil
	case []byte:
		return body, contentType, nil
	case string:
		return []byte(body), contentType, nil
	case io.Reader:
		data, err := io.ReadAll(body)
		return data, contentType, err
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode JSON body: %w", err)
		}
		return data, contentType, nil
	}
}

func encodeFormData(body any) ([]byte, string, error) {
	var form *FormData
	switch b := body.(type) {
	case *FormData:
		form = b
	case FormData:
		form = &b
	case nil:
		form = &FormData{}
	default:
		return nil, "", fmt.Errorf("form data body must be a FormData, got %T", body)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range form.Fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	for _, file := range form.Files {
		part, err := writer.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", file.Field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// parseBody decodes JSON bodies and keeps everything else, including malformed
// JSON, as raw text.
func parseBody(resp *http.Response, raw []byte) *Response {
	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return result
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		var data any
		if err := json.Unmarshal(raw, &data); err == nil {
			result.JSON = true
			result.Data = data
			return result
		}
	}

	result.Data = string(raw)
	return result
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
