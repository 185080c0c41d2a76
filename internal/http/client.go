// Package http is the TeamCity transport: URL resolution, bearer
// authentication, CSRF tokens for mutating calls, and error mapping.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/tcapi/internal/auth"
	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// Logger interface for transport logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes a single API call.
type Request struct {
	Method string
	// Path is resolved against the REST root unless it already contains
	// /app/rest/ (as nextHref links do) or ServerRoot is set.
	Path       string
	Query      url.Values
	Body       interface{}
	Headers    map[string]string
	ServerRoot bool
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client performs authenticated requests against one TeamCity server.
type Client struct {
	baseURL      string
	restURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       Logger
	debug        bool
	baseHeaders  http.Header
}

type options struct {
	apiVersion   string
	logger       Logger
	debug        bool
	userAgent    string
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
	httpClient   *http.Client
}

// Option configures a Client.
type Option func(*options)

// WithAPIVersion selects /app/rest/<version>.
func WithAPIVersion(version string) Option {
	return func(o *options) {
		if version != "" {
			o.apiVersion = version
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithRetryConfig retries connection errors, 429 and 5xx responses up to
// retryMax times.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(o *options) {
		o.retryMax = retryMax
		o.retryWaitMin = waitMin
		o.retryWaitMax = waitMax
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// NewClient creates a client for the server at baseURL (scheme and host,
// optionally with a context path). tokenManager may be nil for guest access.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	cfg := &options{
		apiVersion:   constants.DefaultAPIVersion,
		userAgent:    constants.DefaultUserAgent,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
		timeout:      constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	baseURL = strings.TrimSuffix(baseURL, "/")

	retryClient := retryablehttp.NewClient()
	if cfg.httpClient != nil {
		retryClient.HTTPClient = cfg.httpClient
	} else {
		retryClient.HTTPClient.Timeout = cfg.timeout
	}

	retryClient.RetryMax = cfg.retryMax
	retryClient.RetryWaitMin = cfg.retryWaitMin
	retryClient.RetryWaitMax = cfg.retryWaitMax
	retryClient.CheckRetry = retryablehttp.DefaultRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	if cfg.logger != nil {
		retryClient.Logger = &leveledLogger{logger: cfg.logger}
	}

	baseHeaders := http.Header{}
	baseHeaders.Set("Accept", "application/json")
	baseHeaders.Set("Origin", baseURL)
	baseHeaders.Set("User-Agent", cfg.userAgent)

	return &Client{
		baseURL:      baseURL,
		restURL:      baseURL + strings.TrimSuffix(constants.RESTPathSegment, "/") + "/" + cfg.apiVersion,
		httpClient:   retryClient,
		tokenManager: tokenManager,
		logger:       cfg.logger,
		debug:        cfg.debug,
		baseHeaders:  baseHeaders,
	}
}

// BaseURL returns the server root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RESTURL returns the REST API root, e.g. https://host/app/rest/latest.
func (c *Client) RESTURL() string {
	return c.restURL
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post fetches a CSRF token and sends body as JSON with it.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	token, err := c.GetCSRFToken(ctx)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, &Request{
		Method:  http.MethodPost,
		Path:    path,
		Body:    body,
		Headers: map[string]string{constants.HeaderCSRFToken: token},
	})
}

// GetCSRFToken retrieves a token for the next mutating request. Required
// since TeamCity 2020.1.
func (c *Client) GetCSRFToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ShortHTTPTimeout)
	defer cancel()

	resp, err := c.Do(ctx, &Request{
		Method:     http.MethodGet,
		Path:       constants.CSRFPath + "?" + constants.CSRFQuery,
		ServerRoot: true,
	})
	if err != nil {
		return "", fmt.Errorf("getting CSRF token: %w", err)
	}

	token := strings.TrimSpace(string(resp.Body))
	if token == "" {
		return "", constants.ErrEmptyCSRFToken
	}

	return token, nil
}

// Do sends req and reads the full response. Non-2xx responses return both
// the response and a *tcapi.ResponseError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.resolveURL(req)

	var body interface{}

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = c.baseHeaders.Clone()

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting access token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, fullURL, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":   req.Method,
			"url":      fullURL,
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
		})
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, &tcapi.ResponseError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Method:     req.Method,
			URL:        fullURL,
			Body:       string(respBody),
		}
	}

	return resp, nil
}

// resolveURL roots paths that already carry the REST segment (pagination
// links) at the server host and everything else at the REST root.
func (c *Client) resolveURL(req *Request) string {
	var fullURL string

	switch {
	case strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://"):
		fullURL = req.Path
	case req.ServerRoot:
		fullURL = c.baseURL + req.Path
	case strings.Contains(req.Path, constants.RESTPathSegment):
		fullURL = c.hostURL() + req.Path
	default:
		fullURL = c.restURL + req.Path
	}

	if len(req.Query) == 0 {
		return fullURL
	}

	separator := "?"
	if strings.Contains(fullURL, "?") {
		separator = "&"
	}

	return fullURL + separator + req.Query.Encode()
}

// hostURL is the scheme and host of baseURL. Server-issued links include any
// context path, so they must not be prefixed with it a second time.
func (c *Client) hostURL() string {
	parsed, err := url.Parse(c.baseURL)
	if err != nil || parsed.Host == "" {
		return c.baseURL
	}

	return parsed.Scheme + "://" + parsed.Host
}
