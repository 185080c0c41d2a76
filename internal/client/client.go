package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/tcapi/internal/auth"
	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/internal/http"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// Static errors for err113 compliance.
var (
	ErrHostRequired             = errors.New("TeamCity host is required")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the tcapi.Client interface.
type Client struct {
	httpClient           *http.Client
	tokenManager         auth.TokenManager
	baseURL              string
	logger               tcapi.Logger
	hydrationConcurrency int

	// Resource clients
	builds     *BuildsClient
	changes    *ChangesClient
	buildTypes *BuildTypesClient
}

// createTokenManager returns a static token manager, or nil for guest access.
func createTokenManager(config *tcapi.Config) auth.TokenManager {
	if config.Token == "" {
		return nil
	}

	return auth.NewStaticTokenManager(config.Token, time.Time{})
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *tcapi.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.APIVersion != "" {
		httpOpts = append(httpOpts, http.WithAPIVersion(config.APIVersion))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new TeamCity API client. config.Host must already carry a
// scheme; pkg/tcclient normalizes user input before calling New.
func New(config *tcapi.Config) (*Client, error) {
	if config == nil {
		return nil, tcapi.ErrConfigRequired
	}

	if config.Host == "" {
		return nil, ErrHostRequired
	}

	return NewWithTokenManager(config, createTokenManager(config))
}

// NewWithTokenManager creates a new TeamCity API client with a custom token manager.
func NewWithTokenManager(config *tcapi.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, tcapi.ErrConfigRequired
	}

	if config.Host == "" {
		return nil, ErrHostRequired
	}

	httpClient := http.NewClient(config.Host, tokenManager, createHTTPClientOptions(config)...)

	var logger tcapi.Logger = nopLogger{}
	if config.Logger != nil {
		logger = config.Logger
	}

	client := &Client{
		httpClient:           httpClient,
		tokenManager:         tokenManager,
		baseURL:              httpClient.BaseURL(),
		logger:               logger,
		hydrationConcurrency: config.HydrationConcurrency,
	}

	client.initializeResourceClients()

	return client, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetServerInfo implements tcapi.Client.GetServerInfo.
func (c *Client) GetServerInfo(ctx context.Context) (*tcapi.ServerInfo, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathServer, nil)
	if err != nil {
		return nil, fmt.Errorf("getting server info: %w", err)
	}

	var info tcapi.ServerInfo

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing server info response: %w", err)
	}

	return &info, nil
}

// Post implements tcapi.Client.Post.
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("posting to %s: %w", path, err)
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("parsing response from %s: %w", path, err)
	}

	return nil
}

// Resource client accessors

// Builds implements tcapi.Client.Builds.
func (c *Client) Builds() tcapi.BuildsClient {
	return c.builds
}

// Changes implements tcapi.Client.Changes.
func (c *Client) Changes() tcapi.ChangesClient {
	return c.changes
}

// BuildTypes implements tcapi.Client.BuildTypes.
func (c *Client) BuildTypes() tcapi.BuildTypesClient {
	return c.buildTypes
}

// GetToken returns the current access token.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	if c.logger == nil {
		c.logger = nopLogger{}
	}

	concurrency := c.hydrationConcurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultHydrationConcurrency
	}

	c.changes = NewChangesClient(c.httpClient)
	c.builds = NewBuildsClient(c.httpClient, c.changes, c.logger, concurrency)
	c.buildTypes = NewBuildTypesClient(c.httpClient)
}

// loggerAdapter adapts tcapi.Logger to http.Logger.
type loggerAdapter struct {
	logger tcapi.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
