package tcapi

import (
	"context"
	"time"
)

// BuildsClient provides access to builds.
type BuildsClient interface {
	// List returns the builds matching locator, following nextHref links
	// unless opts disables pagination.
	List(ctx context.Context, locator Locator, opts *ListOptions) ([]Build, error)
	// ListSnapshotDependencies returns the snapshot dependency builds of buildID.
	ListSnapshotDependencies(ctx context.Context, buildID int64) ([]Build, error)
	GetMetadata(ctx context.Context, locator Locator) (*BuildMetadata, error)
	// HydrateWithChanges fetches the full metadata and changes of each build.
	// Results correspond positionally to builds.
	HydrateWithChanges(ctx context.Context, builds []Build, opts *HydrationOptions) ([]BuildMetadataWithChangeMetadata, error)
}

// ChangesClient provides access to VCS changes.
type ChangesClient interface {
	List(ctx context.Context, locator Locator) ([]Change, error)
	GetMetadata(ctx context.Context, locator Locator) (*ChangeMetadata, error)
}

// BuildTypesClient provides access to build configurations.
type BuildTypesClient interface {
	Get(ctx context.Context, locator Locator) (*BuildType, error)
}

// Client is the TeamCity REST API client.
type Client interface {
	Builds() BuildsClient
	Changes() ChangesClient
	BuildTypes() BuildTypesClient

	GetServerInfo(ctx context.Context) (*ServerInfo, error)
	// Post sends body to a REST path with a fresh CSRF token and decodes the
	// response into out when out is non-nil.
	Post(ctx context.Context, path string, body interface{}, out interface{}) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ListOptions controls list pagination.
type ListOptions struct {
	// Paginate follows nextHref links until the last page.
	Paginate bool
	// MaxPages stops after this many pages when positive.
	MaxPages int
}

// DefaultListOptions follows every page.
func DefaultListOptions() *ListOptions {
	return &ListOptions{Paginate: true}
}

// JoinPolicy decides what happens when part of a hydration fails.
type JoinPolicy string

const (
	// JoinFailFast fails the whole hydration on the first error and cancels
	// the remaining requests. No partial result is returned.
	JoinFailFast JoinPolicy = "fail-fast"
	// JoinBestEffort lets every request settle and returns the builds that
	// hydrated successfully together with a *JoinError describing the rest.
	JoinBestEffort JoinPolicy = "best-effort"
)

// HydrationOptions tunes HydrateWithChanges.
type HydrationOptions struct {
	// Policy defaults to JoinFailFast.
	Policy JoinPolicy
	// Concurrency caps in-flight requests; zero uses the client default.
	Concurrency int
}

// Config represents client configuration for building a Client.
//
// Per-request timeouts should generally be controlled via the context passed
// to client methods. Retries are off unless RetryMax is positive.
type Config struct {
	// Host is the TeamCity server, with or without scheme
	// (e.g. "teamcity.example.com" or "https://teamcity.example.com").
	// tcclient.New adds "https://" when no scheme is given.
	Host string
	// Token is the access token sent as a Bearer token.
	Token string
	// APIVersion selects /app/rest/<version>; defaults to "latest".
	APIVersion string

	HTTPTimeout  time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// HydrationConcurrency caps concurrent requests issued by
	// HydrateWithChanges. Zero uses constants.DefaultHydrationConcurrency.
	HydrationConcurrency int

	// Debug enables request/response logging when a Logger is provided.
	Debug     bool
	Logger    Logger
	UserAgent string
}
