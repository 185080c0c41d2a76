package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/internal/http"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// BuildsClient implements the tcapi.BuildsClient interface.
type BuildsClient struct {
	httpClient  *http.Client
	changes     *ChangesClient
	logger      tcapi.Logger
	concurrency int
	pages       pageWalker[tcapi.Build, buildsPage, *buildsPage]
}

// NewBuildsClient creates a new BuildsClient. changes is used to resolve
// build changes during hydration.
func NewBuildsClient(httpClient *http.Client, changes *ChangesClient, logger tcapi.Logger, concurrency int) *BuildsClient {
	if logger == nil {
		logger = nopLogger{}
	}

	return &BuildsClient{
		httpClient:  httpClient,
		changes:     changes,
		logger:      logger,
		concurrency: concurrency,
		pages: pageWalker[tcapi.Build, buildsPage, *buildsPage]{
			httpClient: httpClient,
			noun:       "builds",
		},
	}
}

// List lists builds matching locator. A nil opts follows every page.
// List results do not carry every build field; use GetMetadata for that.
func (c *BuildsClient) List(ctx context.Context, locator tcapi.Locator, opts *tcapi.ListOptions) ([]tcapi.Build, error) {
	locatorString, err := locatorPath(locator)
	if err != nil {
		return nil, fmt.Errorf("compiling build locator: %w", err)
	}

	return c.pages.collect(ctx, constants.APIPathBuildsMultiple+locatorString, nil, opts)
}

// ListSnapshotDependencies lists every build that buildID depends on through
// snapshot dependencies, regardless of status.
func (c *BuildsClient) ListSnapshotDependencies(ctx context.Context, buildID int64) ([]tcapi.Build, error) {
	return c.List(ctx, tcapi.SnapshotDependencyLocator(buildID), nil)
}

// GetMetadata retrieves the full record of the build matching locator.
func (c *BuildsClient) GetMetadata(ctx context.Context, locator tcapi.Locator) (*tcapi.BuildMetadata, error) {
	locatorString, err := locatorPath(locator)
	if err != nil {
		return nil, fmt.Errorf("compiling build locator: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathBuilds+locatorString, nil)
	if err != nil {
		return nil, fmt.Errorf("getting build: %w", err)
	}

	var build tcapi.BuildMetadata

	err = json.Unmarshal(resp.Body, &build)
	if err != nil {
		return nil, fmt.Errorf("parsing build response: %w", err)
	}

	return &build, nil
}
