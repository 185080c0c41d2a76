package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/internal/http"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// BuildTypesClient implements the tcapi.BuildTypesClient interface.
type BuildTypesClient struct {
	httpClient *http.Client
}

// NewBuildTypesClient creates a new BuildTypesClient.
func NewBuildTypesClient(httpClient *http.Client) *BuildTypesClient {
	return &BuildTypesClient{
		httpClient: httpClient,
	}
}

// Get retrieves the build configuration matching locator.
func (c *BuildTypesClient) Get(ctx context.Context, locator tcapi.Locator) (*tcapi.BuildType, error) {
	locatorString, err := locatorPath(locator)
	if err != nil {
		return nil, fmt.Errorf("compiling build type locator: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathBuildTypes+locatorString, nil)
	if err != nil {
		return nil, fmt.Errorf("getting build type: %w", err)
	}

	var buildType tcapi.BuildType

	err = json.Unmarshal(resp.Body, &buildType)
	if err != nil {
		return nil, fmt.Errorf("parsing build type response: %w", err)
	}

	return &buildType, nil
}
