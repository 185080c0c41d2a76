package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/internal/http"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// ChangesClient implements the tcapi.ChangesClient interface.
type ChangesClient struct {
	httpClient *http.Client
	pages      pageWalker[tcapi.Change, changesPage, *changesPage]
}

// NewChangesClient creates a new ChangesClient.
func NewChangesClient(httpClient *http.Client) *ChangesClient {
	return &ChangesClient{
		httpClient: httpClient,
		pages: pageWalker[tcapi.Change, changesPage, *changesPage]{
			httpClient: httpClient,
			noun:       "changes",
		},
	}
}

// List lists the changes matching locator, typically those of one build.
// The server omits the change field when there are none; List then returns
// an empty slice.
func (c *ChangesClient) List(ctx context.Context, locator tcapi.Locator) ([]tcapi.Change, error) {
	locatorString, err := locator.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling change locator: %w", err)
	}

	query := url.Values{constants.LocatorQueryParam: []string{locatorString}}

	return c.pages.collect(ctx, constants.APIPathChanges, query, nil)
}

// GetMetadata retrieves the full record of the change matching locator.
func (c *ChangesClient) GetMetadata(ctx context.Context, locator tcapi.Locator) (*tcapi.ChangeMetadata, error) {
	locatorString, err := locatorPath(locator)
	if err != nil {
		return nil, fmt.Errorf("compiling change locator: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathChanges+"/"+locatorString, nil)
	if err != nil {
		return nil, fmt.Errorf("getting change: %w", err)
	}

	var change tcapi.ChangeMetadata

	err = json.Unmarshal(resp.Body, &change)
	if err != nil {
		return nil, fmt.Errorf("parsing change response: %w", err)
	}

	return &change, nil
}
