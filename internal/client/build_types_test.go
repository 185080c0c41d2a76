package client_test

import (
	"context"
	"net/http"
	"testing"

	. "github.com/fivetwenty-io/tcapi/internal/client"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

func TestBuildTypesClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[tcapi.BuildType]{
		{
			Name:         "get build type by id",
			Locator:      tcapi.IDLocator("Proj_Build"),
			ExpectedPath: TestRESTRoot + "/buildTypes/id:Proj_Build",
			StatusCode:   http.StatusOK,
			Response: &tcapi.BuildType{
				ID:        "Proj_Build",
				Name:      "Build",
				ProjectID: "Proj",
			},
		},
		{
			Name:         "build type not found",
			Locator:      tcapi.IDLocator("Missing"),
			ExpectedPath: TestRESTRoot + "/buildTypes/id:Missing",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "getting build type",
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, tcapi.Locator) (*tcapi.BuildType, error) {
		return c.BuildTypes().Get
	})

	RunLocatorErrorTests(t, func(c *Client) func(context.Context, tcapi.Locator) (*tcapi.BuildType, error) {
		return c.BuildTypes().Get
	})
}
