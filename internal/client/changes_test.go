package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/tcapi/internal/client"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestChangesClient_List(t *testing.T) {
	t.Parallel()

	t.Run("changes of a build", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, TestRESTRoot+"/changes", request.URL.Path)
			assert.Equal(t, "build:(id:7)", request.URL.Query().Get("locator"))

			_, _ = writer.Write([]byte(`{
				"count": 2,
				"href": "/app/rest/changes?locator=build:(id:7)",
				"change": [
					{"id": 71, "version": "a1b2c3", "username": "dev"},
					{"id": 72, "version": "d4e5f6", "username": "dev"}
				]
			}`))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		changes, err := client.Changes().List(context.Background(), tcapi.BuildChangesLocator(7))
		require.NoError(t, err)
		require.Len(t, changes, 2)
		assert.Equal(t, int64(71), changes[0].ID)
		assert.Equal(t, "d4e5f6", changes[1].Version)
	})

	t.Run("missing change field yields empty list", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{"count":0,"href":"/app/rest/changes?locator=build:(id:8)"}`))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		changes, err := client.Changes().List(context.Background(), tcapi.BuildChangesLocator(8))
		require.NoError(t, err)
		assert.NotNil(t, changes)
		assert.Empty(t, changes)
	})

	t.Run("follows next page", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !strings.HasSuffix(request.URL.Query().Get("locator"), ",start:1") {
				_, _ = writer.Write([]byte(`{
					"count": 1,
					"change": [{"id": 1}],
					"nextHref": "/app/rest/changes?locator=build:(id:9),start:1"
				}`))

				return
			}

			_, _ = writer.Write([]byte(`{"count":1,"change":[{"id":2}]}`))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		changes, err := client.Changes().List(context.Background(), tcapi.BuildChangesLocator(9))
		require.NoError(t, err)
		require.Len(t, changes, 2)
		assert.Equal(t, int64(2), changes[1].ID)
	})

	RunLocatorErrorTests(t, func(c *Client) func(context.Context, tcapi.Locator) ([]tcapi.Change, error) {
		return c.Changes().List
	})
}

func TestChangesClient_GetMetadata(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[tcapi.ChangeMetadata]{
		{
			Name:         "get change by id",
			Locator:      tcapi.IDLocator(int64(71)),
			ExpectedPath: TestRESTRoot + "/changes/id:71",
			StatusCode:   http.StatusOK,
			Response: &tcapi.ChangeMetadata{
				Change:  tcapi.Change{ID: 71, Version: "a1b2c3"},
				Comment: "Fix flaky test",
			},
		},
		{
			Name:         "change not found",
			Locator:      tcapi.IDLocator(int64(1)),
			ExpectedPath: TestRESTRoot + "/changes/id:1",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "getting change",
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, tcapi.Locator) (*tcapi.ChangeMetadata, error) {
		return c.Changes().GetMetadata
	})
}
