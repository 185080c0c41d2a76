package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/tcapi/internal/client"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

const buildListPath = TestRESTRoot + "/builds/multiple/buildType:(id:Proj_Build)"

// newPagedBuildServer serves pages of two builds each, linking every page
// but the last to the next one through nextHref.
func newPagedBuildServer(t *testing.T, pages int, requests *atomic.Int32) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)

		page := 1
		if start := request.URL.Query().Get("start"); start != "" {
			_, err := fmt.Sscanf(start, "%d", &page)
			assert.NoError(t, err)
		}

		assert.Equal(t, buildListPath, request.URL.Path)

		response := tcapi.Builds{
			Count: 2,
			Build: []tcapi.Build{
				{ID: int64(page*10 + 1), BuildTypeID: "Proj_Build"},
				{ID: int64(page*10 + 2), BuildTypeID: "Proj_Build"},
			},
		}

		if page < pages {
			response.NextHref = fmt.Sprintf("%s?start=%d", buildListPath, page+1)
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
}

func buildIDs(builds []tcapi.Build) []int64 {
	ids := make([]int64, 0, len(builds))
	for _, build := range builds {
		ids = append(ids, build.ID)
	}

	return ids
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestBuildsClient_List(t *testing.T) {
	t.Parallel()

	locator := tcapi.NewLocator(tcapi.Field{Key: "buildType", Value: tcapi.IDLocator("Proj_Build")})

	t.Run("follows every page by default", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		server := newPagedBuildServer(t, 3, &requests)
		defer server.Close()

		client := NewTestClient(server.URL)

		builds, err := client.Builds().List(context.Background(), locator, nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{11, 12, 21, 22, 31, 32}, buildIDs(builds))
		assert.Equal(t, int32(3), requests.Load())
	})

	t.Run("first page only when pagination is off", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		server := newPagedBuildServer(t, 3, &requests)
		defer server.Close()

		client := NewTestClient(server.URL)

		builds, err := client.Builds().List(context.Background(), locator, &tcapi.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []int64{11, 12}, buildIDs(builds))
		assert.Equal(t, int32(1), requests.Load())
	})

	t.Run("stops at max pages", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		server := newPagedBuildServer(t, 3, &requests)
		defer server.Close()

		client := NewTestClient(server.URL)

		builds, err := client.Builds().List(context.Background(), locator, &tcapi.ListOptions{Paginate: true, MaxPages: 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{11, 12, 21, 22}, buildIDs(builds))
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{"count":0,"href":"/app/rest/builds","build":[]}`))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		builds, err := client.Builds().List(context.Background(), locator, nil)
		require.NoError(t, err)
		assert.NotNil(t, builds)
		assert.Empty(t, builds)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte("No build type found by locator 'Proj_Build'."))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		builds, err := client.Builds().List(context.Background(), locator, nil)
		require.Error(t, err)
		assert.Nil(t, builds)
		assert.True(t, tcapi.IsNotFound(err))
		assert.Contains(t, err.Error(), "listing builds")
	})

	t.Run("reserved URL characters stay in the path", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, TestRESTRoot+"/builds/multiple/branch:release?1#2", request.URL.Path)
			assert.Empty(t, request.URL.RawQuery)

			_, _ = writer.Write([]byte(`{"count":1,"build":[{"id":5}]}`))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		builds, err := client.Builds().List(context.Background(), tcapi.Locator{}.With("branch", "release?1#2"), nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{5}, buildIDs(builds))
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte("<html>"))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		_, err := client.Builds().List(context.Background(), locator, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing builds list response")
	})

	RunLocatorErrorTests(t, func(c *Client) func(context.Context, tcapi.Locator) ([]tcapi.Build, error) {
		return func(ctx context.Context, locator tcapi.Locator) ([]tcapi.Build, error) {
			return c.Builds().List(ctx, locator, nil)
		}
	})
}

func TestBuildsClient_ListSnapshotDependencies(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t,
			TestRESTRoot+"/builds/multiple/snapshotDependency:(to:(id:42),includeInitial:false),defaultFilter:false",
			request.URL.Path)

		_, _ = writer.Write([]byte(`{"count":2,"build":[{"id":40,"status":"FAILURE"},{"id":41,"status":"SUCCESS"}]}`))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	builds, err := client.Builds().ListSnapshotDependencies(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, "FAILURE", builds[0].Status)
	assert.Equal(t, int64(41), builds[1].ID)
}

func TestBuildsClient_GetMetadata(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[tcapi.BuildMetadata]{
		{
			Name:         "get build by id",
			Locator:      tcapi.IDLocator(int64(7)),
			ExpectedPath: TestRESTRoot + "/builds/id:7",
			StatusCode:   http.StatusOK,
			Response: &tcapi.BuildMetadata{
				Build:   tcapi.Build{ID: 7, Number: "101", Status: "SUCCESS", State: "finished"},
				Changes: &tcapi.CountedRef{Count: 2, Href: "/app/rest/changes?locator=build:(id:7)"},
			},
		},
		{
			Name:         "get build by number and build type",
			Locator:      tcapi.Locator{}.With("buildType", tcapi.IDLocator("Proj_Build")).With("number", "101"),
			ExpectedPath: TestRESTRoot + "/builds/buildType:(id:Proj_Build),number:101",
			StatusCode:   http.StatusOK,
			Response:     &tcapi.BuildMetadata{Build: tcapi.Build{ID: 7}},
		},
		{
			Name:         "branch name with reserved URL characters",
			Locator:      tcapi.Locator{}.With("buildType", tcapi.IDLocator("Proj_Build")).With("branch", "fix?#100%"),
			ExpectedPath: TestRESTRoot + "/builds/buildType:(id:Proj_Build),branch:fix?#100%",
			StatusCode:   http.StatusOK,
			Response:     &tcapi.BuildMetadata{Build: tcapi.Build{ID: 8}},
		},
		{
			Name:         "build not found",
			Locator:      tcapi.IDLocator(int64(999)),
			ExpectedPath: TestRESTRoot + "/builds/id:999",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "getting build",
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, tcapi.Locator) (*tcapi.BuildMetadata, error) {
		return c.Builds().GetMetadata
	})

	RunLocatorErrorTests(t, func(c *Client) func(context.Context, tcapi.Locator) (*tcapi.BuildMetadata, error) {
		return c.Builds().GetMetadata
	})
}
