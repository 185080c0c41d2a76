package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/tcapi/internal/http"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// TestRESTRoot is the REST root a test client resolves paths against.
const TestRESTRoot = "/app/rest/latest"

// NewTestClient creates a new test client with the given base URL.
func NewTestClient(baseURL string) *Client {
	// Create HTTP client without token manager for testing
	httpClient := internalhttp.NewClient(baseURL, nil)

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

// TestGetOperation represents a generic get-by-locator test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	Locator      tcapi.Locator
	ExpectedPath string
	StatusCode   int
	Response     *TResponse
	WantErr      bool
	ErrMessage   string
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, tcapi.Locator) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			var requests atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				requests.Add(1)

				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "GET", request.Method)
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.WantErr {
					_, _ = writer.Write([]byte("Responding with error, status code: 404 (Not Found)."))
				} else if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			getFn := getFunc(client)
			result, err := getFn(context.Background(), testCase.Locator)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, int32(1), requests.Load())
			}
		})
	}
}

// RunLocatorErrorTests checks that an undefined locator field fails before
// any request reaches the server.
func RunLocatorErrorTests[TResponse any](
	t *testing.T,
	getFunc func(*Client) func(context.Context, tcapi.Locator) (TResponse, error),
) {
	t.Helper()

	t.Run("undefined locator field", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			t.Errorf("unexpected request to %s", request.URL.Path)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)
		locator := tcapi.Locator{}.With("id", nil)

		_, err := getFunc(client)(context.Background(), locator)
		require.Error(t, err)

		var fieldErr *tcapi.LocatorFieldUndefinedError

		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "id", fieldErr.Field)
	})
}
