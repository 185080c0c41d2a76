package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/tcapi/internal/client"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		client, err := New(nil)
		require.ErrorIs(t, err, tcapi.ErrConfigRequired)
		assert.Nil(t, client)
	})

	t.Run("missing host", func(t *testing.T) {
		t.Parallel()

		client, err := New(&tcapi.Config{Token: "token"})
		require.ErrorIs(t, err, ErrHostRequired)
		assert.Nil(t, client)
	})

	t.Run("token is sent as bearer", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer secret", request.Header.Get("Authorization"))
			assert.Equal(t, "tc-test", request.Header.Get("User-Agent"))
			assert.Equal(t, "/app/rest/2018.1/server", request.URL.Path)

			_, _ = writer.Write([]byte(`{"version":"2024.12 (build 174331)","versionMajor":2024}`))
		}))
		defer server.Close()

		client, err := New(&tcapi.Config{
			Host:       server.URL,
			Token:      "secret",
			APIVersion: "2018.1",
			UserAgent:  "tc-test",
		})
		require.NoError(t, err)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "secret", token)

		info, err := client.GetServerInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2024, info.VersionMajor)
	})

	t.Run("guest access has no token", func(t *testing.T) {
		t.Parallel()

		client, err := New(&tcapi.Config{Host: "https://teamcity.example.com"})
		require.NoError(t, err)
		assert.Nil(t, client.GetTokenManager())

		_, err = client.GetToken(context.Background())
		require.ErrorIs(t, err, ErrNoTokenManagerConfigured)
	})
}

func TestClient_GetServerInfo(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, TestRESTRoot+"/server", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(tcapi.ServerInfo{
			Version:     "2024.12",
			BuildNumber: "174331",
			WebURL:      "https://teamcity.example.com",
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	info, err := client.GetServerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "174331", info.BuildNumber)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Post(t *testing.T) {
	t.Parallel()

	t.Run("sends CSRF token and decodes response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/authenticationTest.html":
				_, _ = writer.Write([]byte("csrf-123"))
			case TestRESTRoot + "/buildQueue":
				assert.Equal(t, http.MethodPost, request.Method)
				assert.Equal(t, "csrf-123", request.Header.Get("X-TC-CSRF-Token"))

				var body map[string]interface{}
				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				assert.Equal(t, map[string]interface{}{"id": "Proj_Build"}, body["buildType"])

				_, _ = writer.Write([]byte(`{"id":100,"state":"queued"}`))
			default:
				t.Errorf("unexpected request to %s", request.URL.Path)
			}
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		var queued tcapi.Build

		err := client.Post(context.Background(), "/buildQueue", map[string]interface{}{
			"buildType": map[string]string{"id": "Proj_Build"},
		}, &queued)
		require.NoError(t, err)
		assert.Equal(t, int64(100), queued.ID)
		assert.Equal(t, "queued", queued.State)
	})

	t.Run("nil out ignores body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/authenticationTest.html" {
				_, _ = writer.Write([]byte("csrf"))

				return
			}

			_, _ = writer.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		require.NoError(t, client.Post(context.Background(), "/buildQueue", nil, nil))
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/authenticationTest.html" {
				_, _ = writer.Write([]byte("csrf"))

				return
			}

			writer.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		err := client.Post(context.Background(), "/buildQueue", nil, nil)
		require.Error(t, err)
		assert.True(t, tcapi.IsForbidden(err))
	})
}
