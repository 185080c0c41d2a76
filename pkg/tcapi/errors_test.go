package tcapi_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
	"github.com/stretchr/testify/assert"
)

func TestResponseError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *tcapi.ResponseError
		expected string
	}{
		{
			name: "with body",
			err: &tcapi.ResponseError{
				StatusCode: http.StatusNotFound,
				Status:     "404 Not Found",
				Method:     http.MethodGet,
				URL:        "https://tc.example.com/app/rest/latest/builds/id:1",
				Body:       "No build found by locator 'id:1'.\n",
			},
			expected: "GET https://tc.example.com/app/rest/latest/builds/id:1: 404 Not Found: No build found by locator 'id:1'.",
		},
		{
			name: "without status text or body",
			err: &tcapi.ResponseError{
				StatusCode: http.StatusUnauthorized,
				Method:     http.MethodPost,
				URL:        "https://tc.example.com/app/rest/latest/buildQueue",
			},
			expected: "POST https://tc.example.com/app/rest/latest/buildQueue: 401 Unauthorized",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, testCase.err.Error())
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("getting build: %w", &tcapi.ResponseError{StatusCode: http.StatusNotFound})

	assert.True(t, tcapi.IsNotFound(wrapped))
	assert.False(t, tcapi.IsUnauthorized(wrapped))
	assert.False(t, tcapi.IsForbidden(wrapped))
	assert.True(t, tcapi.IsForbidden(&tcapi.ResponseError{StatusCode: http.StatusForbidden}))
	assert.True(t, tcapi.IsUnauthorized(&tcapi.ResponseError{StatusCode: http.StatusUnauthorized}))
	assert.False(t, tcapi.IsNotFound(errors.New("plain")))
}

func TestJoinError(t *testing.T) {
	t.Parallel()

	notFound := &tcapi.ResponseError{StatusCode: http.StatusNotFound, Method: "GET", URL: "/changes/id:9"}
	timeout := errors.New("timeout")

	t.Run("single failure", func(t *testing.T) {
		t.Parallel()

		err := &tcapi.JoinError{
			Policy:   tcapi.JoinFailFast,
			Total:    2,
			Failures: []tcapi.JoinFailure{{Index: 1, BuildID: 42, Err: notFound}},
		}

		assert.Contains(t, err.Error(), "hydrating build 42")
		assert.True(t, tcapi.IsNotFound(err))
	})

	t.Run("multiple failures", func(t *testing.T) {
		t.Parallel()

		err := &tcapi.JoinError{
			Policy: tcapi.JoinBestEffort,
			Total:  5,
			Failures: []tcapi.JoinFailure{
				{Index: 0, BuildID: 1, Err: timeout},
				{Index: 3, BuildID: 4, Err: notFound},
			},
		}

		assert.Equal(t, "hydrating builds: 2 of 5 failed (1, 4): timeout", err.Error())
		assert.ErrorIs(t, err, timeout)
		assert.True(t, tcapi.IsNotFound(err))
	})
}
