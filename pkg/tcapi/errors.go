package tcapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired          = errors.New("config is required")
	ErrHostRequired            = errors.New("TeamCity host is required")
	ErrUnsupportedLocatorValue = errors.New("unsupported locator value type")
	ErrInvalidJoinPolicy       = errors.New("invalid join policy")
)

// LocatorFieldUndefinedError reports a locator field without a value. Nested
// fields are named by their dotted path.
type LocatorFieldUndefinedError struct {
	Field string
}

func (e *LocatorFieldUndefinedError) Error() string {
	return fmt.Sprintf("locator %s is not defined", e.Field)
}

// DateParseError reports a string that does not match DateLayout.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid TeamCity date %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// ResponseError is returned for any non-2xx response from the server.
// TeamCity error bodies are plain text, so the body is kept verbatim.
type ResponseError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Status     string `json:"status"      yaml:"status"`
	Method     string `json:"method"      yaml:"method"`
	URL        string `json:"url"         yaml:"url"`
	Body       string `json:"body"        yaml:"body"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, status)
	}

	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, status, body)
}

// JoinFailure describes one build that could not be hydrated.
type JoinFailure struct {
	Index   int
	BuildID int64
	Err     error
}

// JoinError is returned when hydrating builds fails. With JoinFailFast it
// holds the first failure; with JoinBestEffort it holds every failure in
// input order.
type JoinError struct {
	Policy   JoinPolicy
	Total    int
	Failures []JoinFailure
}

func (e *JoinError) Error() string {
	if len(e.Failures) == 1 {
		failure := e.Failures[0]

		return fmt.Sprintf("hydrating build %d: %v", failure.BuildID, failure.Err)
	}

	ids := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		ids = append(ids, fmt.Sprintf("%d", failure.BuildID))
	}

	return fmt.Sprintf("hydrating builds: %d of %d failed (%s): %v",
		len(e.Failures), e.Total, strings.Join(ids, ", "), e.Failures[0].Err)
}

// Unwrap exposes the underlying failures to errors.Is and errors.As.
func (e *JoinError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		errs = append(errs, failure.Err)
	}

	return errs
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == status
	}

	return false
}
