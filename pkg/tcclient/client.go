// Package tcclient provides the main entry point for creating TeamCity API clients.
package tcclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/tcapi/internal/client"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// New creates a new TeamCity API client. A host without a scheme is
// assumed to be served over https. The caller's config is not modified.
func New(config *tcapi.Config) (tcapi.Client, error) {
	if config == nil {
		return nil, tcapi.ErrConfigRequired
	}

	host := NormalizeHost(config.Host)
	if host == "" {
		return nil, tcapi.ErrHostRequired
	}

	normalized := *config
	normalized.Host = host

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeHost trims surrounding whitespace and trailing slashes and adds
// "https://" when host has no scheme. An empty host stays empty.
func NormalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return ""
	}

	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	return host
}
