package client

import (
	"strings"

	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// pathEscaper escapes the characters that would end or corrupt a URL path
// segment. The locator syntax characters stay readable.
var pathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// locatorPath compiles locator for use as a URL path segment.
func locatorPath(locator tcapi.Locator) (string, error) {
	compiled, err := locator.Compile()
	if err != nil {
		return "", err
	}

	return pathEscaper.Replace(compiled), nil
}
