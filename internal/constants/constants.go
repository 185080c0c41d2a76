package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as CSRF token retrieval.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are disabled unless a positive RetryMax is configured.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Concurrency limits.
const (
	// DefaultHydrationConcurrency caps in-flight requests while hydrating builds.
	DefaultHydrationConcurrency = 8

	// MaxHydrationConcurrency is the upper bound accepted from configuration.
	MaxHydrationConcurrency = 64
)

// TeamCity REST paths, relative to the REST root.
const (
	// DefaultAPIVersion selects the newest REST API the server offers.
	DefaultAPIVersion = "latest"

	// RESTPathSegment marks a path that is already rooted at the REST API.
	// nextHref links returned by the server contain it.
	RESTPathSegment = "/app/rest/"

	// APIPathBuilds for single build lookups.
	APIPathBuilds = "/builds/"

	// APIPathBuildsMultiple for build lists.
	APIPathBuildsMultiple = "/builds/multiple/"

	// APIPathChanges for change lists.
	APIPathChanges = "/changes"

	// APIPathBuildTypes for build configurations.
	APIPathBuildTypes = "/buildTypes/"

	// APIPathServer for server information.
	APIPathServer = "/server"

	// CSRFPath returns the CSRF token, relative to the server root.
	CSRFPath = "/authenticationTest.html"

	// CSRFQuery is the raw query requesting the CSRF token.
	CSRFQuery = "csrf"

	// LocatorQueryParam is the query parameter carrying a locator.
	LocatorQueryParam = "locator"
)

// Header names.
const (
	// HeaderCSRFToken carries the CSRF token on mutating requests.
	HeaderCSRFToken = "X-TC-CSRF-Token" // #nosec G101 -- header name, not a credential

	// DefaultUserAgent identifies the client.
	DefaultUserAgent = "tcapi-go"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// DisplayTimeFormat renders dates in table output.
	DisplayTimeFormat = "2006-01-02 15:04:05"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)
