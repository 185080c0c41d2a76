package constants

import "errors"

// Configuration errors.
var (
	ErrNoHostConfigured = errors.New("no TeamCity host configured, use 'tc login' or --host")
	ErrInvalidOutput    = errors.New("invalid output format, expected table, json or yaml")
)

// Validation errors.
var (
	ErrInvalidBuildID       = errors.New("invalid build id")
	ErrInvalidChangeID      = errors.New("invalid change id")
	ErrInvalidLocatorPair   = errors.New("invalid locator pair, expected key=value")
	ErrLocatorKeyNested     = errors.New("key already holds a nested locator")
	ErrLocatorKeyScalar     = errors.New("key already holds a value")
	ErrNATSSubjectRequired  = errors.New("--nats-subject is required with --nats-url")
	ErrInvalidConcurrency   = errors.New("concurrency must be positive")
	ErrEmptyCSRFToken       = errors.New("server returned an empty CSRF token")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrTokenPromptCancelled = errors.New("no token entered")
)
