package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no board name or thread URL is given.
	ErrNoTarget = errors.New("no target specified: provide a board name or a thread URL")

	// ErrInvalidBoard is returned when a board name contains characters
	// that cannot appear in a board path.
	ErrInvalidBoard = errors.New("invalid board name: must be a single path segment such as \"g\"")

	// ErrInvalidThreadURL is returned in thread mode when the target is
	// not an absolute http or https URL.
	ErrInvalidThreadURL = errors.New("invalid thread URL: must be an absolute http or https URL")

	// ErrInvalidMode is returned when the mode is not board, archive or thread.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --yaml and --markdown is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json, --yaml and --markdown cannot be combined")
)
