// Package errors defines the sentinel errors used to categorize failures of the
// reactor state cache. All of them can be checked with errors.Is.
//
// This package MUST NOT import any other internal packages.
package errors

import "errors"

var (
	// ErrCorruptState indicates that a persisted state file exists but cannot be decoded
	// (malformed syntax, missing main-artifact reference).
	ErrCorruptState = errors.New("corrupt reactor state")

	// ErrWorkspaceLoad indicates that a module descriptor could not be loaded while
	// discovering the workspace graph.
	ErrWorkspaceLoad = errors.New("workspace load failure")

	// ErrMissingState indicates that a module taking part in the build has no saved state
	// to restore.
	ErrMissingState = errors.New("missing reactor state")

	// ErrDescriptor indicates that a module descriptor is unreadable or invalid.
	ErrDescriptor = errors.New("invalid module descriptor")

	// ErrUnknownCodec indicates that an unsupported state codec was configured.
	ErrUnknownCodec = errors.New("unknown state codec")

	// ErrInvalidConfig indicates an invalid configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates that a queried artifact is unknown to the workspace.
	ErrNotFound = errors.New("not found")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
