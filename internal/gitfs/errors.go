package gitfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lookup taxonomy. They are wrapped in a
// *PathError by the public operations; match with errors.Is.
var (
	// ErrNotFound: a path segment is absent, or the remote reports
	// the target does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNotDir: a path segment resolves to a file but further descent
	// (or a directory listing) was requested.
	ErrNotDir = errors.New("not a directory")
	// ErrIsDir: a file read was requested on a directory.
	ErrIsDir = errors.New("is a directory")
)

// PathError records an operation, the path it was applied to, and the
// underlying cause.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

func pathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// RemoteError wraps a transport or query failure from the remote
// collaborator. The affected node is left untouched, so a later call
// retries the fetch instead of observing a cached failure.
type RemoteError struct {
	Op     string // "populate" or "fetch"
	Target string // canonical target identifier
	Err    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
