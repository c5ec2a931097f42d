package searcher

import "errors"

// Request validation failures abort the whole call. Per-file I/O failures
// do not surface here: the file is skipped and the search proceeds, so a
// caller cannot distinguish zero matches from all candidates having failed
// to read. That is a documented property of the engine's error model.
var (
	// ErrInvalidPattern reports a regex or glob that does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrPathNotFound reports a root that is missing or not a directory.
	ErrPathNotFound = errors.New("path not found")
	// ErrInternal reports a violated aggregator or queue invariant. It
	// does not occur in correct operation.
	ErrInternal = errors.New("internal error")
)
