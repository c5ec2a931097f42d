// Package searcher implements parallel content and filename search over a
// directory tree: a worker pool walks the tree under ignore/hidden/glob
// filtering rules and streams per-file matches into a shared sink.
package searcher

import (
	"io"
	"os"
)

// Options control filtering and concurrency for one search.
type Options struct {
	// IncludeHidden keeps path components starting with '.'.
	IncludeHidden bool
	// DisableIgnore turns off .ignore files.
	DisableIgnore bool
	// DisableGitignore turns off .gitignore files and .git/info/exclude.
	DisableGitignore bool
	// MaxDepth limits descent: nil is unlimited, 0 keeps only the root's
	// direct children. An entry is excluded when its depth exceeds MaxDepth.
	MaxDepth *int
	// IncludeGlobs, when non-empty, restricts files to those matching at
	// least one glob. Directories are still descended.
	IncludeGlobs []string
	// ExcludeGlobs removes any matching file or directory. Exclusion is
	// applied last and wins over IncludeGlobs.
	ExcludeGlobs []string
	// IgnoreCase makes the content pattern case-insensitive. The zero
	// value preserves the default of case-sensitive regex matching.
	IgnoreCase bool
	// Workers overrides the traversal worker count; 0 means one worker
	// per logical CPU.
	Workers int
}

// Match is one matching line within a file. ByteStart and ByteEnd delimit
// the matching line inside the file (excluding the line terminator); Text
// is the line decoded with invalid bytes replaced.
type Match struct {
	LineNumber int    `json:"lineNumber"` // 1-based
	ByteStart  int64  `json:"byteStart"`
	ByteEnd    int64  `json:"byteEnd"`
	Text       string `json:"text"`
}

// FileResult is a file with at least one match, in the file's line order.
type FileResult struct {
	Path    string  `json:"filePath"` // canonical
	Matches []Match `json:"matches"`
}

// Request is the wire shape consumed from a caller such as an editor
// front-end. Absent optional fields keep the engine defaults; an absent
// caseSensitive means case-sensitive, matching the engine's regex default.
type Request struct {
	RootPath         string   `json:"rootPath"`
	Pattern          string   `json:"pattern"`
	CaseSensitive    *bool    `json:"caseSensitive,omitempty"`
	IncludeHidden    bool     `json:"includeHidden,omitempty"`
	DisableIgnore    bool     `json:"disableIgnore,omitempty"`
	DisableGitignore bool     `json:"disableGitignore,omitempty"`
	MaxDepth         *int     `json:"maxDepth,omitempty"`
	IncludePatterns  []string `json:"includePatterns,omitempty"`
	ExcludePatterns  []string `json:"excludePatterns,omitempty"`
}

// Options converts the request's filter fields.
func (r *Request) Options() Options {
	return Options{
		IncludeHidden:    r.IncludeHidden,
		DisableIgnore:    r.DisableIgnore,
		DisableGitignore: r.DisableGitignore,
		MaxDepth:         r.MaxDepth,
		IncludeGlobs:     r.IncludePatterns,
		ExcludeGlobs:     r.ExcludePatterns,
		IgnoreCase:       r.CaseSensitive != nil && !*r.CaseSensitive,
	}
}

// FileOpener is the byte-stream access the engine needs per candidate
// file. The default implementation is the OS filesystem.
type FileOpener interface {
	Open(path string) (io.ReadCloser, error)
}

type osOpener struct{}

func (osOpener) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
