package searcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verdigris/sweep/pkg/logger"
	"github.com/verdigris/sweep/pkg/telemetry"
)

// Engine coordinates a search: it validates the request, compiles the
// pattern once, runs the traversal worker pool, and drains the sink after
// quiescence. Both entry points are synchronous from the caller's view.
//
// There is no mid-flight cancellation: a search runs to completion, and a
// caller that needs a timeout abandons the whole call.
type Engine struct {
	opener   FileOpener
	log      *logger.Logger
	reporter telemetry.Reporter
}

// NewEngine creates an engine. log may be nil for a silent engine and
// reporter may be nil to disable telemetry.
func NewEngine(log *logger.Logger, reporter telemetry.Reporter) *Engine {
	if reporter == nil {
		reporter = telemetry.Nop{}
	}
	return &Engine{
		opener:   osOpener{},
		log:      log,
		reporter: reporter,
	}
}

// SetFileOpener replaces the file access collaborator. Intended for hosts
// that broker file access themselves.
func (e *Engine) SetFileOpener(opener FileOpener) {
	if opener != nil {
		e.opener = opener
	}
}

// SearchContent searches file contents under root for the regex pattern.
// It returns one FileResult per file with at least one matching line.
// Fails with ErrInvalidPattern if the pattern or a glob does not compile
// and with ErrPathNotFound if root is missing or not a directory.
// Per-file read failures skip that file without failing the call.
func (e *Engine) SearchContent(root, pattern string, opts Options) ([]FileResult, error) {
	start := time.Now()
	opID := telemetry.NewOperationID()

	re, err := compilePattern(pattern, opts.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	rootAbs, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	filter, err := newPathFilter(rootAbs, opts)
	if err != nil {
		return nil, err
	}

	scanner := &contentScanner{re: re, opener: e.opener}
	sink := newResultSink()
	walker := newTraverser(rootAbs, filter, opts.Workers, e.log)

	walker.run(func(path string) {
		matches, err := scanner.scanFile(path)
		if err != nil {
			e.log.Debug("op=%s skipping file %s: %v", opID, path, err)
			return
		}
		if len(matches) == 0 {
			return
		}
		sink.addFile(FileResult{Path: path, Matches: matches})
	})

	if err := sink.err(); err != nil {
		return nil, err
	}
	results := sink.fileResults()

	elapsed := time.Since(start)
	e.log.Debug("op=%s content search finished in %v, %d files matched", opID, elapsed, len(results))
	e.reporter.Report(telemetry.Event{
		OperationID: opID,
		Kind:        "search_content",
		Duration:    elapsed,
		ResultCount: len(results),
	})
	return results, nil
}

// SearchFilenames searches for files whose name matches the regex pattern
// and returns their canonical paths. Hidden files are included, .ignore
// files are not consulted, and .gitignore rules are honored.
func (e *Engine) SearchFilenames(root, pattern string) ([]string, error) {
	start := time.Now()
	opID := telemetry.NewOperationID()

	re, err := compilePattern(pattern, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	rootAbs, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	opts := Options{
		IncludeHidden: true,
		DisableIgnore: true,
	}
	filter, err := newPathFilter(rootAbs, opts)
	if err != nil {
		return nil, err
	}

	matcher := &nameMatcher{re: re}
	sink := newResultSink()
	walker := newTraverser(rootAbs, filter, opts.Workers, e.log)

	walker.run(func(path string) {
		if matcher.matches(path) {
			sink.addPath(path)
		}
	})

	if err := sink.err(); err != nil {
		return nil, err
	}
	results := sink.pathResults()

	elapsed := time.Since(start)
	e.log.Debug("op=%s filename search finished in %v, %d files", opID, elapsed, len(results))
	e.reporter.Report(telemetry.Event{
		OperationID: opID,
		Kind:        "search_filenames",
		Duration:    elapsed,
		ResultCount: len(results),
	})
	return results, nil
}

// validateRoot resolves root to a canonical absolute directory path.
func validateRoot(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, root)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, root)
	}
	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, root)
	}
	return filepath.Abs(canonical)
}
