package searcher

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/verdigris/sweep/pkg/ignore"
)

// pathFilter decides whether a path participates in traversal and search.
// Built once per request; safe for concurrent use (the ignore provider
// caches matchers under its own lock).
type pathFilter struct {
	includeHidden bool
	maxDepth      *int
	includes      []glob.Glob
	excludes      []glob.Glob
	ignores       *ignore.Provider
}

func newPathFilter(root string, opts Options) (*pathFilter, error) {
	includes, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	excludes, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	return &pathFilter{
		includeHidden: opts.IncludeHidden,
		maxDepth:      opts.MaxDepth,
		includes:      includes,
		excludes:      excludes,
		ignores: ignore.NewProvider(root, ignore.Sources{
			Git:   !opts.DisableGitignore,
			Local: !opts.DisableIgnore,
		}),
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidPattern, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// eligible applies the filter rules in precedence order: hidden, ignore
// files, depth, include globs, exclude globs. Exclusion is evaluated last
// and always wins. rel is slash-separated and relative to the root; depth
// is 0 for the root's direct children. An ineligible directory is pruned
// before descent.
func (f *pathFilter) eligible(rel, base string, isDir bool, depth int, m *ignore.Matcher) bool {
	if strings.HasPrefix(base, ".") && !f.includeHidden {
		return false
	}
	if m.Match(rel, isDir) {
		return false
	}
	if f.maxDepth != nil && depth > *f.maxDepth {
		return false
	}
	if len(f.includes) > 0 && !isDir && !matchAny(f.includes, rel, base) {
		return false
	}
	if matchAny(f.excludes, rel, base) {
		return false
	}
	return true
}

// matchAny tests the relative path and its final component, so component
// globs like "*.txt" apply at any depth while "dir/*.txt" stays anchored.
func matchAny(globs []glob.Glob, rel, base string) bool {
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// matcherFor exposes the per-directory ignore matcher to the traverser.
func (f *pathFilter) matcherFor(relDir string) *ignore.Matcher {
	return f.ignores.MatcherFor(relDir)
}
