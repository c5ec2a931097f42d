package searcher

import (
	"path/filepath"
	"regexp"
)

// nameMatcher matches the compiled filename pattern against a path's final
// component only. Used by filename-search mode; no content is read.
type nameMatcher struct {
	re *regexp.Regexp
}

func (m *nameMatcher) matches(path string) bool {
	return m.re.MatchString(filepath.Base(path))
}
