// Package ignore implements gitignore-style pattern matching for directory
// traversal. A Matcher holds the parsed rules visible from one directory;
// a Provider loads rule files lazily as the traversal descends.
package ignore

import (
	"path"
	"strings"
)

// Matcher matches relative paths against an ordered list of ignore rules.
// Rules later in the list override earlier ones, so negations work the way
// git's do. A Matcher is immutable after construction; Clone before adding
// rules for a subdirectory.
type Matcher struct {
	rules []rule
}

type rule struct {
	segments []string // pattern split on '/', "**" crosses directories
	negate   bool     // leading !
	dirOnly  bool     // trailing /
	anchored bool     // leading / or interior slash: relative to baseDir
	baseDir  string   // slash-separated dir the rule file lives in, "." at root
}

// NewMatcher returns an empty matcher that ignores nothing.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Clone returns a copy whose rule list can grow independently.
func (m *Matcher) Clone() *Matcher {
	if m == nil {
		return NewMatcher()
	}
	c := &Matcher{}
	if len(m.rules) > 0 {
		c.rules = make([]rule, len(m.rules))
		copy(c.rules, m.rules)
	}
	return c
}

// AddRules parses the content of one ignore file found in baseDir
// (slash-separated, relative to the traversal root, "." for the root)
// and appends its rules.
func (m *Matcher) AddRules(content, baseDir string) {
	for _, line := range strings.Split(content, "\n") {
		if r, ok := parseRule(line, baseDir); ok {
			m.rules = append(m.rules, r)
		}
	}
}

// Len reports how many rules the matcher holds.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// Match reports whether relPath (slash-separated, relative to the root)
// is ignored. The last rule that matches wins.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m == nil || relPath == "" || relPath == "." {
		return false
	}
	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

func parseRule(line, baseDir string) (rule, bool) {
	line = trimUnescapedTrailingSpace(line)
	if line == "" {
		return rule{}, false
	}
	if strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var r rule
	r.baseDir = baseDir

	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		// An interior slash anchors the pattern to its base directory,
		// same as git.
		r.anchored = true
	}
	line = unescape(line)
	if line == "" {
		return rule{}, false
	}

	r.segments = strings.Split(line, "/")
	return r, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}

	// Rules only apply below the directory their file lives in.
	sub := relPath
	if r.baseDir != "." && r.baseDir != "" {
		prefix := r.baseDir + "/"
		if !strings.HasPrefix(relPath, prefix) {
			return false
		}
		sub = relPath[len(prefix):]
	}

	if r.anchored {
		return matchSegments(r.segments, strings.Split(sub, "/"))
	}
	// Unanchored rules match against the final path component.
	return matchSegments(r.segments, []string{path.Base(sub)})
}

// matchSegments matches a slash-split pattern against slash-split path
// components. "**" matches any run of components: zero or more in the
// middle, one or more at the end (so "a/**" matches contents of a, not a
// itself).
func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	seg := pattern[0]
	if seg == "**" {
		if len(pattern) == 1 {
			return len(parts) >= 1
		}
		for skip := 0; skip <= len(parts); skip++ {
			if matchSegments(pattern[1:], parts[skip:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if !matchSegment(seg, parts[0]) {
		return false
	}
	return matchSegments(pattern[1:], parts[1:])
}

// matchSegment matches one pattern component against one path component.
// Supports *, ? and [...] classes; none of them cross a '/' because
// segments never contain one.
func matchSegment(pattern, s string) bool {
	return segMatch(pattern, s, 0, 0)
}

func segMatch(pattern, s string, pi, si int) bool {
	for pi < len(pattern) {
		switch pattern[pi] {
		case '*':
			// Collapse consecutive stars.
			for pi < len(pattern) && pattern[pi] == '*' {
				pi++
			}
			if pi == len(pattern) {
				return true
			}
			for i := si; i <= len(s); i++ {
				if segMatch(pattern, s, pi, i) {
					return true
				}
			}
			return false
		case '?':
			if si >= len(s) {
				return false
			}
			pi++
			si++
		case '[':
			if si >= len(s) {
				return false
			}
			end := closingBracket(pattern, pi)
			if end < 0 {
				// Unterminated class: treat '[' literally.
				if s[si] != '[' {
					return false
				}
				pi++
				si++
				continue
			}
			if !classMatch(pattern[pi+1:end], s[si]) {
				return false
			}
			pi = end + 1
			si++
		default:
			if si >= len(s) || pattern[pi] != s[si] {
				return false
			}
			pi++
			si++
		}
	}
	return si == len(s)
}

func closingBracket(pattern string, open int) int {
	for i := open + 1; i < len(pattern); i++ {
		if pattern[i] == ']' && i > open+1 {
			return i
		}
	}
	return -1
}

func classMatch(class string, c byte) bool {
	negate := false
	if strings.HasPrefix(class, "!") || strings.HasPrefix(class, "^") {
		negate = true
		class = class[1:]
	}
	matched := false
	for i := 0; i < len(class); {
		if i+2 < len(class) && class[i+1] == '-' {
			if c >= class[i] && c <= class[i+2] {
				matched = true
			}
			i += 3
		} else {
			if class[i] == c {
				matched = true
			}
			i++
		}
	}
	if negate {
		return !matched
	}
	return matched
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func trimUnescapedTrailingSpace(line string) string {
	i := len(line)
	for i > 0 && line[i-1] == ' ' {
		backslashes := 0
		for j := i - 2; j >= 0 && line[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			break
		}
		i--
	}
	return line[:i]
}
