package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Sources selects which rule files a Provider loads. The two kinds can be
// disabled independently because callers expose separate switches for
// versioned (.gitignore) and local (.ignore) rules.
type Sources struct {
	Git   bool // .gitignore files and .git/info/exclude
	Local bool // .ignore files
}

// Provider hands out the Matcher in effect for each directory under a
// traversal root. Matchers inherit their parent directory's rules and add
// the rules of any ignore files found locally. Safe for concurrent use.
type Provider struct {
	root    string
	sources Sources
	cache   sync.Map // slash rel dir -> *Matcher
}

// NewProvider builds a provider rooted at root. The root matcher is loaded
// eagerly; per-directory matchers are built on first request.
func NewProvider(root string, sources Sources) *Provider {
	p := &Provider{root: root, sources: sources}

	base := NewMatcher()
	if sources.Git {
		p.loadFile(base, filepath.Join(root, ".git", "info", "exclude"), ".")
	}
	p.loadDir(base, root, ".")
	p.cache.Store(".", base)
	return p
}

// MatcherFor returns the matcher for relDir (slash-separated, relative to
// the root; "." for the root itself).
func (p *Provider) MatcherFor(relDir string) *Matcher {
	key := normalizeKey(relDir)
	if m, ok := p.cache.Load(key); ok {
		return m.(*Matcher)
	}

	parent := p.MatcherFor(parentKey(key))
	m := parent
	dir := filepath.Join(p.root, filepath.FromSlash(key))
	if p.hasRuleFiles(dir) {
		m = parent.Clone()
		p.loadDir(m, dir, key)
	}

	actual, _ := p.cache.LoadOrStore(key, m)
	return actual.(*Matcher)
}

// loadDir appends rules from the ignore files in dir, lowest priority
// first so the later file's rules can negate the earlier one's.
func (p *Provider) loadDir(m *Matcher, dir, relDir string) {
	if p.sources.Git {
		p.loadFile(m, filepath.Join(dir, ".gitignore"), relDir)
	}
	if p.sources.Local {
		p.loadFile(m, filepath.Join(dir, ".ignore"), relDir)
	}
}

func (p *Provider) hasRuleFiles(dir string) bool {
	if p.sources.Git {
		if fileExists(filepath.Join(dir, ".gitignore")) {
			return true
		}
	}
	if p.sources.Local {
		if fileExists(filepath.Join(dir, ".ignore")) {
			return true
		}
	}
	return false
}

func (p *Provider) loadFile(m *Matcher, filePath, baseDir string) {
	data, err := os.ReadFile(filePath)
	if err != nil || len(data) == 0 {
		return
	}
	m.AddRules(string(data), baseDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func normalizeKey(relDir string) string {
	if relDir == "" {
		return "."
	}
	cleaned := path.Clean(filepath.ToSlash(relDir))
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "" || cleaned == "." || cleaned == "/" {
		return "."
	}
	return cleaned
}

func parentKey(key string) string {
	if key == "." {
		return "."
	}
	parent := path.Dir(key)
	if parent == "/" {
		return "."
	}
	return parent
}
