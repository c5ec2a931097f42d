package searcher

import (
	"fmt"
	"sync"
)

// resultSink is the only cross-worker mutable collection: an append-only,
// mutex-guarded set of per-file results keyed by canonical path. Order
// across files is unspecified; callers needing determinism sort by path.
type resultSink struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	files []FileResult
	paths []string
	fault error
}

func newResultSink() *resultSink {
	return &resultSink{seen: make(map[string]struct{})}
}

// addFile accepts one file's matches. An empty match set or a duplicate
// path violates the sink's invariants and is recorded as an internal
// fault surfaced after quiescence.
func (s *resultSink) addFile(r FileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(r.Matches) == 0 {
		s.setFault(fmt.Errorf("%w: empty match set for %s", ErrInternal, r.Path))
		return
	}
	if _, dup := s.seen[r.Path]; dup {
		s.setFault(fmt.Errorf("%w: duplicate result for %s", ErrInternal, r.Path))
		return
	}
	s.seen[r.Path] = struct{}{}
	s.files = append(s.files, r)
}

// addPath accepts one filename-mode match.
func (s *resultSink) addPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[path]; dup {
		s.setFault(fmt.Errorf("%w: duplicate result for %s", ErrInternal, path))
		return
	}
	s.seen[path] = struct{}{}
	s.paths = append(s.paths, path)
}

func (s *resultSink) setFault(err error) {
	if s.fault == nil {
		s.fault = err
	}
}

// err returns the first recorded invariant violation, if any.
func (s *resultSink) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// fileResults finalizes content-mode results. Call after quiescence only.
func (s *resultSink) fileResults() []FileResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files
}

// pathResults finalizes filename-mode results. Call after quiescence only.
func (s *resultSink) pathResults() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paths
}
