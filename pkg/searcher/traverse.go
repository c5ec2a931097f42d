package searcher

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/verdigris/sweep/pkg/ignore"
	"github.com/verdigris/sweep/pkg/logger"
)

// dirNode is one pending directory. depth is the depth assigned to the
// directory's entries (0 for entries of the root).
type dirNode struct {
	abs     string
	rel     string
	depth   int
	matcher *ignore.Matcher
}

// dirQueue is the shared pending-directory queue. outstanding counts
// directories pushed but not yet fully processed; when it reaches zero the
// traversal is quiescent and pop unblocks every worker.
type dirQueue struct {
	mu          sync.Mutex
	cond        *sync.Cond
	nodes       []dirNode
	outstanding int
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *dirQueue) push(n dirNode) {
	q.mu.Lock()
	q.nodes = append(q.nodes, n)
	q.outstanding++
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a directory is available or the traversal is quiescent.
// The second return is false only at quiescence.
func (q *dirQueue) pop() (dirNode, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.nodes) == 0 && q.outstanding > 0 {
		q.cond.Wait()
	}
	if len(q.nodes) == 0 {
		return dirNode{}, false
	}
	n := q.nodes[len(q.nodes)-1]
	q.nodes = q.nodes[:len(q.nodes)-1]
	return n, true
}

// done marks one popped directory as fully processed.
func (q *dirQueue) done() {
	q.mu.Lock()
	q.outstanding--
	quiescent := q.outstanding == 0
	q.mu.Unlock()
	if quiescent {
		q.cond.Broadcast()
	}
}

// traverser walks the tree with a fixed worker pool, applying the path
// filter and handing each eligible regular file's canonical path to the
// scan callback. Real-path deduplication keeps symlink cycles from causing
// repeated visits or non-termination.
type traverser struct {
	root    string
	filter  *pathFilter
	workers int
	log     *logger.Logger

	mu      sync.Mutex
	visited map[string]struct{}
}

func newTraverser(root string, filter *pathFilter, workers int, log *logger.Logger) *traverser {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &traverser{
		root:    root,
		filter:  filter,
		workers: workers,
		log:     log,
		visited: make(map[string]struct{}),
	}
}

// run blocks until every eligible file has been handed to scan exactly
// once and all workers have drained. scan is called concurrently from the
// worker goroutines.
func (t *traverser) run(scan func(path string)) {
	q := newDirQueue()
	t.markVisited(t.root)
	q.push(dirNode{
		abs:     t.root,
		rel:     ".",
		depth:   0,
		matcher: t.filter.matcherFor("."),
	})

	var wg sync.WaitGroup
	for i := 0; i < t.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				node, ok := q.pop()
				if !ok {
					return
				}
				t.processDir(node, q, scan)
				q.done()
			}
		}()
	}
	wg.Wait()
}

func (t *traverser) processDir(node dirNode, q *dirQueue, scan func(path string)) {
	entries, err := os.ReadDir(node.abs)
	if err != nil {
		t.log.Debug("skipping unreadable directory %s: %v", node.abs, err)
		return
	}

	for _, entry := range entries {
		base := entry.Name()
		rel := joinRel(node.rel, base)
		full := filepath.Join(node.abs, base)

		isDir, isRegular, ok := t.resolveType(entry, full)
		if !ok {
			continue
		}
		if !t.filter.eligible(rel, base, isDir, node.depth, node.matcher) {
			continue
		}

		canonical, err := filepath.EvalSymlinks(full)
		if err != nil {
			t.log.Debug("skipping unresolvable path %s: %v", full, err)
			continue
		}
		if !t.markVisited(canonical) {
			continue
		}

		switch {
		case isDir:
			q.push(dirNode{
				abs:     canonical,
				rel:     rel,
				depth:   node.depth + 1,
				matcher: t.filter.matcherFor(rel),
			})
		case isRegular:
			scan(canonical)
		}
	}
}

// resolveType classifies an entry, following symlinks. Dangling links and
// special files (sockets, devices) report ok=false.
func (t *traverser) resolveType(entry fs.DirEntry, full string) (isDir, isRegular, ok bool) {
	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(full)
		if err != nil {
			return false, false, false
		}
		mode = info.Mode()
	}
	if mode.IsDir() {
		return true, false, true
	}
	if mode.IsRegular() {
		return false, true, true
	}
	return false, false, false
}

// markVisited records a canonical path, reporting false if it was already
// seen. Shared by directories (cycle prevention) and files (duplicate
// suppression through multiple link paths).
func (t *traverser) markVisited(canonical string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.visited[canonical]; seen {
		return false
	}
	t.visited[canonical] = struct{}{}
	return true
}

func joinRel(parent, child string) string {
	if parent == "." || parent == "" {
		return child
	}
	return path.Join(parent, child)
}
