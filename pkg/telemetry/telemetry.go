// Package telemetry receives fire-and-forget notifications about completed
// search operations. Reporting never blocks the search path: the Recorder
// buffers events on a channel and drops them when the buffer is full.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event describes one completed operation.
type Event struct {
	OperationID string        // unique per search, see NewOperationID
	Kind        string        // "search_content" or "search_filenames"
	Duration    time.Duration // wall time of the whole call
	ResultCount int           // files (content) or paths (filename)
}

// Reporter consumes events. Implementations must not block the caller.
type Reporter interface {
	Report(Event)
}

// NewOperationID returns a unique ID for correlating an operation's
// telemetry with its log lines.
func NewOperationID() string {
	return uuid.NewString()
}

// Nop discards every event.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(Event) {}

// OperationStats aggregates the events of one operation kind.
type OperationStats struct {
	Kind          string
	Count         int64
	TotalDuration time.Duration
	TotalResults  int64
}

// Recorder is the default Reporter: a buffered channel drained by a single
// goroutine into per-kind aggregates. Report never blocks; when the buffer
// is full the event is counted as dropped instead.
type Recorder struct {
	events  chan Event
	done    chan struct{}
	dropped atomic.Int64

	mu    sync.Mutex
	stats map[string]*OperationStats
}

// NewRecorder starts a recorder with the given buffer size (minimum 1).
func NewRecorder(buffer int) *Recorder {
	if buffer < 1 {
		buffer = 1
	}
	r := &Recorder{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		stats:  make(map[string]*OperationStats),
	}
	go r.drain()
	return r
}

// Report implements Reporter.
func (r *Recorder) Report(ev Event) {
	select {
	case r.events <- ev:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the buffer was
// full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Summary returns a copy of the per-kind aggregates collected so far.
func (r *Recorder) Summary() []OperationStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OperationStats, 0, len(r.stats))
	for _, s := range r.stats {
		out = append(out, *s)
	}
	return out
}

// Close stops the drain goroutine after the buffered events are consumed.
func (r *Recorder) Close() {
	close(r.events)
	<-r.done
}

func (r *Recorder) drain() {
	defer close(r.done)
	for ev := range r.events {
		r.mu.Lock()
		s, ok := r.stats[ev.Kind]
		if !ok {
			s = &OperationStats{Kind: ev.Kind}
			r.stats[ev.Kind] = s
		}
		s.Count++
		s.TotalDuration += ev.Duration
		s.TotalResults += int64(ev.ResultCount)
		r.mu.Unlock()
	}
}
