// Progress reporting: a multi-destination sink safe for concurrent
// append-only updates from independent per-slot upload goroutines (spec
// §5). Sizing is formatted with github.com/inhies/go-bytesize, the
// teacher's own dependency for human-readable firmware image sizes.
package upload

import (
	"sync"

	"github.com/inhies/go-bytesize"
)

// Update is one progress event from an in-flight upload.
type Update struct {
	Slot       int
	Line       int
	TotalLines int
	BytesSent  bytesize.ByteSize
	TotalBytes bytesize.ByteSize
}

// Sink receives progress updates. Rendering a bar or formatting log lines
// from these updates is the caller's concern (out of scope, spec §1/§6);
// this package only guarantees updates are delivered in order per slot and
// are safe to send from multiple slots' goroutines concurrently.
type Sink interface {
	Report(Update)
}

// NopSink discards every update; the zero value is ready to use.
type NopSink struct{}

func (NopSink) Report(Update) {}

// MultiSink fans an update out to every destination sink.
type MultiSink []Sink

func (m MultiSink) Report(u Update) {
	for _, s := range m {
		s.Report(u)
	}
}

// Log is a concurrency-safe append-only record of every update it
// receives, usable directly as a Sink or wrapped in a MultiSink alongside a
// renderer.
type Log struct {
	mu      sync.Mutex
	entries []Update
}

func (l *Log) Report(u Update) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, u)
}

// Entries returns a snapshot of every update received so far.
func (l *Log) Entries() []Update {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Update, len(l.entries))
	copy(out, l.entries)
	return out
}
