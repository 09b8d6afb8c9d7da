// Package watch observes a shared directory for timing records as probes
// come up, the way an experiment runner waits for all pods to report.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ssoonan/pod-activation-experiment/internal/record"
)

// Event is one newly observed record.
type Event struct {
	Path   string
	Record *record.Record
}

// Watcher polls a directory for record files. Nothing else.
type Watcher struct {
	dir      string
	interval time.Duration
	seen     map[string]bool
}

// New creates a watcher for a shared directory.
func New(dir string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		dir:      dir,
		interval: interval,
		seen:     make(map[string]bool),
	}
}

// Run polls until expect records have been observed (expect <= 0 means run
// until ctx is cancelled). onEvent is called once per record file; files that
// fail to parse are ignored and retried on later scans, since a probe may
// still be mid-write.
func (w *Watcher) Run(ctx context.Context, expect int, onEvent func(Event)) error {
	// Scan immediately so records present before Run are not delayed by
	// one tick.
	if done := w.scan(expect, onEvent); done {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if done := w.scan(expect, onEvent); done {
				return nil
			}
		}
	}
}

// Seen reports how many records have been observed so far.
func (w *Watcher) Seen() int {
	return len(w.seen)
}

func (w *Watcher) scan(expect int, onEvent func(Event)) bool {
	paths, err := filepath.Glob(filepath.Join(w.dir, "*.txt"))
	if err != nil {
		return false
	}

	for _, path := range paths {
		if w.seen[path] {
			continue
		}
		rec, err := record.ReadFile(path)
		if err != nil {
			continue
		}
		w.seen[path] = true
		if onEvent != nil {
			onEvent(Event{Path: path, Record: rec})
		}
	}

	return expect > 0 && len(w.seen) >= expect
}
