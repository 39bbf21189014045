// Package watcher reports source changes for watch-mode builds.
package watcher

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unique"
)

// DefaultDebounceWindow is the quiet period after the last change before a rebuild starts.
const DefaultDebounceWindow = 200 * time.Millisecond

// Debouncer coalesces bursts of changed paths into one rebuild trigger.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	stopped  bool
	callback func(paths []string)
}

// NewDebouncer creates a debouncer that calls callback with the sorted set of paths
// changed during a burst, once window has elapsed without a new change.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	paths := d.drain()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		go d.callback(paths)
	}
}

// Flush runs the callback for pending paths right away and waits for it to return.
// It does nothing when the timer already fired.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.drain()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Stop discards pending paths and ignores later calls to Add.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

// drain empties the pending set. Callers must hold mu.
func (d *Debouncer) drain() []string {
	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}

// Relevant reports whether a change to path can affect a build. Hidden files and editor
// backups are ignored.
func Relevant(path string) bool {
	name := filepath.Base(path)
	switch {
	case name == "." || name == string(filepath.Separator):
		return false
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "#"):
		return false
	case strings.HasSuffix(name, "~"), strings.HasSuffix(name, ".swp"), strings.HasSuffix(name, ".tmp"):
		return false
	default:
		return true
	}
}
