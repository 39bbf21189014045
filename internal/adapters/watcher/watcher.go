package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirectories are never watched. Build outputs live under the project root and
// would otherwise retrigger a build on every link.
var skippedDirectories = map[string]bool{
	".git":                     true,
	".jj":                      true,
	"node_modules":             true,
	domain.BinariesDirName:     true,
	domain.IntermediateDirName: true,
}

const eventChannelBuffer = 100

// Watcher reports changes below a set of module directories using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent
}

// NewWatcher creates a new file system watcher. Errors raised by the OS watcher after
// Start are reported to logger.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(domain.ErrWatcherFailed, err.Error())
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start adds every directory below roots to the watch list and begins forwarding events
// until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, roots []string) error {
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		for dir := range directoriesBelow(root) {
			if err := w.fsWatcher.Add(dir); err != nil {
				return zerr.With(zerr.Wrap(domain.ErrWatcherFailed, err.Error()), "path", dir)
			}
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events. It ends once the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// directoriesBelow yields root and every directory under it that is not skipped.
func directoriesBelow(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skippedDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				w.watchNewDirectory(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error(zerr.Wrap(domain.ErrWatcherFailed, err.Error()))
			}
		}
	}
}

// watchNewDirectory extends the watch list when a directory appears inside a watched tree.
func (w *Watcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skippedDirectories[info.Name()] {
		return
	}
	for dir := range directoriesBelow(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
