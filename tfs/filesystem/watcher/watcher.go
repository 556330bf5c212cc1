// Package watcher renames files as they arrive in watched directories.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/directory"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"

	"github.com/fsnotify/fsnotify"
)

// Watcher feeds settled arrivals to a renaming service. Each batch is an
// ordinary invocation restricted to the names that arrived, so collisions are
// resolved against the directory as it is at that moment.
type Watcher struct {
	renamer   interfaces.RenamingService
	filter    interfaces.Filter
	opts      options.RenameOptions
	config    Config
	debouncer *Debouncer
	pathUtils *common.PathUtils

	fsw *fsnotify.Watcher

	// produced holds paths the renamer wrote, so their own events are not
	// treated as arrivals.
	mu       sync.Mutex
	produced map[string]time.Time
	quiet    time.Duration
}

// New creates a watcher. A nil filter accepts every known extension.
func New(renamer interfaces.RenamingService, filter interfaces.Filter, opts options.RenameOptions, config Config) (*Watcher, error) {
	if config.Delay <= 0 {
		config.Delay = 500 * time.Millisecond
	}
	if config.MaxDelay < config.Delay {
		config.MaxDelay = 10 * config.Delay
	}
	if config.QueueCapacity <= 0 {
		config.QueueCapacity = 64
	}
	if filter == nil {
		filter = directory.AllAcceptedFilter(false)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		renamer:   renamer,
		filter:    filter,
		opts:      opts,
		config:    config,
		debouncer: NewDebouncer(config.Delay, config.MaxDelay, config.QueueCapacity),
		pathUtils: common.NewPathUtils(),
		fsw:       fsw,
		produced:  make(map[string]time.Time),
		quiet:     2*config.MaxDelay + config.Delay,
	}, nil
}

// Run watches roots until ctx is cancelled. Every root must be a directory.
func (w *Watcher) Run(ctx context.Context, roots ...string) error {
	defer w.fsw.Close()
	defer w.debouncer.Close()

	vu := common.NewValidationUtils()
	for _, root := range roots {
		if err := vu.ValidateTargetDirectory(root); err != nil {
			return err
		}
		if err := w.addTree(root); err != nil {
			return err
		}
	}

	if w.config.Initial {
		for _, root := range roots {
			w.process(ctx, Batch{Dir: root, All: true})
		}
	}

	slog.Info("Watching for new files", "roots", len(roots), "recursive", w.config.Recursive)

	prune := time.NewTicker(w.quiet)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)

		case batch := <-w.debouncer.Batches():
			w.process(ctx, batch)

		case <-prune.C:
			w.pruneProduced()
		}
	}
}

// addTree watches dir and, when recursive, its non-hidden subdirectories.
func (w *Watcher) addTree(dir string) error {
	if !w.config.Recursive {
		return w.fsw.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			slog.Warn("Cannot watch directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.pathUtils.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			slog.Warn("Failed to add subdirectory to watcher", "path", path, "error", err)
		}
		return nil
	})
}

// handle turns one fsnotify event into a pending arrival.
func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	name := filepath.Base(event.Name)
	if w.pathUtils.IsHidden(name) || w.isProduced(event.Name) {
		return
	}

	info, err := os.Lstat(event.Name)
	if err != nil {
		// Gone again before we looked
		return
	}
	if info.IsDir() {
		if !w.config.Recursive || !event.Has(fsnotify.Create) {
			return
		}
		if err := w.addTree(event.Name); err != nil {
			slog.Warn("Cannot watch new directory", "path", event.Name, "error", err)
			return
		}
		w.debouncer.Add(event.Name, "")
		return
	}
	if !w.filter.Accepts(name, false) {
		return
	}
	w.debouncer.Add(filepath.Dir(event.Name), name)
}

// process runs one invocation for a settled batch.
func (w *Watcher) process(ctx context.Context, batch Batch) {
	var filter interfaces.Filter = w.filter
	recursive := false
	if batch.All {
		recursive = w.config.Recursive
	} else {
		filter = newNameFilter(w.filter, batch.Names)
	}

	result, err := w.renamer.Execute(ctx, batch.Dir, filter, recursive, w.opts)
	if err != nil {
		if common.NewErrorUtils().IsFatal(err) {
			slog.Warn("Watched directory is no longer usable", "dir", batch.Dir, "error", err)
			return
		}
		slog.Error("Rename of arrivals failed", "dir", batch.Dir, "error", err)
		return
	}
	w.markProduced(result)
}

func (w *Watcher) markProduced(result *types.RenameResult) {
	if result == nil || result.DryRun {
		return
	}
	now := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	for newPath := range result.Renamed {
		w.produced[newPath] = now
	}
}

func (w *Watcher) isProduced(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	at, ok := w.produced[path]
	return ok && time.Since(at) < w.quiet
}

func (w *Watcher) pruneProduced() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, at := range w.produced {
		if time.Since(at) >= w.quiet {
			delete(w.produced, p)
		}
	}
}

// nameFilter narrows a filter to an explicit set of file names.
type nameFilter struct {
	base  interfaces.Filter
	names types.NameSet
}

func newNameFilter(base interfaces.Filter, names []string) nameFilter {
	return nameFilter{base: base, names: types.NewNameSet(names...)}
}

func (f nameFilter) Accepts(name string, isDir bool) bool {
	return !isDir && f.names.Contains(name) && f.base.Accepts(name, false)
}

func (f nameFilter) AcceptsDirectories() bool { return false }
