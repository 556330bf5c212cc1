package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	internal "github.com/ZanzyTHEbar/tidyfs/tfs"
	"github.com/ZanzyTHEbar/tidyfs/tfs/catalog"
	"github.com/ZanzyTHEbar/tidyfs/tfs/config"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/fileops"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/services"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/utils"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/watcher"
	"github.com/ZanzyTHEbar/tidyfs/tfs/ports"
	"github.com/ZanzyTHEbar/tidyfs/tfs/postprocess"
	"github.com/ZanzyTHEbar/tidyfs/tfs/rewrite"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileSystem wires catalogs, the rename pipeline and its services together.
// It is built once per process; the catalogs it loads are shared read-only by
// every invocation.
type FileSystem struct {
	catalogs         *catalog.Catalogs
	rewriter         *rewrite.TokenRewriter
	conflictResolver *services.ConflictResolverService
	fileOperations   *fileops.FileOps
	renamingService  *services.RenamingService
	batchRunner      *services.BatchRunnerService

	config   *config.Config
	terminal ports.Interactor
}

// New loads the catalogs named by cfg and builds the services. A malformed
// catalog is fatal. A nil cfg uses the defaults.
func New(interactor ports.Interactor, cfg *config.Config) (*FileSystem, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	catalogs, err := catalog.Load(catalog.LoadOptions{SearchPaths: cfg.Catalog.SearchPaths})
	if err != nil {
		return nil, err
	}
	locale := cfg.Catalog.Locale
	if locale == "" {
		locale = internal.DefaultLocale
	}

	rw := rewrite.NewTokenRewriter(catalogs.Exclusions, catalogs.Noise.For(locale), cfg.Renamer.MaxStripIterations)
	conflictResolver := services.NewConflictResolverService()
	fileOperations := fileops.NewFileOps()
	registry := postprocess.Registry{
		types.ClassAudio: postprocess.NewAudioPostprocessor(rw, postprocess.DefaultTagStores(), conflictResolver, fileOperations),
	}
	renamingService := services.NewRenamingService(rw, registry, conflictResolver, fileOperations)

	dfs := &FileSystem{
		catalogs:         catalogs,
		rewriter:         rw,
		conflictResolver: conflictResolver,
		fileOperations:   fileOperations,
		renamingService:  renamingService,
		config:           cfg,
		terminal:         interactor,
	}
	dfs.batchRunner = services.NewBatchRunnerService(ignoringRenamer{fs: dfs})

	slog.Debug("Filesystem initialised",
		"exclusions", catalogs.Exclusions.Len(),
		"locale", locale,
		"catalog_sources", len(catalogs.Sources))
	return dfs, nil
}

// Options returns batch options derived from the loaded configuration.
func (dfs *FileSystem) Options() (options.BatchOptions, error) {
	return options.FromConfig(&dfs.config.Renamer)
}

// Rename runs one top-level invocation over dir.
func (dfs *FileSystem) Rename(ctx context.Context, dir string, opts options.BatchOptions) (*types.RenameResult, error) {
	filter, err := services.FilterFor(opts.Extensions, opts.IncludeSubdirectories)
	if err != nil {
		return nil, err
	}

	if dfs.terminal != nil {
		dfs.terminal.StartSpinner(fmt.Sprintf("Renaming files in %s", dir))
	}
	result, err := ignoringRenamer{fs: dfs}.Execute(ctx, dir, filter, opts.IncludeSubdirectories, opts.Rename)
	if dfs.terminal != nil {
		if err != nil {
			dfs.terminal.StopSpinner(false, "Rename failed")
		} else {
			dfs.terminal.StopSpinner(true, fmt.Sprintf("%d file(s) renamed", result.Len()))
		}
	}
	return result, err
}

// Batch runs one invocation per directory through the bounded pool.
func (dfs *FileSystem) Batch(ctx context.Context, dirs []string, opts options.BatchOptions) ([]types.BatchOutcome, error) {
	return dfs.batchRunner.Run(ctx, dirs, opts)
}

// Watch renames files as they arrive in dirs until ctx is cancelled. Each
// settled batch of arrivals is one invocation with the usual ignore handling.
func (dfs *FileSystem) Watch(ctx context.Context, dirs []string, opts options.BatchOptions) error {
	filter, err := services.FilterFor(opts.Extensions, false)
	if err != nil {
		return err
	}
	w, err := watcher.New(ignoringRenamer{fs: dfs}, filter, opts.Rename, watcher.Config{
		Delay:     dfs.config.Watch.Debounce,
		MaxDelay:  dfs.config.Watch.MaxDelay,
		Recursive: opts.IncludeSubdirectories,
		Initial:   dfs.config.Watch.Initial,
	})
	if err != nil {
		return err
	}
	return w.Run(ctx, dirs...)
}

// Inspect reports classification and embedded metadata of one file.
func (dfs *FileSystem) Inspect(path string) (*utils.FileMetadata, error) {
	return utils.Inspect(path)
}

// Catalogs returns the catalogs loaded at construction.
func (dfs *FileSystem) Catalogs() *catalog.Catalogs {
	return dfs.catalogs
}

// RegisterEventHandler forwards renaming events to handler.
func (dfs *FileSystem) RegisterEventHandler(handler func(types.Event)) {
	dfs.renamingService.RegisterEventHandler(handler)
}

// GetMetrics returns the renaming metrics.
func (dfs *FileSystem) GetMetrics() map[string]interface{} {
	return dfs.renamingService.GetMetrics()
}

// LoadIgnore compiles the ignore file at the root of dir. A missing file
// yields a nil checker.
func (dfs *FileSystem) LoadIgnore(dir string) (options.IgnoreChecker, error) {
	name := dfs.config.Renamer.IgnoreFile
	if name == "" {
		name = internal.DefaultIgnoreFile
	}
	ignorePath := filepath.Join(dir, name)

	if _, err := os.Stat(ignorePath); err == nil {
		ignored, err := ignore.CompileIgnoreFile(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", ignorePath, err)
		}
		// The ignore file itself never takes part in renaming
		return ignoreAlso{checker: ignored, name: name}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error checking for %s: %w", ignorePath, err)
	}
	return nil, nil
}

type ignoreAlso struct {
	checker options.IgnoreChecker
	name    string
}

func (i ignoreAlso) MatchesPath(path string) bool {
	return path == i.name || i.checker.MatchesPath(path)
}

// ignoringRenamer loads the ignore file of each invocation root before
// delegating, unless the caller already supplied a checker.
type ignoringRenamer struct {
	fs *FileSystem
}

func (r ignoringRenamer) Execute(ctx context.Context, dir string, filter interfaces.Filter, includeSubdirectories bool, opts options.RenameOptions) (*types.RenameResult, error) {
	if opts.Ignore == nil {
		checker, err := r.fs.LoadIgnore(dir)
		if err != nil {
			slog.Warn("Ignore file unusable, continuing without it", "dir", dir, "error", err)
		} else if checker != nil {
			opts.Ignore = checker
		}
	}
	return r.fs.renamingService.Execute(ctx, dir, filter, includeSubdirectories, opts)
}

func (r ignoringRenamer) GetMetrics() map[string]interface{} {
	return r.fs.renamingService.GetMetrics()
}
