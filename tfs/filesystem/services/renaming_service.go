package services

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/directory"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
	"github.com/ZanzyTHEbar/tidyfs/tfs/postprocess"
	"github.com/ZanzyTHEbar/tidyfs/tfs/rewrite"

	"github.com/google/uuid"
)

// RenamingService walks a directory tree and normalizes file names
type RenamingService struct {
	rewriter        *rewrite.TokenRewriter
	registry        postprocess.Registry
	conflictMgr     interfaces.ConflictResolver
	fileOps         interfaces.FileOperations
	access          common.AccessChecker
	metrics         *common.RenameMetrics
	pathUtils       *common.PathUtils
	validationUtils *common.ValidationUtils
	errorUtils      *common.ErrorUtils
	eventHandlers   []func(types.Event)
	mu              sync.RWMutex
}

// NewRenamingService creates a new renaming service. The catalogs behind
// rewriter and registry must not change while the service is in use.
func NewRenamingService(
	rewriter *rewrite.TokenRewriter,
	registry postprocess.Registry,
	conflictMgr interfaces.ConflictResolver,
	fileOps interfaces.FileOperations,
) *RenamingService {
	if registry == nil {
		registry = postprocess.Registry{}
	}
	return &RenamingService{
		rewriter:        rewriter,
		registry:        registry,
		conflictMgr:     conflictMgr,
		fileOps:         fileOps,
		access:          common.NewAccessChecker(),
		metrics:         &common.RenameMetrics{},
		pathUtils:       common.NewPathUtils(),
		validationUtils: common.NewValidationUtils(),
		errorUtils:      common.NewErrorUtils(),
		eventHandlers:   make([]func(types.Event), 0),
	}
}

// SetAccessChecker replaces the readable/writable check.
func (rs *RenamingService) SetAccessChecker(ac common.AccessChecker) {
	rs.access = ac
}

// run carries the immutable state of one top-level invocation.
type run struct {
	id             string
	rewriter       *rewrite.TokenRewriter
	filter         interfaces.Filter
	includeSubdirs bool
	opts           options.RenameOptions
}

// Execute normalizes the names of the entries of dir accepted by filter and,
// when includeSubdirectories is set, of every subdirectory, hidden ones
// included. Hidden files themselves are never renamed. A nil
// filter accepts every known extension. Only an invalid target fails the
// call; per-file problems are logged and skipped.
func (rs *RenamingService) Execute(ctx context.Context, dir string, filter interfaces.Filter, includeSubdirectories bool, opts options.RenameOptions) (*types.RenameResult, error) {
	start := time.Now()
	if err := rs.validationUtils.ValidateContextCancellation(ctx); err != nil {
		return nil, err
	}

	view, err := directory.NewView(dir)
	if err != nil {
		return nil, err
	}
	if opts.Ignore != nil {
		view = view.WithIgnore(view.Path(), opts.Ignore)
	}

	if filter == nil {
		filter = directory.AllAcceptedFilter(includeSubdirectories)
	} else {
		filter = directory.WithDirectories(filter, includeSubdirectories)
	}
	rewriter := rs.rewriter
	if opts.MaxStripIterations > 0 {
		rewriter = rewriter.WithMaxStrip(opts.MaxStripIterations)
	}

	r := &run{
		id:             uuid.NewString(),
		rewriter:       rewriter,
		filter:         filter,
		includeSubdirs: includeSubdirectories,
		opts:           opts,
	}

	slog.Info("Starting rename",
		"run_id", r.id,
		"dir", view.Path(),
		"recursive", includeSubdirectories,
		"dry_run", opts.DryRun,
		"strategy", string(opts.Conflict))
	rs.emitEvent(r, types.Event{
		Type:      types.EventOperationStart,
		Path:      view.Path(),
		Operation: "rename",
		Success:   true,
		Metadata:  map[string]interface{}{"recursive": includeSubdirectories, "dry_run": opts.DryRun},
	})

	// The walk itself is not cancellable: once started it runs to completion.
	result, err := rs.executeLevel(context.WithoutCancel(ctx), r, view)
	if err != nil {
		return nil, &common.ConfigurationError{Path: dir, Err: err}
	}
	result.DryRun = opts.DryRun

	rs.metrics.RecordInvocation(start)
	slog.Info("Rename completed",
		"run_id", r.id,
		"dir", view.Path(),
		"renamed", result.Len(),
		"duration", time.Since(start))
	rs.emitEvent(r, types.Event{
		Type:      types.EventOperationEnd,
		Path:      view.Path(),
		Operation: "rename",
		Success:   true,
		Metadata:  map[string]interface{}{"renamed": result.Len(), "duration": time.Since(start).String()},
	})
	return result, nil
}

// executeLevel processes one directory and returns its own result, with the
// results of its subdirectories merged in.
func (rs *RenamingService) executeLevel(ctx context.Context, r *run, view *directory.View) (*types.RenameResult, error) {
	result := types.NewRenameResult(r.id, view.Path())

	snapshot, err := view.Names()
	if err != nil {
		return nil, err
	}
	scope := types.NewCollisionScope(view.Path(), snapshot)

	entries, err := view.Listing(r.filter)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			rs.descend(ctx, r, view, entry, result)
			continue
		}
		if err := rs.processEntry(ctx, r, entry, scope, result); err != nil {
			rs.recordFailure(r, entry.Path, err)
		}
	}
	return result, nil
}

func (rs *RenamingService) descend(ctx context.Context, r *run, view *directory.View, entry directory.Entry, result *types.RenameResult) {
	if !r.includeSubdirs {
		return
	}
	sub, err := view.Sub(entry.Path)
	if err != nil {
		rs.recordFailure(r, entry.Path, common.NewPerFileError(entry.Path, common.StageAccess, err))
		return
	}
	subResult, err := rs.executeLevel(ctx, r, sub)
	if err != nil {
		rs.recordFailure(r, entry.Path, common.NewPerFileError(entry.Path, common.StageAccess, err))
		return
	}
	result.Merge(subResult)
}

// processEntry runs the rename pipeline for one file.
func (rs *RenamingService) processEntry(ctx context.Context, r *run, entry directory.Entry, scope *types.CollisionScope, result *types.RenameResult) error {
	if rs.pathUtils.IsHidden(entry.Name) {
		rs.metrics.RecordSkipped()
		return nil
	}
	if !rs.access.CanReadWrite(entry.Path, entry.Info) {
		slog.Debug("Skipping inaccessible file", "run_id", r.id, "path", entry.Path)
		rs.metrics.RecordSkipped()
		return nil
	}

	base, ext := rs.pathUtils.SplitExtension(strings.ToLower(strings.TrimSpace(entry.Name)))
	class := directory.Classify(ext)
	pp := rs.registry.For(class)

	rewritten, err := r.rewriter.Rewrite(base)
	if err != nil {
		return common.NewPerFileError(entry.Path, common.StageRewrite, err)
	}
	name := strings.TrimSpace(pp.ProcessFileName(rewritten))
	if name == "" {
		slog.Debug("Normalized name is empty, leaving file alone", "run_id", r.id, "path", entry.Path)
		rs.metrics.RecordSkipped()
		return nil
	}

	newName := rs.finalName(name, ext)
	if newName == entry.Name {
		rs.metrics.RecordUnchanged()
		return nil
	}

	if conflict := rs.conflictMgr.DetectConflict(scope, newName); conflict != nil {
		resolved, info, err := rs.conflictMgr.ResolveConflict(ctx, scope, newName, r.opts.Conflict)
		if err != nil {
			return common.NewPerFileError(entry.Path, common.StageRename, err)
		}
		rs.metrics.RecordCollision()
		rs.emitEvent(r, types.Event{
			Type:      types.EventCollisionResolved,
			Path:      entry.Path,
			Operation: "resolve_collision",
			Success:   resolved != "",
			Metadata:  map[string]interface{}{"conflict": info},
		})
		if resolved == "" {
			rs.metrics.RecordSkipped()
			return nil
		}
		newName = resolved
	}

	newPath := filepath.Join(scope.Dir, newName)
	if err := rs.fileOps.RenameFile(ctx, entry.Path, newPath, r.opts.DryRun); err != nil {
		return common.NewPerFileError(entry.Path, common.StageRename, err)
	}
	result.Record(newPath, entry.Path)
	scope.Claim(newName)
	rs.metrics.RecordRenamed()
	rs.emitEvent(r, types.Event{
		Type:      types.EventFileRenamed,
		Path:      entry.Path,
		Operation: "rename",
		Success:   true,
		Metadata:  map[string]interface{}{"new_path": newPath, "classification": string(class), "dry_run": r.opts.DryRun},
	})

	if !r.opts.SyncAudioTags || r.opts.DryRun {
		return nil
	}

	outcome, err := pp.ProcessFile(ctx, postprocess.FileContext{
		RunID: r.id,
		File: types.RenamedFile{
			Path:           newPath,
			OriginalPath:   entry.Path,
			Dir:            scope.Dir,
			Extension:      ext,
			Classification: class,
		},
		Result:   result,
		Scope:    scope,
		Strategy: r.opts.Conflict,
	})
	if err != nil {
		return common.NewPerFileError(newPath, common.StagePostprocess, err)
	}
	if outcome.Collision != nil {
		rs.metrics.RecordCollision()
	}
	if outcome.Action != postprocess.ActionNone {
		rs.metrics.RecordTagSync()
		rs.emitEvent(r, types.Event{
			Type:      types.EventTagsSynchronized,
			Path:      outcome.Path,
			Operation: string(outcome.Action),
			Success:   true,
		})
	}
	return nil
}

// finalName reassembles name.ext, decodes markup entities and title-cases the
// result.
func (rs *RenamingService) finalName(name, ext string) string {
	full := rewrite.UnescapeXML(rs.pathUtils.JoinExtension(name, ext))
	full = strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(full)
	return rewrite.TitleCase(full)
}

func (rs *RenamingService) recordFailure(r *run, path string, err error) {
	rs.errorUtils.LogPerFileError(r.id, err)
	rs.metrics.RecordFailed()

	var pfe *common.PerFileError
	stage := ""
	if errors.As(err, &pfe) {
		stage = string(pfe.Stage)
	}
	rs.emitEvent(r, types.Event{
		Type:      types.EventFileFailed,
		Path:      path,
		Operation: "rename",
		Success:   false,
		Error:     err.Error(),
		Metadata:  map[string]interface{}{"stage": stage},
	})
}

// GetMetrics returns renaming metrics together with file operation metrics
func (rs *RenamingService) GetMetrics() map[string]interface{} {
	metrics := rs.metrics.GetMetrics()
	if rs.fileOps != nil {
		metrics["file_ops"] = rs.fileOps.GetMetrics()
	}
	return metrics
}

// RegisterEventHandler registers an event handler for renaming events
func (rs *RenamingService) RegisterEventHandler(handler func(types.Event)) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.eventHandlers = append(rs.eventHandlers, handler)
}

// emitEvent delivers an event synchronously to the registered handlers and
// the invocation's callback. Handlers must not block.
func (rs *RenamingService) emitEvent(r *run, event types.Event) {
	event.RunID = r.id
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	rs.mu.RLock()
	handlers := make([]func(types.Event), len(rs.eventHandlers))
	copy(handlers, rs.eventHandlers)
	rs.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
	if r.opts.EventCallback != nil {
		r.opts.EventCallback(event)
	}
}

var _ interfaces.RenamingService = (*RenamingService)(nil)
