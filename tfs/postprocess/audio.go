package postprocess

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/rewrite"
)

// SyncStage names the step of the name/tag synchronization that failed.
type SyncStage string

const (
	SyncStageRead   SyncStage = "read_tags"
	SyncStageRename SyncStage = "rename_from_tags"
	SyncStageWrite  SyncStage = "write_tags"
)

// PartialSyncError reports a name/tag synchronization that stopped halfway.
// The first rename always took effect before ProcessFile ran, so the file
// keeps its name-derived name; TagsWritten tells whether tags changed too.
type PartialSyncError struct {
	Path        string
	Stage       SyncStage
	TagsWritten bool
	Err         error
}

func (e *PartialSyncError) Error() string {
	tags := "tags unwritten"
	if e.TagsWritten {
		tags = "tags written"
	}
	return fmt.Sprintf("tag sync of %s stopped at %s (name changed, %s): %v", e.Path, e.Stage, tags, e.Err)
}

func (e *PartialSyncError) Unwrap() error { return e.Err }

// AudioPostprocessor splits names into artist and title and keeps the file
// name and its embedded tags in step. Existing artist and title tags win over
// the name.
type AudioPostprocessor struct {
	rewriter  *rewrite.TokenRewriter
	stores    TagStores
	resolver  interfaces.ConflictResolver
	fileOps   interfaces.FileOperations
	pathUtils *common.PathUtils
}

// NewAudioPostprocessor wires the audio hook. A nil stores uses the defaults.
func NewAudioPostprocessor(rw *rewrite.TokenRewriter, stores TagStores, resolver interfaces.ConflictResolver, fileOps interfaces.FileOperations) *AudioPostprocessor {
	if stores == nil {
		stores = DefaultTagStores()
	}
	return &AudioPostprocessor{
		rewriter:  rw,
		stores:    stores,
		resolver:  resolver,
		fileOps:   fileOps,
		pathUtils: common.NewPathUtils(),
	}
}

// ProcessFileName rejoins artist and title around a single " - ". Names
// without a usable separator are returned unchanged.
func (a *AudioPostprocessor) ProcessFileName(name string) string {
	left, right, ok := rewrite.SplitOnDash(name, a.rewriter.Exclusions())
	if !ok {
		return name
	}
	return rewrite.JoinHalves(left, right, a.rewriter.Exclusions())
}

// ProcessFile reads the file's tags. With artist and title present the file
// is renamed to "<artist> - <title>.<ext>"; otherwise the name is split and
// written into the tags.
func (a *AudioPostprocessor) ProcessFile(ctx context.Context, fc FileContext) (SyncOutcome, error) {
	file := fc.File
	none := SyncOutcome{Action: ActionNone, Path: file.Path}

	store := a.stores.For(file.Extension)
	if store == nil {
		slog.Debug("No tag store for extension, skipping tag sync",
			"path", file.Path,
			"extension", file.Extension,
			"run_id", fc.RunID)
		return none, nil
	}

	tags, err := store.Read(file.Path)
	if err != nil {
		return none, &PartialSyncError{Path: file.Path, Stage: SyncStageRead, Err: err}
	}

	if tags.HasArtistAndTitle() {
		artist := a.rewriter.Fold(strings.ToLower(tags.Artist))
		title := a.rewriter.Fold(strings.ToLower(tags.Title))
		if artist != "" && title != "" {
			return a.renameFromTags(ctx, fc, artist, title)
		}
	}
	return a.writeFromName(fc, store)
}

func (a *AudioPostprocessor) renameFromTags(ctx context.Context, fc FileContext, artist, title string) (SyncOutcome, error) {
	file := fc.File
	outcome := SyncOutcome{Action: ActionNone, Path: file.Path}

	newName := rewrite.TitleCase(sanitizeName(artist + rewrite.Separator + title))
	newName = a.pathUtils.JoinExtension(newName, file.Extension)
	if newName == filepath.Base(file.Path) {
		return outcome, nil
	}

	if conflict := a.resolver.DetectConflict(fc.Scope, newName); conflict != nil {
		resolved, info, err := a.resolver.ResolveConflict(ctx, fc.Scope, newName, fc.Strategy)
		if err != nil {
			return outcome, &PartialSyncError{Path: file.Path, Stage: SyncStageRename, Err: err}
		}
		if resolved == "" {
			slog.Info("Tag-derived name taken, keeping name-derived name",
				"path", file.Path,
				"wanted", newName,
				"run_id", fc.RunID)
			return outcome, nil
		}
		outcome.Collision = info
		newName = resolved
	}

	newPath := filepath.Join(file.Dir, newName)
	if err := a.fileOps.RenameFile(ctx, file.Path, newPath, false); err != nil {
		return outcome, &PartialSyncError{Path: file.Path, Stage: SyncStageRename, Err: err}
	}

	fc.Result.Replace(file.Path, newPath)
	fc.Scope.Claim(newName)

	outcome.Action = ActionRenamedFromTag
	outcome.Path = newPath
	slog.Debug("Renamed from tags",
		"from", file.Path,
		"to", newPath,
		"run_id", fc.RunID)
	return outcome, nil
}

func (a *AudioPostprocessor) writeFromName(fc FileContext, store TagStore) (SyncOutcome, error) {
	file := fc.File
	base, _ := a.pathUtils.SplitExtension(filepath.Base(file.Path))

	left, right, ok := rewrite.SplitOnDash(base, a.rewriter.Exclusions())
	tags := Tags{Artist: rewrite.StripDashes(left, a.rewriter.Exclusions())}
	if ok {
		tags.Title = rewrite.StripDashes(right, a.rewriter.Exclusions())
	}
	tags.AlbumArtist = tags.Artist

	if err := store.Write(file.Path, tags); err != nil {
		return SyncOutcome{Action: ActionNone, Path: file.Path},
			&PartialSyncError{Path: file.Path, Stage: SyncStageWrite, Err: err}
	}

	slog.Debug("Wrote tags from name",
		"path", file.Path,
		"artist", tags.Artist,
		"title", tags.Title,
		"run_id", fc.RunID)
	return SyncOutcome{Action: ActionTagsWritten, Path: file.Path}, nil
}

// sanitizeName keeps tag values from introducing path separators.
func sanitizeName(s string) string {
	s = strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
