// Package postprocess holds the per-classification hooks that run after the
// generic token rewrite: a pure name rewrite before the rename, and an
// optional file-level step after it.
package postprocess

import (
	"context"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
)

// SyncAction names what ProcessFile did.
type SyncAction string

const (
	ActionNone           SyncAction = "none"
	ActionRenamedFromTag SyncAction = "renamed_from_tags"
	ActionTagsWritten    SyncAction = "tags_written"
)

// FileContext is handed to ProcessFile for one renamed file. Result and Scope
// belong to the directory level being processed.
type FileContext struct {
	RunID    string
	File     types.RenamedFile
	Result   *types.RenameResult
	Scope    *types.CollisionScope
	Strategy options.ConflictStrategy
}

// SyncOutcome reports the effect of ProcessFile.
type SyncOutcome struct {
	Action SyncAction
	// Path is the file's path after processing.
	Path string
	// Collision is set when the tag-derived name had to be disambiguated.
	Collision *types.ConflictInfo
}

// Postprocessor is the per-classification hook.
type Postprocessor interface {
	// ProcessFileName rewrites a normalized base name. It must not touch disk.
	ProcessFileName(name string) string
	// ProcessFile runs after the file was renamed. It may rename the file again
	// and must keep Result in step when it does.
	ProcessFile(ctx context.Context, fc FileContext) (SyncOutcome, error)
}

// Identity leaves names and files alone.
type Identity struct{}

func (Identity) ProcessFileName(name string) string { return name }

func (Identity) ProcessFile(_ context.Context, fc FileContext) (SyncOutcome, error) {
	return SyncOutcome{Action: ActionNone, Path: fc.File.Path}, nil
}

// Registry resolves a classification to its postprocessor.
type Registry map[types.Classification]Postprocessor

// For returns the postprocessor registered for c, or Identity.
func (r Registry) For(c types.Classification) Postprocessor {
	if p, ok := r[c]; ok && p != nil {
		return p
	}
	return Identity{}
}

var (
	_ Postprocessor = Identity{}
	_ Postprocessor = (*AudioPostprocessor)(nil)
)
