package interfaces

import (
	"context"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
)

// Filter decides which directory entries an invocation sees
type Filter interface {
	Accepts(name string, isDir bool) bool
	AcceptsDirectories() bool
}

// RenamingService defines the top-level renaming operation
type RenamingService interface {
	Execute(ctx context.Context, dir string, filter Filter, includeSubdirectories bool, opts options.RenameOptions) (*types.RenameResult, error)
	GetMetrics() map[string]interface{}
}

// ConflictResolver defines name collision resolution strategies
type ConflictResolver interface {
	// DetectConflict returns nil when name is free in scope.
	DetectConflict(scope *types.CollisionScope, name string) *types.ConflictInfo
	// ResolveConflict returns a free name, or "" when the strategy skips the file.
	ResolveConflict(ctx context.Context, scope *types.CollisionScope, name string, strategy options.ConflictStrategy) (string, *types.ConflictInfo, error)
	GenerateUniqueFilename(scope *types.CollisionScope, name string) string
}

// FileOperations defines the file mutations the renamer performs
type FileOperations interface {
	RenameFile(ctx context.Context, srcPath, dstPath string, dryRun bool) error
	GetMetrics() map[string]interface{}
}

// BatchRunner runs independent top-level invocations through a bounded pool
type BatchRunner interface {
	Run(ctx context.Context, dirs []string, opts options.BatchOptions) ([]types.BatchOutcome, error)
}
