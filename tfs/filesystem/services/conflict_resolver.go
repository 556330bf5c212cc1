package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
)

const maxCounterAttempts = 9999

// ConflictResolverService picks a free name when a computed name is taken
type ConflictResolverService struct {
	now       func() time.Time
	pathUtils *common.PathUtils
}

// NewConflictResolverService creates a new conflict resolver service
func NewConflictResolverService() *ConflictResolverService {
	return &ConflictResolverService{now: time.Now, pathUtils: common.NewPathUtils()}
}

// WithClock returns a resolver using now for timestamp prefixes.
func (cr *ConflictResolverService) WithClock(now func() time.Time) *ConflictResolverService {
	return &ConflictResolverService{now: now, pathUtils: cr.pathUtils}
}

// DetectConflict returns nil when name is free in scope
func (cr *ConflictResolverService) DetectConflict(scope *types.CollisionScope, name string) *types.ConflictInfo {
	kind, taken := scope.Taken(name)
	if !taken {
		return nil
	}
	return &types.ConflictInfo{Dir: scope.Dir, Name: name, ConflictType: kind}
}

// ResolveConflict resolves a collision using the specified strategy. An empty
// name with a nil error means the file should be left alone.
func (cr *ConflictResolverService) ResolveConflict(ctx context.Context, scope *types.CollisionScope, name string, strategy options.ConflictStrategy) (string, *types.ConflictInfo, error) {
	info := cr.DetectConflict(scope, name)
	if info == nil {
		return name, nil, nil
	}

	var resolved string
	switch strategy {
	case options.ConflictTimestamp, "":
		resolved = cr.resolveByTimestamp(scope, name)
	case options.ConflictCounter:
		resolved = cr.GenerateUniqueFilename(scope, name)
	case options.ConflictSkip:
		resolved = ""
	default:
		return "", info, fmt.Errorf("unknown conflict strategy: %s", strategy)
	}

	info.Resolution = string(strategy)
	info.ResolvedName = resolved
	slog.Debug("Name collision resolved",
		"dir", scope.Dir,
		"name", name,
		"conflict_type", string(info.ConflictType),
		"resolved", resolved)
	return resolved, info, nil
}

// resolveByTimestamp prefixes "(millis) ", bumping the stamp while the result
// is still taken.
func (cr *ConflictResolverService) resolveByTimestamp(scope *types.CollisionScope, name string) string {
	millis := cr.now().UnixMilli()
	for {
		candidate := fmt.Sprintf("(%d) %s", millis, name)
		if _, taken := scope.Taken(candidate); !taken {
			return candidate
		}
		millis++
	}
}

// GenerateUniqueFilename appends "_N" before the extension
func (cr *ConflictResolverService) GenerateUniqueFilename(scope *types.CollisionScope, name string) string {
	base, ext := cr.pathUtils.SplitExtension(name)

	for counter := 1; counter <= maxCounterAttempts; counter++ {
		candidate := cr.pathUtils.JoinExtension(fmt.Sprintf("%s_%d", base, counter), ext)
		if _, taken := scope.Taken(candidate); !taken {
			return candidate
		}
	}
	// Prevent infinite loops
	return cr.pathUtils.JoinExtension(fmt.Sprintf("%s_%d", base, cr.now().UnixNano()), ext)
}

var _ interfaces.ConflictResolver = (*ConflictResolverService)(nil)
