package options

import (
	"fmt"
	"strings"

	internal "github.com/ZanzyTHEbar/tidyfs/tfs"
	"github.com/ZanzyTHEbar/tidyfs/tfs/config"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
)

// ConflictStrategy defines how to handle a computed name that is already taken
type ConflictStrategy string

const (
	ConflictTimestamp ConflictStrategy = "timestamp" // "(millis) name.ext"
	ConflictCounter   ConflictStrategy = "counter"   // "name_1.ext"
	ConflictSkip      ConflictStrategy = "skip"      // leave the file as it is
)

// ParseConflictStrategy maps a config value to a ConflictStrategy.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case ConflictTimestamp, "":
		return ConflictTimestamp, nil
	case ConflictCounter:
		return ConflictCounter, nil
	case ConflictSkip:
		return ConflictSkip, nil
	default:
		return "", fmt.Errorf("unknown conflict strategy: %s", s)
	}
}

// IgnoreChecker matches paths relative to the invocation root
type IgnoreChecker interface {
	MatchesPath(path string) bool
}

// RenameOptions configures one top-level renaming invocation
type RenameOptions struct {
	DryRun             bool             // Compute names without touching files or tags
	Conflict           ConflictStrategy // How to handle name collisions
	SyncAudioTags      bool             // Run processFile for audio after a rename
	MaxStripIterations int              // Bound of the leading-noise strip loop
	Ignore             IgnoreChecker    // Optional ignore patterns, nil for none
	EventCallback      func(types.Event)
}

// BatchOptions configures concurrent top-level invocations
type BatchOptions struct {
	Rename                RenameOptions
	Extensions            []string // Empty means every known extension
	IncludeSubdirectories bool
	WorkerCount           int // Number of concurrent invocations
}

// DefaultRenameOptions returns sensible defaults for renaming
func DefaultRenameOptions() RenameOptions {
	return RenameOptions{
		DryRun:             false,
		Conflict:           ConflictTimestamp,
		SyncAudioTags:      true,
		MaxStripIterations: internal.DefaultMaxStripIterations,
	}
}

// DefaultBatchOptions returns sensible defaults for batch runs
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Rename:      DefaultRenameOptions(),
		WorkerCount: internal.DefaultWorkerCount,
	}
}

// FromConfig builds batch options from the renamer section of the configuration.
func FromConfig(cfg *config.RenamerConfig) (BatchOptions, error) {
	strategy, err := ParseConflictStrategy(cfg.CollisionStrategy)
	if err != nil {
		return BatchOptions{}, err
	}

	opts := DefaultBatchOptions()
	opts.Rename.DryRun = cfg.DryRun
	opts.Rename.Conflict = strategy
	opts.Rename.SyncAudioTags = cfg.SyncAudioTags
	if cfg.MaxStripIterations > 0 {
		opts.Rename.MaxStripIterations = cfg.MaxStripIterations
	}
	if cfg.WorkerCount > 0 {
		opts.WorkerCount = cfg.WorkerCount
	}
	opts.Extensions = append([]string(nil), cfg.Extensions...)
	opts.IncludeSubdirectories = cfg.IncludeSubdirectories
	return opts, nil
}
