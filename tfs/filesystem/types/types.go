package types

import (
	"sort"
	"strings"
	"time"
)

// Classification is the coarse media type derived from a file extension
type Classification string

const (
	ClassAudio Classification = "AUDIO"
	ClassVideo Classification = "VIDEO"
	ClassImage Classification = "IMAGE"
	ClassText  Classification = "TEXT"
	ClassOther Classification = "OTHER"
)

// Classifications lists every classification in display order.
func Classifications() []Classification {
	return []Classification{ClassAudio, ClassVideo, ClassImage, ClassText, ClassOther}
}

// ParseClassification maps a case-insensitive name to a Classification.
func ParseClassification(s string) (Classification, bool) {
	c := Classification(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Classifications() {
		if c == known {
			return c, true
		}
	}
	return ClassOther, false
}

// RenameResult accumulates the renames of one top-level invocation and its
// recursive sub-invocations.
type RenameResult struct {
	RunID string `json:"run_id"`
	Root  string `json:"root"`
	// Renamed maps new absolute path to original absolute path.
	Renamed map[string]string `json:"renamed"`
	// Duplicated is reserved and never populated.
	Duplicated map[string]string `json:"duplicated"`
	DryRun     bool              `json:"dry_run"`
}

// NewRenameResult creates an empty result for root.
func NewRenameResult(runID, root string) *RenameResult {
	return &RenameResult{
		RunID:      runID,
		Root:       root,
		Renamed:    make(map[string]string),
		Duplicated: make(map[string]string),
	}
}

// Record maps newPath to originalPath.
func (r *RenameResult) Record(newPath, originalPath string) {
	r.Renamed[newPath] = originalPath
}

// Replace moves the entry for oldNewPath to newPath, keeping the file's true
// original. If oldNewPath was never recorded, oldNewPath itself is the original.
func (r *RenameResult) Replace(oldNewPath, newPath string) {
	original, ok := r.Renamed[oldNewPath]
	if !ok {
		original = oldNewPath
	}
	delete(r.Renamed, oldNewPath)
	if newPath != original {
		r.Renamed[newPath] = original
	}
}

// OriginalOf returns the original path recorded for newPath.
func (r *RenameResult) OriginalOf(newPath string) (string, bool) {
	original, ok := r.Renamed[newPath]
	return original, ok
}

// Merge folds a sub-invocation's result into r.
func (r *RenameResult) Merge(sub *RenameResult) {
	if sub == nil {
		return
	}
	for k, v := range sub.Renamed {
		r.Renamed[k] = v
	}
	for k, v := range sub.Duplicated {
		r.Duplicated[k] = v
	}
}

// Len returns the number of renamed files.
func (r *RenameResult) Len() int {
	return len(r.Renamed)
}

// SortedNewPaths returns the renamed paths in lexical order.
func (r *RenameResult) SortedNewPaths() []string {
	paths := make([]string, 0, len(r.Renamed))
	for p := range r.Renamed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// NameSet is the set of file names a directory level must not be renamed onto.
type NameSet map[string]struct{}

// NewNameSet creates a set from names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Add claims name.
func (s NameSet) Add(name string) {
	s[name] = struct{}{}
}

// CollisionScope is the collision state of one directory level: the snapshot
// taken before listing plus the names claimed by renames since.
type CollisionScope struct {
	Dir      string
	Snapshot NameSet
	Claimed  NameSet
}

// NewCollisionScope creates a scope over a snapshot.
func NewCollisionScope(dir string, snapshot NameSet) *CollisionScope {
	if snapshot == nil {
		snapshot = NewNameSet()
	}
	return &CollisionScope{Dir: dir, Snapshot: snapshot, Claimed: NewNameSet()}
}

// Taken reports whether name collides and why.
func (c *CollisionScope) Taken(name string) (ConflictType, bool) {
	if c.Snapshot.Contains(name) {
		return ConflictSnapshot, true
	}
	if c.Claimed.Contains(name) {
		return ConflictClaimed, true
	}
	return "", false
}

// Claim records that a rename now owns name.
func (c *CollisionScope) Claim(name string) {
	c.Claimed.Add(name)
}

// RenamedFile describes a file after the engine renamed it, as handed to a
// postprocessor.
type RenamedFile struct {
	Path           string
	OriginalPath   string
	Dir            string
	Extension      string
	Classification Classification
}

// Event represents a renaming event with metadata
type Event struct {
	Type      EventType              `json:"type"`
	RunID     string                 `json:"run_id"`
	Timestamp time.Time              `json:"timestamp"`
	Path      string                 `json:"path"`
	Operation string                 `json:"operation"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// EventType defines the types of renaming events
type EventType string

const (
	EventFileRenamed       EventType = "file_renamed"
	EventFileFailed        EventType = "file_failed"
	EventCollisionResolved EventType = "collision_resolved"
	EventTagsSynchronized  EventType = "tags_synchronized"
	EventOperationStart    EventType = "operation_start"
	EventOperationEnd      EventType = "operation_end"
)

// ConflictInfo contains information about a resolved name collision
type ConflictInfo struct {
	Dir          string       `json:"dir"`
	Name         string       `json:"name"`
	ConflictType ConflictType `json:"conflict_type"`
	Resolution   string       `json:"resolution,omitempty"`
	ResolvedName string       `json:"resolved_name,omitempty"`
}

// ConflictType defines the types of name collisions
type ConflictType string

const (
	// ConflictSnapshot: the name was present before the invocation listed the directory.
	ConflictSnapshot ConflictType = "snapshot"
	// ConflictClaimed: an earlier rename of the same invocation took the name.
	ConflictClaimed ConflictType = "claimed"
)

// BatchOutcome is the result of one invocation run by the batch runner.
type BatchOutcome struct {
	Index    int           `json:"index"`
	Dir      string        `json:"dir"`
	Result   *RenameResult `json:"result,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}
