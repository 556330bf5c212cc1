package common

import (
	"fmt"
	"sync"
	"time"
)

// BaseMetrics provides common fields used across different metrics types
type BaseMetrics struct {
	TotalOperations int64
	SuccessfulOps   int64
	FailedOps       int64
	LastOperation   time.Time
	Mu              sync.RWMutex
}

// UpdateBaseMetrics updates common metrics fields
func (bm *BaseMetrics) UpdateBaseMetrics(success bool) {
	bm.Mu.Lock()
	defer bm.Mu.Unlock()

	bm.TotalOperations++
	if success {
		bm.SuccessfulOps++
	} else {
		bm.FailedOps++
	}
	bm.LastOperation = time.Now()
}

// GetBaseMetrics returns the common metrics as a map
func (bm *BaseMetrics) GetBaseMetrics() map[string]interface{} {
	bm.Mu.RLock()
	defer bm.Mu.RUnlock()

	return map[string]interface{}{
		"total_operations": bm.TotalOperations,
		"successful_ops":   bm.SuccessfulOps,
		"failed_ops":       bm.FailedOps,
		"last_operation":   bm.LastOperation,
	}
}

// RenameMetrics tracks what the renaming engine did across invocations.
// Failures live here and in the logs only; RenameResult never carries them.
type RenameMetrics struct {
	BaseMetrics
	Invocations int64
	Renamed     int64
	Unchanged   int64
	Skipped     int64
	Collisions  int64
	TagSyncs    int64
	AverageTime time.Duration
}

// RecordInvocation folds the duration of one top-level invocation into the
// rolling average.
func (rm *RenameMetrics) RecordInvocation(start time.Time) {
	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	rm.Invocations++
	duration := time.Since(start)
	if rm.Invocations == 1 {
		rm.AverageTime = duration
	} else {
		rm.AverageTime = (rm.AverageTime*time.Duration(rm.Invocations-1) + duration) / time.Duration(rm.Invocations)
	}
}

// RecordRenamed counts a successful rename.
func (rm *RenameMetrics) RecordRenamed() {
	rm.UpdateBaseMetrics(true)
	rm.Mu.Lock()
	rm.Renamed++
	rm.Mu.Unlock()
}

// RecordUnchanged counts a file whose name was already normalized.
func (rm *RenameMetrics) RecordUnchanged() {
	rm.UpdateBaseMetrics(true)
	rm.Mu.Lock()
	rm.Unchanged++
	rm.Mu.Unlock()
}

// RecordSkipped counts a file that was not eligible (hidden, inaccessible, empty name).
func (rm *RenameMetrics) RecordSkipped() {
	rm.Mu.Lock()
	rm.Skipped++
	rm.Mu.Unlock()
}

// RecordFailed counts a per-file failure.
func (rm *RenameMetrics) RecordFailed() {
	rm.UpdateBaseMetrics(false)
}

// RecordCollision counts a resolved collision.
func (rm *RenameMetrics) RecordCollision() {
	rm.Mu.Lock()
	rm.Collisions++
	rm.Mu.Unlock()
}

// RecordTagSync counts a completed name/tag synchronization.
func (rm *RenameMetrics) RecordTagSync() {
	rm.Mu.Lock()
	rm.TagSyncs++
	rm.Mu.Unlock()
}

// GetMetrics returns rename metrics as a map
func (rm *RenameMetrics) GetMetrics() map[string]interface{} {
	metrics := rm.GetBaseMetrics()
	rm.Mu.RLock()
	defer rm.Mu.RUnlock()

	metrics["invocations"] = rm.Invocations
	metrics["renamed"] = rm.Renamed
	metrics["unchanged"] = rm.Unchanged
	metrics["skipped"] = rm.Skipped
	metrics["collisions"] = rm.Collisions
	metrics["tag_syncs"] = rm.TagSyncs
	metrics["average_time"] = rm.AverageTime
	return metrics
}

// FileOperationMetrics tracks performance for file operations
type FileOperationMetrics struct {
	BaseMetrics
	DryRunOps int64
}

// UpdateMetrics updates file operation metrics
func (fom *FileOperationMetrics) UpdateMetrics(success, dryRun bool) {
	fom.UpdateBaseMetrics(success)
	if dryRun {
		fom.Mu.Lock()
		fom.DryRunOps++
		fom.Mu.Unlock()
	}
}

// GetMetrics returns file operation metrics as a map
func (fom *FileOperationMetrics) GetMetrics() map[string]interface{} {
	metrics := fom.GetBaseMetrics()
	fom.Mu.RLock()
	defer fom.Mu.RUnlock()
	metrics["dry_run_ops"] = fom.DryRunOps
	return metrics
}

// TimeUtils provides time-related utilities used across packages
type TimeUtils struct{}

// NewTimeUtils creates a new TimeUtils instance
func NewTimeUtils() *TimeUtils {
	return &TimeUtils{}
}

// FormatDuration formats a duration for human-readable display
func (tu TimeUtils) FormatDuration(duration time.Duration) string {
	switch {
	case duration < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(duration.Nanoseconds())/1000)
	case duration < time.Second:
		return fmt.Sprintf("%.2fms", float64(duration.Nanoseconds())/1000000)
	case duration < time.Minute:
		return fmt.Sprintf("%.2fs", duration.Seconds())
	case duration < time.Hour:
		return fmt.Sprintf("%.2fm", duration.Minutes())
	default:
		return fmt.Sprintf("%.2fh", duration.Hours())
	}
}
