package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Common error types used across filesystem packages
var (
	ErrPathEmpty         = errors.New("path cannot be empty")
	ErrPathTooLong       = errors.New("path too long (max 4096 characters)")
	ErrPathInvalid       = errors.New("path contains invalid characters")
	ErrSourceNotExist    = errors.New("source does not exist")
	ErrNotDirectory      = errors.New("path is not a directory")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrEmptyName         = errors.New("normalized name is empty")
	ErrStripBoundReached = errors.New("leading-noise strip exceeded its iteration bound")
	ErrDestinationExists = errors.New("destination already exists")
)

// ConfigurationError reports an invalid invocation target. It is fatal and
// raised before any traversal starts.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid target directory %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// CatalogLoadError reports a catalog source that exists but cannot be used.
type CatalogLoadError struct {
	Source string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("malformed catalog source %s: %v", e.Source, e.Err)
}

func (e *CatalogLoadError) Unwrap() error { return e.Err }

// Stage names the step of the per-file pipeline in which a PerFileError occurred.
type Stage string

const (
	StageAccess      Stage = "access"
	StageRewrite     Stage = "rewrite"
	StageRename      Stage = "rename"
	StagePostprocess Stage = "postprocess"
)

// PerFileError is recovered locally by the engine: logged, file skipped,
// traversal continues.
type PerFileError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *PerFileError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *PerFileError) Unwrap() error { return e.Err }

// NewPerFileError wraps err for path, leaving nil untouched.
func NewPerFileError(path string, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &PerFileError{Path: path, Stage: stage, Err: err}
}

// ValidationUtils provides common validation utilities used across packages
type ValidationUtils struct{}

// NewValidationUtils creates a new ValidationUtils instance
func NewValidationUtils() *ValidationUtils {
	return &ValidationUtils{}
}

// ValidateContextCancellation checks if context is cancelled and returns appropriate error
func (vu *ValidationUtils) ValidateContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// ValidatePath validates emptiness, length and characters of a path
func (vu *ValidationUtils) ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrPathEmpty
	}
	if len(path) > 4096 {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return ErrPathInvalid
	}
	return nil
}

// ValidateDirectoryExists validates that a directory exists
func (vu *ValidationUtils) ValidateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrSourceNotExist
		}
		return fmt.Errorf("failed to access directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	return nil
}

// ValidateTargetDirectory runs every check an invocation target needs and
// reports failures as a ConfigurationError.
func (vu *ValidationUtils) ValidateTargetDirectory(path string) error {
	if err := vu.ValidatePath(path); err != nil {
		return &ConfigurationError{Path: path, Err: err}
	}
	if err := vu.ValidateDirectoryExists(path); err != nil {
		return &ConfigurationError{Path: path, Err: err}
	}
	return nil
}

// ErrorUtils provides common error handling utilities
type ErrorUtils struct{}

// NewErrorUtils creates a new ErrorUtils instance
func NewErrorUtils() *ErrorUtils {
	return &ErrorUtils{}
}

// WrapError wraps an error with additional context
func (eu *ErrorUtils) WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	context := fmt.Sprintf(message, args...)
	return fmt.Errorf("%s: %w", context, err)
}

// LogPerFileError logs a recovered per-file failure with its stage and run.
func (eu *ErrorUtils) LogPerFileError(runID string, err error) {
	var pfe *PerFileError
	if errors.As(err, &pfe) {
		slog.Error("File skipped",
			"run_id", runID,
			"path", pfe.Path,
			"stage", string(pfe.Stage),
			"error", pfe.Err)
		return
	}
	slog.Error("File skipped", "run_id", runID, "error", err)
}

// IsFatal reports whether err must abort an invocation instead of being
// recovered per file.
func (eu *ErrorUtils) IsFatal(err error) bool {
	var cfgErr *ConfigurationError
	var catErr *CatalogLoadError
	return errors.As(err, &cfgErr) || errors.As(err, &catErr)
}
