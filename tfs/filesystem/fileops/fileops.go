package fileops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
)

// FileOps performs the renames the engine decides on
type FileOps struct {
	metrics         *common.FileOperationMetrics
	validationUtils *common.ValidationUtils
	errorUtils      *common.ErrorUtils
	rename          func(src, dst string) error
}

// NewFileOps creates a new file operations instance backed by os.Rename
func NewFileOps() *FileOps {
	return &FileOps{
		metrics:         &common.FileOperationMetrics{},
		validationUtils: common.NewValidationUtils(),
		errorUtils:      common.NewErrorUtils(),
		rename:          os.Rename,
	}
}

// RenameFile renames srcPath to dstPath. It refuses to replace a different
// existing file; a case-only rename of the same file is allowed. In dry-run
// mode nothing is touched.
func (fo *FileOps) RenameFile(ctx context.Context, srcPath, dstPath string, dryRun bool) (err error) {
	start := time.Now()
	defer func() {
		fo.metrics.UpdateMetrics(err == nil, dryRun)
		slog.Debug("Rename finished", "src", srcPath, "dst", dstPath, "duration", time.Since(start), "error", err)
	}()

	if err := fo.validationUtils.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	for _, p := range []string{srcPath, dstPath} {
		if err := fo.validationUtils.ValidatePath(p); err != nil {
			return fmt.Errorf("invalid path %q: %w", p, err)
		}
	}

	srcInfo, err := os.Lstat(srcPath)
	if err != nil {
		return fmt.Errorf("failed to access source %s: %w", srcPath, err)
	}
	if dstInfo, statErr := os.Lstat(dstPath); statErr == nil && !os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("cannot rename %s: %w: %s", srcPath, common.ErrDestinationExists, dstPath)
	}

	if dryRun {
		slog.Info("Dry run: would rename file", "src", srcPath, "dst", dstPath)
		return nil
	}

	if err := fo.rename(srcPath, dstPath); err != nil {
		return fo.errorUtils.WrapError(err, "failed to rename %s to %s", srcPath, dstPath)
	}
	return nil
}

// GetMetrics returns file operation metrics
func (fo *FileOps) GetMetrics() map[string]interface{} {
	return fo.metrics.GetMetrics()
}

var _ interfaces.FileOperations = (*FileOps)(nil)
