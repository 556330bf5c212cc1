package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/directory"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"

	"github.com/sourcegraph/conc/pool"
)

// BatchRunnerService runs independent top-level invocations through a
// bounded worker pool. Invocations over overlapping trees are not
// coordinated.
type BatchRunnerService struct {
	renamer interfaces.RenamingService
}

// NewBatchRunnerService creates a batch runner over renamer
func NewBatchRunnerService(renamer interfaces.RenamingService) *BatchRunnerService {
	return &BatchRunnerService{renamer: renamer}
}

// Run executes one invocation per directory. Outcomes are returned in the
// order of dirs; the error joins every failed invocation.
func (br *BatchRunnerService) Run(ctx context.Context, dirs []string, opts options.BatchOptions) ([]types.BatchOutcome, error) {
	filter, err := FilterFor(opts.Extensions, opts.IncludeSubdirectories)
	if err != nil {
		return nil, err
	}

	workers := opts.WorkerCount
	if workers <= 0 {
		workers = options.DefaultBatchOptions().WorkerCount
	}

	slog.Info("Starting batch", "dirs", len(dirs), "workers", workers)

	p := pool.NewWithResults[types.BatchOutcome]().WithMaxGoroutines(workers).WithContext(ctx)
	for i, dir := range dirs {
		p.Go(func(ctx context.Context) (types.BatchOutcome, error) {
			start := time.Now()
			result, err := br.renamer.Execute(ctx, dir, filter, opts.IncludeSubdirectories, opts.Rename)
			// Failures travel in the outcome so one bad directory does not
			// cancel the others.
			return types.BatchOutcome{
				Index:    i,
				Dir:      dir,
				Result:   result,
				Err:      err,
				Duration: time.Since(start),
			}, nil
		})
	}

	outcomes, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("batch pool failed: %w", err)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			slog.Error("Batch invocation failed", "dir", o.Dir, "error", o.Err)
			errs = append(errs, fmt.Errorf("%s: %w", o.Dir, o.Err))
		}
	}
	return outcomes, errors.Join(errs...)
}

// FilterFor builds the filter for a list of extensions. An empty list means
// nil, which the renamer treats as every known extension.
func FilterFor(extensions []string, includeSubdirectories bool) (interfaces.Filter, error) {
	if len(extensions) == 0 {
		return nil, nil
	}
	f, err := directory.NewExtensionFilter("Selected extensions", includeSubdirectories, extensions...)
	if err != nil {
		return nil, err
	}
	return f, nil
}

var _ interfaces.BatchRunner = (*BatchRunnerService)(nil)
