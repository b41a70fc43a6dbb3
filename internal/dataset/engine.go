package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/munistats/internal/fetch"
	"github.com/sells-group/munistats/internal/runlog"
)

// Engine orchestrates dataset runs: scheduling checks, the sync itself, and
// run-log bookkeeping.
type Engine struct {
	client  *fetch.Client
	log     *runlog.Log
	reg     *Registry
	dataDir string
}

// NewEngine creates a new engine.
func NewEngine(client *fetch.Client, log *runlog.Log, reg *Registry, dataDir string) *Engine {
	return &Engine{client: client, log: log, reg: reg, dataDir: dataDir}
}

// Run syncs the named datasets (all registered datasets when names is
// empty). Each dataset's outcome is recorded in the run log; one dataset
// failing does not stop the others.
func (e *Engine) Run(ctx context.Context, names []string, opts RunOpts) error {
	log := zap.L().With(zap.String("component", "dataset.engine"))
	now := time.Now().UTC()

	datasets, err := e.reg.Select(names)
	if err != nil {
		return err
	}

	var synced, skipped, failed int

	for _, ds := range datasets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dsLog := log.With(zap.String("dataset", ds.Name()))

		if !opts.Force {
			lastRun, err := e.log.LastSuccess(ctx, ds.Name())
			if err != nil {
				return eris.Wrapf(err, "engine: check last run for %s", ds.Name())
			}
			if !ds.ShouldRun(now, lastRun) {
				dsLog.Debug("skipping (not due)")
				skipped++
				continue
			}
		}

		dsLog.Info("starting sync")
		runID, err := e.log.Start(ctx, ds.Name())
		if err != nil {
			return eris.Wrapf(err, "engine: start run log for %s", ds.Name())
		}

		start := time.Now()
		result, err := ds.Sync(ctx, e.client, e.dataDir, opts)
		elapsed := time.Since(start)

		if err != nil {
			dsLog.Error("sync failed", zap.Error(err), zap.Duration("elapsed", elapsed))
			if logErr := e.log.Fail(ctx, runID, err.Error()); logErr != nil {
				dsLog.Error("failed to record run failure", zap.Error(logErr))
			}
			failed++
			continue
		}

		if err := e.log.Complete(ctx, runID, result.RowsWritten); err != nil {
			dsLog.Error("failed to record run completion", zap.Error(err))
		}

		dsLog.Info("sync complete",
			zap.Int("collected", result.RowsCollected),
			zap.Int64("rows", result.RowsWritten),
			zap.Duration("elapsed", elapsed),
		)
		synced++
	}

	log.Info("engine run complete",
		zap.Int("synced", synced),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	return nil
}
