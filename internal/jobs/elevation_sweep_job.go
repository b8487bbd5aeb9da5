package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ElevationSweepJobName is the name of the expired session sweep job
const ElevationSweepJobName = "elevation_sweep"

// sweepTimeout bounds a single sweep run
const sweepTimeout = 30 * time.Second

// ElevationSweeper closes elevated admin sessions whose expiry has passed.
// This interface allows the job to call the service without importing the
// service package directly.
type ElevationSweeper interface {
	SweepExpired(ctx context.Context) error
}

// ElevationSweepJob periodically closes expired elevation sessions so that
// stale sessions cannot be picked up by a later status check.
type ElevationSweepJob struct {
	sweeper ElevationSweeper
	logger  *zap.Logger
}

// NewElevationSweepJob creates a new elevation sweep job.
func NewElevationSweepJob(sweeper ElevationSweeper, logger *zap.Logger) *ElevationSweepJob {
	return &ElevationSweepJob{
		sweeper: sweeper,
		logger:  logger,
	}
}

// Run executes one sweep. Called by the scheduler.
func (j *ElevationSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	if err := j.sweeper.SweepExpired(ctx); err != nil {
		j.logger.Error("elevation sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
}

// RegisterElevationSweepJob registers the sweep with the scheduler at the
// given interval. One sweep runs immediately so sessions that expired while
// the API was down are closed at startup.
func RegisterElevationSweepJob(scheduler *Scheduler, sweeper ElevationSweeper, logger *zap.Logger, interval time.Duration) error {
	job := NewElevationSweepJob(sweeper, logger)

	go job.Run()

	return scheduler.AddJob(ElevationSweepJobName, fmt.Sprintf("@every %s", interval), job.Run)
}
