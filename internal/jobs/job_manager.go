package jobs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleSessionJob *StaleSessionJob
	overdueOrderJob *OverdueOrderJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the reporting readers as dependencies to wire up the job execution.
func NewJobManager(
	staleSessionReader StaleSessionReader,
	overdueOrderReader OverdueOrderReader,
	staleSessionMaxAge time.Duration,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		staleSessionJob: NewStaleSessionJob(staleSessionReader, staleSessionMaxAge, logger),
		overdueOrderJob: NewOverdueOrderJob(overdueOrderReader, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleSessionJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale session job: %w", err)
	}

	if err := jm.overdueOrderJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.staleSessionJob.Stop()
		return fmt.Errorf("failed to start overdue order job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueOrderJob.Stop()
	jm.staleSessionJob.Stop()
}
