// Package jobs provides scheduled background tasks for the field service
// system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operational reporting.
//
// # Available Jobs
//
// 1. StaleSessionJob - Runs every five minutes to flag work sessions left open past a maximum age
// 2. OverdueOrderJob - Runs hourly to flag non-terminal orders whose due date has passed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required readers
//	jobManager := jobs.NewJobManager(reportingReader, reportingReader, maxAge, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both jobs are read-only: they never mutate orders or sessions, only log
// what they find. Scan errors are logged and the job waits for its next
// tick. Failed job starts will stop any already running jobs.
package jobs
