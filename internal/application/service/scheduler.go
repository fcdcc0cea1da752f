package service

// SchedulerService runs the two bot loops on the shared cron scheduler: a
// short-interval notification poll and a once-per-minute dispatch pass.
type SchedulerService interface {
	// Start registers both jobs and launches the scheduler.
	Start() error
	// Stop halts the scheduler and waits for running jobs to finish.
	Stop()
}
