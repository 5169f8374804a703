package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	orderDispatchJob   *OrderDispatchJob
	courierPresenceJob *CourierPresenceJob
}

func NewJobManager(
	dispatchHandler OrderDispatcher,
	presenceHandler StaleCourierSweeper,
	presenceTTL time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderDispatchJob:   NewOrderDispatchJob(dispatchHandler, logger),
		courierPresenceJob: NewCourierPresenceJob(presenceHandler, presenceTTL, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start order dispatch job: %w", err)
	}

	if err := jm.courierPresenceJob.Start(); err != nil {
		jm.orderDispatchJob.Stop()
		return fmt.Errorf("failed to start courier presence job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs, waiting for running ticks to finish.
func (jm *JobManager) StopAll() {
	jm.courierPresenceJob.Stop()
	jm.orderDispatchJob.Stop()
}
