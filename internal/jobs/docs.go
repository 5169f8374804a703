// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// 1. OrderDispatchJob - Runs every second, offering waiting orders to the nearest free courier
// 2. CourierPresenceJob - Runs every 30 seconds, taking silent couriers out of the dispatch pool
//
// # Usage
//
//	jobManager := jobs.NewJobManager(dispatchHandler, presenceHandler, presenceTTL, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Dispatch treats "no order waiting" and "no courier free" as a quiet tick
// - Presence logs every failure; the next tick retries
// - Failed job starts will stop any already running jobs
package jobs
