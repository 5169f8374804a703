package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type StaleCourierSweeper interface {
	Handle(ctx context.Context, cmd commands.MarkStaleCouriersOfflineCommand) (int, error)
}

// CourierPresenceJob marks couriers offline once their last position report
// is older than the TTL.
type CourierPresenceJob struct {
	handler StaleCourierSweeper
	ttl     time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewCourierPresenceJob(handler StaleCourierSweeper, ttl time.Duration, logger *slog.Logger) *CourierPresenceJob {
	return &CourierPresenceJob{
		handler: handler,
		ttl:     ttl,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "courier_presence_job"),
	}
}

// Start begins the presence sweep to run every 30 seconds.
func (j *CourierPresenceJob) Start() error {
	if _, err := commands.NewMarkStaleCouriersOfflineCommand(j.ttl); err != nil {
		return err
	}

	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Courier presence job started (running every 30 seconds)", "ttl", j.ttl)
	return nil
}

// RunOnce performs one sweep.
func (j *CourierPresenceJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewMarkStaleCouriersOfflineCommand(j.ttl)
	if err != nil {
		j.logger.ErrorContext(ctx, "Courier presence job misconfigured", "error", err)
		return
	}

	marked, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Courier presence job failed", "error", err)
		return
	}
	if marked > 0 {
		j.logger.InfoContext(ctx, "Couriers marked offline", "count", marked)
	}
}

// Stop stops the presence job.
func (j *CourierPresenceJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Courier presence job stopped")
}
