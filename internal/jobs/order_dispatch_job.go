package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// maxDispatchesPerTick bounds how many orders one tick may offer.
const maxDispatchesPerTick = 50

type OrderDispatcher interface {
	Handle(ctx context.Context, command commands.DispatchOrderCommand) error
}

// OrderDispatchJob offers waiting orders to couriers. Each tick keeps
// dispatching until no order is waiting or no courier is free.
type OrderDispatchJob struct {
	handler OrderDispatcher
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewOrderDispatchJob(handler OrderDispatcher, logger *slog.Logger) *OrderDispatchJob {
	return &OrderDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "order_dispatch_job"),
	}
}

// Start begins the dispatch job to run every second.
func (j *OrderDispatchJob) Start() error {
	_, err := j.cron.AddJob("* * * * * *", cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).
		Then(cron.FuncJob(func() { j.RunOnce(context.Background()) })))
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order dispatch job started (running every second)")
	return nil
}

// RunOnce performs one tick and returns how many orders were offered.
func (j *OrderDispatchJob) RunOnce(ctx context.Context) int {
	dispatched := 0
	for dispatched < maxDispatchesPerTick {
		err := j.handler.Handle(ctx, commands.NewDispatchOrderCommand())
		switch {
		case err == nil:
			dispatched++
		case errors.Is(err, commands.ErrNoOrderFound), errors.Is(err, commands.ErrNoFreeCouriersFound):
			return dispatched
		default:
			j.logger.ErrorContext(ctx, "Order dispatch job failed", "error", err)
			return dispatched
		}
	}
	return dispatched
}

// Stop stops the dispatch job.
func (j *OrderDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order dispatch job stopped")
}
