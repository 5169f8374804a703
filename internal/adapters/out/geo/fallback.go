package geo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// DefaultPrimaryTimeout bounds one routing call.
const DefaultPrimaryTimeout = 3 * time.Second

var _ ports.DistanceProvider = (*FallbackProvider)(nil)

// FallbackProvider asks the primary provider once, under a timeout, and falls
// back to the secondary on any failure. Fallback answers carry Estimated.
type FallbackProvider struct {
	primary  ports.DistanceProvider
	fallback ports.DistanceProvider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewFallbackProvider uses DefaultPrimaryTimeout when timeout is not positive.
func NewFallbackProvider(
	primary, fallback ports.DistanceProvider,
	timeout time.Duration,
	logger *slog.Logger,
) *FallbackProvider {
	if timeout <= 0 {
		timeout = DefaultPrimaryTimeout
	}
	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger.With("component", "distance-provider"),
	}
}

func (p *FallbackProvider) Distance(ctx context.Context, from, to kernel.Location) (ports.Route, error) {
	primaryCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	route, err := p.primary.Distance(primaryCtx, from, to)
	if err == nil {
		return route, nil
	}
	if ctx.Err() != nil {
		return ports.Route{}, ctx.Err()
	}

	reason := "unavailable"
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	metrics.DistanceFallbackTotal.WithLabelValues(reason).Inc()
	p.logger.WarnContext(ctx, "routing provider failed, using straight-line distance",
		"reason", reason,
		"from", from.String(),
		"to", to.String(),
		"error", err,
	)

	route, err = p.fallback.Distance(ctx, from, to)
	if err != nil {
		return ports.Route{}, err
	}
	route.Estimated = true

	return route, nil
}
