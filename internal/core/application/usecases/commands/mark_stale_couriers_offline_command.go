package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// MarkStaleCouriersOfflineCommand takes online couriers that stopped reporting
// their position out of the dispatch pool.
//
// Example:
//
//	cmd, _ := NewMarkStaleCouriersOfflineCommand(5 * time.Minute)
//	handler := NewMarkStaleCouriersOfflineCommandHandler(uowFactory, logger)
//
//	// Run periodically
//	ticker := time.NewTicker(time.Minute)
//	for range ticker.C {
//	    if err := handler.Handle(ctx, cmd); err != nil {
//	        log.Printf("Presence sweep failed: %v", err)
//	    }
//	}
type MarkStaleCouriersOfflineCommand struct {
	ttl   time.Duration
	guard guard.ConstructorGuard
}

var (
	ErrMarkStaleCouriersOfflineCommandIsNotConstructed = errors.New(
		"MarkStaleCouriersOfflineCommand must be created via NewMarkStaleCouriersOfflineCommand constructor",
	)
)

// NewMarkStaleCouriersOfflineCommand creates a sweep for couriers silent for longer than ttl.
func NewMarkStaleCouriersOfflineCommand(ttl time.Duration) (MarkStaleCouriersOfflineCommand, error) {
	if ttl <= 0 {
		return MarkStaleCouriersOfflineCommand{}, errs.NewValueIsInvalidError("ttl")
	}

	return MarkStaleCouriersOfflineCommand{
		ttl:   ttl,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkStaleCouriersOfflineCommandIsNotConstructed if validation fails.
func (c *MarkStaleCouriersOfflineCommand) Validate() error {
	return c.guard.Validate(ErrMarkStaleCouriersOfflineCommandIsNotConstructed)
}

func (c *MarkStaleCouriersOfflineCommand) TTL() time.Duration {
	return c.ttl
}
