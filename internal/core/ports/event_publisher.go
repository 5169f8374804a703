package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderEventPublisher announces committed audit entries to other systems.
// Publishing happens after commit and is best effort; a failure never undoes
// the change it reports.
type OrderEventPublisher interface {
	PublishAuditEntries(ctx context.Context, orderID kernel.UUID, status order.Status, entries []order.AuditEntry) error
}
