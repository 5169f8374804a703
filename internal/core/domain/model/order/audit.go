package order

import (
	"maps"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// EventKind names what an audit entry records.
type EventKind string

const (
	EventStatusChanged         EventKind = "STATUS_CHANGED"
	EventCourierAssigned       EventKind = "COURIER_ASSIGNED"
	EventProofAttached         EventKind = "PROOF_ATTACHED"
	EventCODCollected          EventKind = "COD_COLLECTED"
	EventCashAdvanceReimbursed EventKind = "CASH_ADVANCE_REIMBURSED"
)

// Metadata keys used by the entries above.
const (
	MetaFrom      = "from"
	MetaTo        = "to"
	MetaCourierID = "courier_id"
	MetaPhotoURL  = "photo_url"
	MetaAmount    = "amount"
)

// AuditEntry is one immutable line of an order's history. Entries are only
// appended; together they are the record operators use to settle disputes.
type AuditEntry struct {
	kind      EventKind
	timestamp time.Time
	actorRole kernel.Role
	actorID   string
	metadata  map[string]string
}

func newAuditEntry(kind EventKind, at time.Time, actor kernel.Actor, metadata map[string]string) AuditEntry {
	return AuditEntry{
		kind:      kind,
		timestamp: at.UTC(),
		actorRole: actor.Role(),
		actorID:   actor.ID(),
		metadata:  maps.Clone(metadata),
	}
}

// RestoreAuditEntry rebuilds an entry read from storage.
func RestoreAuditEntry(
	kind EventKind, at time.Time, role kernel.Role, actorID string, metadata map[string]string,
) AuditEntry {
	return AuditEntry{
		kind:      kind,
		timestamp: at.UTC(),
		actorRole: role,
		actorID:   actorID,
		metadata:  maps.Clone(metadata),
	}
}

func (e AuditEntry) Kind() EventKind        { return e.kind }
func (e AuditEntry) Timestamp() time.Time   { return e.timestamp }
func (e AuditEntry) ActorRole() kernel.Role { return e.actorRole }
func (e AuditEntry) ActorID() string        { return e.actorID }

// Metadata returns a copy; entries cannot be edited through it.
func (e AuditEntry) Metadata() map[string]string {
	return maps.Clone(e.metadata)
}

// Meta returns a single metadata value.
func (e AuditEntry) Meta(key string) string {
	return e.metadata[key]
}
