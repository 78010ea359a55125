package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
)

// AuditRepository defines the persistence contract for the per-order audit
// ledger. The ledger is append-only and capped: only the most recent
// serviceorder.AuditLogCap entries per order are retained, and eviction of
// the oldest entries happens explicitly inside Append's transaction.
type AuditRepository interface {
	// Append adds the entries to the order's ledger and evicts the oldest
	// entries beyond the cap. A call with no entries is a no-op.
	Append(ctx context.Context, tenantID, orderID kernel.UUID, entries []serviceorder.AuditEntry) error

	// ListRecent returns up to limit of the order's most recent entries,
	// newest first.
	ListRecent(ctx context.Context, tenantID, orderID kernel.UUID, limit int) ([]serviceorder.AuditEntry, error)
}
