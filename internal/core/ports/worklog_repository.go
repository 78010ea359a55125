package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/worklog"
)

// WorkLogRepository defines the persistence contract for work sessions.
//
// The store backs the tenant-wide exclusivity invariant with a partial
// uniqueness constraint on (tenant_id, user_id) where ended_at is null, so a
// race that slips past the in-transaction check still fails at commit.
type WorkLogRepository interface {
	// Add persists a newly opened session.
	Add(ctx context.Context, session *worklog.WorkLog) error

	// Update persists changes to an existing session (closing, re-anchoring,
	// note edits).
	Update(ctx context.Context, session *worklog.WorkLog) error

	// Get retrieves a session by identifier within the tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*worklog.WorkLog, error)

	// GetOpenByOrder retrieves every open session on the order, any
	// technician. Returns an empty slice when none are open.
	GetOpenByOrder(ctx context.Context, tenantID, serviceOrderID kernel.UUID) ([]*worklog.WorkLog, error)

	// GetOpenByUser retrieves the technician's open session anywhere in the
	// tenant, or nil when the technician holds none.
	GetOpenByUser(ctx context.Context, tenantID, userID kernel.UUID) (*worklog.WorkLog, error)
}
