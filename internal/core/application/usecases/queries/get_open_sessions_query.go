package queries

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrGetOpenSessionsQueryIsNotConstructed = errors.New(
	"GetOpenSessionsQuery must be created via NewGetOpenSessionsQuery constructor",
)

// GetOpenSessionsQuery retrieves all open work sessions in a tenant,
// optionally narrowed to one order. The tenant-wide view backs the
// operational report of who is currently on the clock.
type GetOpenSessionsQuery struct {
	tenantID kernel.UUID
	orderID  *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOpenSessionsQuery creates a query for all open sessions in the
// tenant.
func NewGetOpenSessionsQuery(tenantID kernel.UUID) (GetOpenSessionsQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetOpenSessionsQuery{}, err
	}

	return GetOpenSessionsQuery{
		tenantID: tenantID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewGetOpenSessionsForOrderQuery creates a query narrowed to one order's
// open sessions.
func NewGetOpenSessionsForOrderQuery(tenantID, orderID kernel.UUID) (GetOpenSessionsQuery, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return GetOpenSessionsQuery{}, err
	}

	return GetOpenSessionsQuery{
		tenantID: tenantID,
		orderID:  &orderID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetOpenSessionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenSessionsQueryIsNotConstructed)
}

// TenantID returns the tenant scope of the query.
func (q GetOpenSessionsQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// OrderID returns the order filter, or nil for the tenant-wide view.
func (q GetOpenSessionsQuery) OrderID() *kernel.UUID {
	if q.orderID == nil {
		return nil
	}
	v := *q.orderID
	return &v
}

// GetOpenSessionsQueryResponse is one open work session with enough order
// context to be actionable without a second lookup.
type GetOpenSessionsQueryResponse struct {
	SessionID  kernel.UUID
	OrderID    kernel.UUID
	OrderTitle string
	UserID     kernel.UUID
	StartedAt  time.Time
	Source     string
}
