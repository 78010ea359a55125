// Package queries contains the read side of the lifecycle core. Query
// handlers bypass the domain model and read projection rows straight from
// the database; they never mutate state.
package queries

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one service order with its schedule, checkpoint
// timestamps and active assignments. Tenant-scoped: an order belonging to
// another tenant reads as not found.
type GetOrderQuery struct {
	tenantID kernel.UUID
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order's detail view.
func NewGetOrderQuery(tenantID, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		tenantID: tenantID,
		orderID:  orderID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// TenantID returns the tenant scope of the query.
func (q GetOrderQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the order detail projection. Status is the wire
// name ("OPEN", "IN_PROGRESS", ...); unset optionals are nil.
type GetOrderQueryResponse struct {
	ID          kernel.UUID
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
	DurationMin *int

	TechnicianID *kernel.UUID
	SupervisorID *kernel.UUID

	TakenAt            *time.Time
	ArrivedAt          *time.Time
	CheckInAt          *time.Time
	ActivityStartedAt  *time.Time
	ActivityFinishedAt *time.Time
	DeliveredAt        *time.Time
}
