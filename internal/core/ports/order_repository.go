// Package ports defines repository interfaces for the field service domain.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
)

// OrderRepository defines the persistence contract for service order
// aggregates. Every read and write is scoped to a tenant; an order from
// another tenant is indistinguishable from a missing one.
type OrderRepository interface {
	// Add persists a new order aggregate, including its assignments.
	Add(ctx context.Context, aggregate *serviceorder.ServiceOrder) error

	// Update persists changes to an existing order aggregate. Assignment
	// rows are reconciled: new bindings inserted, superseded ones updated.
	Update(ctx context.Context, aggregate *serviceorder.ServiceOrder) error

	// Get retrieves an order by identifier within the tenant. Returns an
	// ObjectNotFoundError when no such order exists for the tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*serviceorder.ServiceOrder, error)
}
