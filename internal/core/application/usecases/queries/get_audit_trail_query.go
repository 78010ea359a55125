package queries

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrGetAuditTrailQueryIsNotConstructed = errors.New(
	"GetAuditTrailQuery must be created via NewGetAuditTrailQuery constructor",
)

// GetAuditTrailQuery retrieves an order's recent audit entries, newest
// first. The ledger retains at most the most recent 200 entries per order,
// so limits beyond that are clamped.
type GetAuditTrailQuery struct {
	tenantID kernel.UUID
	orderID  kernel.UUID
	limit    int

	guard guard.ConstructorGuard
}

// NewGetAuditTrailQuery creates a query for an order's audit trail. A
// non-positive limit means "everything retained".
func NewGetAuditTrailQuery(tenantID, orderID kernel.UUID, limit int) (GetAuditTrailQuery, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return GetAuditTrailQuery{}, err
	}

	return GetAuditTrailQuery{
		tenantID: tenantID,
		orderID:  orderID,
		limit:    limit,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetAuditTrailQueryIsNotConstructed)
}

// TenantID returns the tenant scope of the query.
func (q GetAuditTrailQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// OrderID returns the order whose trail is requested.
func (q GetAuditTrailQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Limit returns the requested maximum number of entries.
func (q GetAuditTrailQuery) Limit() int {
	return q.limit
}

// GetAuditTrailQueryResponse is one recorded change on the order.
type GetAuditTrailQueryResponse struct {
	At       time.Time
	ByUserID kernel.UUID
	Field    string
	Part     string
	From     string
	To       string
}
