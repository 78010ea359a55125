package commands

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Creates the order in OPEN status and records the creation in the audit
// ledger. Technicians cannot create orders.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation
// operations. Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command and returns the created order.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*serviceorder.ServiceOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	if actor.IsTech() {
		return nil, errs.NewPermissionDeniedError("technicians may not create orders")
	}

	order, err := serviceorder.NewServiceOrder(cmd.OrderID(), actor.TenantID(), cmd.Title())
	if err != nil {
		return nil, err
	}
	order.SetDescription(cmd.Description())

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, order); err != nil {
		return nil, err
	}

	created := serviceorder.NewAuditEntry(time.Now(), actor.UserID(), "order", "", "", "CREATED")
	if err = uow.AuditRepository().Append(ctx, order.TenantID(), order.ID(),
		[]serviceorder.AuditEntry{created}); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}
