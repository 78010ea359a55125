package commands

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"
)

// ScheduleOrderCommandHandler orchestrates schedule updates: due date,
// technician assignment and duration, with their status derivations and
// audit entries. Scheduling is dispatcher work; technicians cannot do it.
type ScheduleOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewScheduleOrderCommandHandler creates a handler for schedule updates.
// Requires an OrderUoWFactory for transactional persistence.
func NewScheduleOrderCommandHandler(uowFactory OrderUoWFactory) ScheduleOrderCommandHandler {
	return ScheduleOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the schedule update command and returns the updated
// order.
func (h ScheduleOrderCommandHandler) Handle(ctx context.Context, cmd ScheduleOrderCommand) (*serviceorder.ServiceOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if cmd.Patch().IsEmpty() {
		return nil, errs.NewValueIsRequiredError("schedule")
	}

	actor := cmd.Actor()
	if actor.IsTech() {
		return nil, errs.NewPermissionDeniedError("technicians may not schedule orders")
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	order, err := orderRepo.Get(ctx, actor.TenantID(), cmd.OrderID())
	if err != nil {
		return nil, err
	}

	before := order.Snapshot()
	if err = services.NewSchedulingCoordinator().Apply(order, cmd.Patch()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	entries := services.NewAuditTrailRecorder().Diff(now, actor.UserID(), before, order.Snapshot())
	if err = uow.AuditRepository().Append(ctx, order.TenantID(), order.ID(), entries); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}
