package commands

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"
)

// UpdateTimestampsCommandHandler orchestrates a checkpoint chain update in
// one serializable transaction: the chain rules, the session side effects of
// the activity checkpoints, and the audit entries.
//
// Technicians may only update the chain of orders they are actively assigned
// to; admins and supervisors may update any order in the tenant.
type UpdateTimestampsCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewUpdateTimestampsCommandHandler creates a handler for checkpoint
// updates. Requires a LifecycleUoWFactory for coordinating order, session
// and audit writes.
func NewUpdateTimestampsCommandHandler(uowFactory LifecycleUoWFactory) UpdateTimestampsCommandHandler {
	return UpdateTimestampsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the checkpoint update command and returns the updated
// order. Chain violations surface as validation or conflict errors before
// anything is written.
func (h UpdateTimestampsCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateTimestampsCommand,
) (*serviceorder.ServiceOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if cmd.Patch().IsEmpty() {
		return nil, errs.NewValueIsRequiredError("timestamps")
	}

	actor := cmd.Actor()
	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.BeginSerializable(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	workLogRepo := uow.WorkLogRepository()

	order, err := orderRepo.Get(ctx, actor.TenantID(), cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if actor.IsTech() && !order.IsActiveTechnician(actor.UserID()) {
		return nil, errs.NewPermissionDeniedError("technician is not actively assigned to this order")
	}

	before := order.Snapshot()
	if err = order.ApplyTimestamps(cmd.Patch()); err != nil {
		return nil, err
	}
	changed := order.Timestamps().ChangedKeys(before.Timestamps)

	coordinator := services.NewWorkLogCoordinator()
	subject, hasSubject := coordinator.SessionSubject(order, actor)

	sctx, err := loadSessionContext(ctx, orderRepo, workLogRepo, order, subject, hasSubject)
	if err != nil {
		return nil, err
	}

	effects, err := coordinator.ReactToTimestampChange(order, changed, subject, hasSubject, sctx)
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	if err = persistSessionEffects(ctx, workLogRepo, effects); err != nil {
		return nil, err
	}

	recorder := services.NewAuditTrailRecorder()
	entries := recorder.Diff(now, actor.UserID(), before, order.Snapshot())
	entries = append(entries, recorder.SessionEntries(now, actor.UserID(), effects)...)
	if err = uow.AuditRepository().Append(ctx, order.TenantID(), order.ID(), entries); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}
