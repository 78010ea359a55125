package commands

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"
)

// StartSessionCommandHandler opens a work session for the subject
// technician: the actor when they are a technician, the order's assigned
// technician otherwise. Technicians may only start sessions on orders they
// are actively assigned to. Runs serializable so the exclusivity
// check-then-act cannot race with a concurrent start for the same
// technician.
//
// Starting a session does not change the order's status; status is driven
// only by explicit transitions and the documented derivations.
type StartSessionCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewStartSessionCommandHandler creates a handler for manual session
// starts. Requires a LifecycleUoWFactory for coordinating session and audit
// writes.
func NewStartSessionCommandHandler(uowFactory LifecycleUoWFactory) StartSessionCommandHandler {
	return StartSessionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start command and returns the open session: the newly
// created one, or the already open session on this order (idempotence).
func (h StartSessionCommandHandler) Handle(ctx context.Context, cmd StartSessionCommand) (*worklog.WorkLog, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
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

	coordinator := services.NewWorkLogCoordinator()
	subject, hasSubject := coordinator.SessionSubject(order, actor)
	if !hasSubject {
		return nil, errs.NewValueIsRequiredError("technicianId")
	}

	sctx, err := loadSessionContext(ctx, orderRepo, workLogRepo, order, subject, hasSubject)
	if err != nil {
		return nil, err
	}

	// An open session on this order already satisfies the request; keep its
	// original start time.
	if sctx.SubjectOpen != nil && sctx.SubjectOpen.ServiceOrderID().IsEqual(order.ID()) {
		if err = uow.Commit(ctx); err != nil {
			return nil, err
		}
		return sctx.SubjectOpen, nil
	}

	effects, err := coordinator.EnsureOpenSession(order, subject, sctx, now, worklog.SourceManual)
	if err != nil {
		return nil, err
	}

	if err = persistSessionEffects(ctx, workLogRepo, effects); err != nil {
		return nil, err
	}

	entries := services.NewAuditTrailRecorder().SessionEntries(now, actor.UserID(), effects)
	if err = uow.AuditRepository().Append(ctx, order.TenantID(), order.ID(), entries); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return effects.Opened, nil
}
