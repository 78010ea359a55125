package commands

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"
)

// UpdateStatusResult is the outcome of a status change request. Either the
// order was updated, or the request was soft-skipped: nothing changed and
// Message carries the user-facing explanation.
type UpdateStatusResult struct {
	Order       *serviceorder.ServiceOrder
	SoftSkipped bool
	Message     string
}

// UpdateStatusCommandHandler orchestrates a status transition in one
// serializable transaction, so the session exclusivity check cannot race:
// policy check, resolution gate for terminal statuses, the transition
// itself, its work session side effects, and the audit entries.
type UpdateStatusCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewUpdateStatusCommandHandler creates a handler for status transitions.
// Requires a LifecycleUoWFactory for coordinating order, session and audit
// writes.
func NewUpdateStatusCommandHandler(uowFactory LifecycleUoWFactory) UpdateStatusCommandHandler {
	return UpdateStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status change command. Denied transitions surface a
// permission error; a terminal transition without a complete resolution
// record surfaces a conflict; the soft-skip case commits nothing and returns
// an explanatory message.
func (h UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (UpdateStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateStatusResult{}, err
	}

	actor := cmd.Actor()
	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.BeginSerializable(ctx); err != nil {
		return UpdateStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	workLogRepo := uow.WorkLogRepository()

	order, err := orderRepo.Get(ctx, actor.TenantID(), cmd.OrderID())
	if err != nil {
		return UpdateStatusResult{}, err
	}

	decision := services.NewStatusPolicy().Decide(
		order.Status(), cmd.Requested(), actor.Role(), order.IsActiveTechnician(actor.UserID()))
	switch decision.Outcome {
	case services.Deny:
		return UpdateStatusResult{}, errs.NewPermissionDeniedError(decision.Reason)
	case services.SoftSkip:
		return UpdateStatusResult{SoftSkipped: true, Message: decision.Reason}, nil
	}

	if cmd.Requested().IsTerminal() {
		resolution, err := uow.ResolutionReader().Get(ctx, actor.TenantID(), order.ID())
		if err != nil {
			return UpdateStatusResult{}, err
		}
		if !resolution.IsComplete() {
			return UpdateStatusResult{}, errs.NewConflictError(
				"terminal status requires a resolution with both cause and remedy")
		}
	}

	before := order.Snapshot()
	previous := order.Status()
	if err = order.ChangeStatus(cmd.Requested()); err != nil {
		return UpdateStatusResult{}, err
	}

	coordinator := services.NewWorkLogCoordinator()
	subject, hasSubject := coordinator.SessionSubject(order, actor)

	sctx, err := loadSessionContext(ctx, orderRepo, workLogRepo, order, subject, hasSubject)
	if err != nil {
		return UpdateStatusResult{}, err
	}

	effects, err := coordinator.ReactToStatusChange(order, previous, subject, hasSubject, sctx, now)
	if err != nil {
		return UpdateStatusResult{}, err
	}

	if err = orderRepo.Update(ctx, order); err != nil {
		return UpdateStatusResult{}, err
	}
	if err = persistSessionEffects(ctx, workLogRepo, effects); err != nil {
		return UpdateStatusResult{}, err
	}

	recorder := services.NewAuditTrailRecorder()
	entries := recorder.Diff(now, actor.UserID(), before, order.Snapshot())
	entries = append(entries, recorder.SessionEntries(now, actor.UserID(), effects)...)
	if err = uow.AuditRepository().Append(ctx, order.TenantID(), order.ID(), entries); err != nil {
		return UpdateStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateStatusResult{}, err
	}

	return UpdateStatusResult{Order: order}, nil
}
