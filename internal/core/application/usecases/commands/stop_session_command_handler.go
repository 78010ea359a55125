package commands

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"
)

// StopSessionCommandHandler closes one work session. Technicians may only
// stop their own sessions; admins and supervisors may stop any session in
// the tenant. If work pauses as a result (no session left open on an
// IN_PROGRESS order with a started activity), the order derives to ON_HOLD
// in the same transaction.
type StopSessionCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewStopSessionCommandHandler creates a handler for manual session stops.
// Requires a LifecycleUoWFactory for coordinating order, session and audit
// writes.
func NewStopSessionCommandHandler(uowFactory LifecycleUoWFactory) StopSessionCommandHandler {
	return StopSessionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the stop command and returns the closed session.
func (h StopSessionCommandHandler) Handle(ctx context.Context, cmd StopSessionCommand) (*worklog.WorkLog, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
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

	session, err := workLogRepo.Get(ctx, actor.TenantID(), cmd.SessionID())
	if err != nil {
		return nil, err
	}
	if !session.ServiceOrderID().IsEqual(order.ID()) {
		return nil, errs.NewObjectNotFoundError("sessionId", cmd.SessionID().String())
	}
	if actor.IsTech() && !session.UserID().IsEqual(actor.UserID()) {
		return nil, errs.NewPermissionDeniedError("technicians may only stop their own work sessions")
	}

	openOnOrder, err := workLogRepo.GetOpenByOrder(ctx, order.TenantID(), order.ID())
	if err != nil {
		return nil, err
	}
	// The repository returns its own instance of the stopped session; the
	// pause derivation must see it through the instance being closed.
	remaining := make([]*worklog.WorkLog, 0, len(openOnOrder))
	for _, open := range openOnOrder {
		if !open.ID().IsEqual(session.ID()) {
			remaining = append(remaining, open)
		}
	}

	before := order.Snapshot()
	coordinator := services.NewWorkLogCoordinator()
	effects, err := coordinator.StopSession(order, session,
		services.SessionContext{OpenOnOrder: remaining}, now)
	if err != nil {
		return nil, err
	}

	if err = persistSessionEffects(ctx, workLogRepo, effects); err != nil {
		return nil, err
	}
	if effects.DerivedStatus != serviceorder.Unknown {
		if err = orderRepo.Update(ctx, order); err != nil {
			return nil, err
		}
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

	return session, nil
}
