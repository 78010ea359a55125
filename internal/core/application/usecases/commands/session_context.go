package commands

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/core/ports"
)

// loadSessionContext gathers the in-transaction session view the
// WorkLogCoordinator operates on: every open session on the order, plus the
// subject technician's open session anywhere in the tenant. When that
// session belongs to a different order, the other order's title is loaded
// too so a conflict error can name it.
func loadSessionContext(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	workLogRepo ports.WorkLogRepository,
	order *serviceorder.ServiceOrder,
	subject kernel.UUID,
	hasSubject bool,
) (services.SessionContext, error) {
	openOnOrder, err := workLogRepo.GetOpenByOrder(ctx, order.TenantID(), order.ID())
	if err != nil {
		return services.SessionContext{}, err
	}

	sctx := services.SessionContext{OpenOnOrder: openOnOrder}
	if !hasSubject {
		return sctx, nil
	}

	subjectOpen, err := workLogRepo.GetOpenByUser(ctx, order.TenantID(), subject)
	if err != nil {
		return services.SessionContext{}, err
	}
	sctx.SubjectOpen = subjectOpen

	if subjectOpen != nil && !subjectOpen.ServiceOrderID().IsEqual(order.ID()) {
		other, err := orderRepo.Get(ctx, order.TenantID(), subjectOpen.ServiceOrderID())
		if err != nil {
			return services.SessionContext{}, err
		}
		sctx.SubjectOpenOrderTitle = other.Title()
	}

	return sctx, nil
}

// persistSessionEffects writes the sessions the coordinator touched: new
// sessions are inserted, re-anchored and closed ones updated.
func persistSessionEffects(
	ctx context.Context,
	workLogRepo ports.WorkLogRepository,
	effects services.SessionEffects,
) error {
	if effects.Opened != nil {
		if err := workLogRepo.Add(ctx, effects.Opened); err != nil {
			return err
		}
	}
	if effects.Reanchored != nil {
		if err := workLogRepo.Update(ctx, effects.Reanchored); err != nil {
			return err
		}
	}
	for _, closed := range effects.Closed {
		if err := workLogRepo.Update(ctx, closed); err != nil {
			return err
		}
	}
	return nil
}
