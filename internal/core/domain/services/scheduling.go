package services

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
)

// SchedulePatch is a tri-state partial update of an order's scheduling
// fields. Keep leaves a field untouched, Clear removes it, Set replaces it.
type SchedulePatch struct {
	DueDate      kernel.Patch[time.Time]
	TechnicianID kernel.Patch[kernel.UUID]
	DurationMin  kernel.Patch[int]
}

// IsEmpty reports whether the patch touches no field at all.
func (p SchedulePatch) IsEmpty() bool {
	return p.DueDate.IsKeep() && p.TechnicianID.IsKeep() && p.DurationMin.IsKeep()
}

// SchedulingCoordinator applies partial schedule updates to an order.
//
// Status derivation is delegated to the aggregate: setting a due date on an
// OPEN order derives SCHEDULED, clearing it on a SCHEDULED order derives
// OPEN. Replacing the technician supersedes the prior ACTIVE technician
// assignment and never touches the supervisor.
type SchedulingCoordinator struct{}

// NewSchedulingCoordinator creates a new SchedulingCoordinator instance.
func NewSchedulingCoordinator() SchedulingCoordinator {
	return SchedulingCoordinator{}
}

// Apply mutates the order according to the patch. DurationMin must be a
// positive number of minutes when set. On error the order may be partially
// updated; the caller runs inside a transaction and must roll back.
func (c SchedulingCoordinator) Apply(order *serviceorder.ServiceOrder, patch SchedulePatch) error {
	if err := order.Validate(); err != nil {
		return err
	}

	if durationMin, ok := patch.DurationMin.Value(); ok {
		if err := order.SetDuration(durationMin); err != nil {
			return err
		}
	} else if patch.DurationMin.IsClear() {
		order.ClearDuration()
	}

	if technicianID, ok := patch.TechnicianID.Value(); ok {
		if err := order.AssignTechnician(technicianID); err != nil {
			return err
		}
	} else if patch.TechnicianID.IsClear() {
		order.ClearTechnician()
	}

	if dueDate, ok := patch.DueDate.Value(); ok {
		order.SetDueDate(dueDate)
	} else if patch.DueDate.IsClear() {
		order.ClearDueDate()
	}

	return nil
}
