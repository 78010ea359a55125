package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/guard"
)

var ErrScheduleOrderCommandIsNotConstructed = errors.New(
	"ScheduleOrderCommand must be created via NewScheduleOrderCommand constructor",
)

// ScheduleOrderCommand represents a tri-state partial update of an order's
// scheduling fields: due date, technician assignment and duration. Setting a
// due date on an OPEN order derives SCHEDULED; clearing it derives back.
//
// Example:
//
//	patch := services.SchedulePatch{
//	    DueDate:      kernel.Set(due),
//	    TechnicianID: kernel.Set(techID),
//	}
//	cmd, err := NewScheduleOrderCommand(orderID, actor, patch)
//	if err != nil {
//	    return err
//	}
//	order, err := handler.Handle(ctx, cmd)
type ScheduleOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.ActorContext
	patch   services.SchedulePatch

	guard guard.ConstructorGuard
}

// NewScheduleOrderCommand creates a command to update an order's schedule.
func NewScheduleOrderCommand(
	orderID kernel.UUID,
	actor kernel.ActorContext,
	patch services.SchedulePatch,
) (ScheduleOrderCommand, error) {
	cmd := ScheduleOrderCommand{
		patch: patch,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return ScheduleOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrScheduleOrderCommandIsNotConstructed if validation fails.
func (c ScheduleOrderCommand) Validate() error {
	return c.guard.Validate(ErrScheduleOrderCommandIsNotConstructed)
}

// OrderID returns the order whose schedule is updated.
func (c ScheduleOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the trusted identity of the acting user.
func (c ScheduleOrderCommand) Actor() kernel.ActorContext {
	return c.actor
}

// Patch returns the tri-state schedule update.
func (c ScheduleOrderCommand) Patch() services.SchedulePatch {
	return c.patch
}

func (c *ScheduleOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ScheduleOrderCommand) setActor(actor kernel.ActorContext) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
