package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/pkg/guard"
)

var ErrUpdateStatusCommandIsNotConstructed = errors.New(
	"UpdateStatusCommand must be created via NewUpdateStatusCommand constructor",
)

// UpdateStatusCommand represents a request to move an order to another
// lifecycle status. Whether the transition is allowed depends on the actor's
// role and assignment; the one non-error rejection is the soft skip of an
// unassigned technician requesting ON_HOLD.
//
// Example:
//
//	cmd, err := NewUpdateStatusCommand(orderID, actor, serviceorder.InProgress)
//	if err != nil {
//	    return err
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	if result.SoftSkipped {
//	    fmt.Println(result.Message) // order unchanged, user gets an explanation
//	}
type UpdateStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actor     kernel.ActorContext
	requested serviceorder.Status

	guard guard.ConstructorGuard
}

// NewUpdateStatusCommand creates a command to change an order's status.
// Validates the order ID, the actor context and the requested status value.
func NewUpdateStatusCommand(
	orderID kernel.UUID,
	actor kernel.ActorContext,
	requested serviceorder.Status,
) (UpdateStatusCommand, error) {
	cmd := UpdateStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setRequested(requested),
	); err != nil {
		return UpdateStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateStatusCommandIsNotConstructed if validation fails.
func (c UpdateStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStatusCommandIsNotConstructed)
}

// OrderID returns the order to move.
func (c UpdateStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the trusted identity of the acting user.
func (c UpdateStatusCommand) Actor() kernel.ActorContext {
	return c.actor
}

// Requested returns the target status.
func (c UpdateStatusCommand) Requested() serviceorder.Status {
	return c.requested
}

func (c *UpdateStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateStatusCommand) setActor(actor kernel.ActorContext) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *UpdateStatusCommand) setRequested(requested serviceorder.Status) error {
	if err := requested.Validate(); err != nil {
		return err
	}

	c.requested = requested
	return nil
}
