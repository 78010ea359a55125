package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/pkg/guard"
)

var ErrUpdateTimestampsCommandIsNotConstructed = errors.New(
	"UpdateTimestampsCommand must be created via NewUpdateTimestampsCommand constructor",
)

// UpdateTimestampsCommand represents a tri-state partial update of an
// order's checkpoint chain: each checkpoint is kept, cleared or set.
//
// Example:
//
//	patch := serviceorder.TimestampsPatch{
//	    ArrivedAt: kernel.Set(arrived),
//	    CheckInAt: kernel.Set(checkedIn),
//	}
//	cmd, err := NewUpdateTimestampsCommand(orderID, actor, patch)
//	if err != nil {
//	    return err
//	}
//	order, err := handler.Handle(ctx, cmd)
type UpdateTimestampsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.ActorContext
	patch   serviceorder.TimestampsPatch

	guard guard.ConstructorGuard
}

// NewUpdateTimestampsCommand creates a command to update an order's
// checkpoint chain. The patch itself is validated against the current chain
// by the handler, inside the transaction.
func NewUpdateTimestampsCommand(
	orderID kernel.UUID,
	actor kernel.ActorContext,
	patch serviceorder.TimestampsPatch,
) (UpdateTimestampsCommand, error) {
	cmd := UpdateTimestampsCommand{
		patch: patch,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return UpdateTimestampsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateTimestampsCommandIsNotConstructed if validation fails.
func (c UpdateTimestampsCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTimestampsCommandIsNotConstructed)
}

// OrderID returns the order whose chain is updated.
func (c UpdateTimestampsCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the trusted identity of the acting user.
func (c UpdateTimestampsCommand) Actor() kernel.ActorContext {
	return c.actor
}

// Patch returns the tri-state checkpoint update.
func (c UpdateTimestampsCommand) Patch() serviceorder.TimestampsPatch {
	return c.patch
}

func (c *UpdateTimestampsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateTimestampsCommand) setActor(actor kernel.ActorContext) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
