package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrStartSessionCommandIsNotConstructed = errors.New(
	"StartSessionCommand must be created via NewStartSessionCommand constructor",
)

// StartSessionCommand represents an ad-hoc "start work" action on an order,
// independent of checkpoints. It obeys the same tenant-wide exclusivity rule
// as checkpoint-driven session opening: a technician with an open session on
// a different order gets a conflict naming that order.
//
// Example:
//
//	cmd, err := NewStartSessionCommand(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	session, err := handler.Handle(ctx, cmd)
type StartSessionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.ActorContext

	guard guard.ConstructorGuard
}

// NewStartSessionCommand creates a command to start a work session.
func NewStartSessionCommand(orderID kernel.UUID, actor kernel.ActorContext) (StartSessionCommand, error) {
	cmd := StartSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return StartSessionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartSessionCommandIsNotConstructed if validation fails.
func (c StartSessionCommand) Validate() error {
	return c.guard.Validate(ErrStartSessionCommandIsNotConstructed)
}

// OrderID returns the order to start working on.
func (c StartSessionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the trusted identity of the acting user.
func (c StartSessionCommand) Actor() kernel.ActorContext {
	return c.actor
}

func (c *StartSessionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *StartSessionCommand) setActor(actor kernel.ActorContext) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
