package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrStopSessionCommandIsNotConstructed = errors.New(
	"StopSessionCommand must be created via NewStopSessionCommand constructor",
)

// StopSessionCommand represents an ad-hoc "stop work" action closing one
// specific session on an order. If the stopped session was the last one open
// on an IN_PROGRESS order with a started activity, the order derives to
// ON_HOLD.
//
// Example:
//
//	cmd, err := NewStopSessionCommand(orderID, sessionID, actor)
//	if err != nil {
//	    return err
//	}
//	session, err := handler.Handle(ctx, cmd)
type StopSessionCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	sessionID kernel.UUID
	actor     kernel.ActorContext

	guard guard.ConstructorGuard
}

// NewStopSessionCommand creates a command to stop a work session.
func NewStopSessionCommand(orderID, sessionID kernel.UUID, actor kernel.ActorContext) (StopSessionCommand, error) {
	cmd := StopSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setSessionID(sessionID),
		cmd.setActor(actor),
	); err != nil {
		return StopSessionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStopSessionCommandIsNotConstructed if validation fails.
func (c StopSessionCommand) Validate() error {
	return c.guard.Validate(ErrStopSessionCommandIsNotConstructed)
}

// OrderID returns the order the session belongs to.
func (c StopSessionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SessionID returns the session to close.
func (c StopSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Actor returns the trusted identity of the acting user.
func (c StopSessionCommand) Actor() kernel.ActorContext {
	return c.actor
}

func (c *StopSessionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *StopSessionCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *StopSessionCommand) setActor(actor kernel.ActorContext) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
