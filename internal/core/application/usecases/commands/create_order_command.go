package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new service order.
// The order starts in OPEN status with an empty checkpoint chain and no
// assignments; scheduling and assignment happen through ScheduleOrderCommand.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, actor, "Boiler inspection", "annual check")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if _, err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	actor       kernel.ActorContext
	title       string
	description string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new service order.
// Validates the order ID, the actor context and the title.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor kernel.ActorContext,
	title, description string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		title:       title,
		description: description,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will be created under.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the trusted identity of the acting user.
func (c CreateOrderCommand) Actor() kernel.ActorContext {
	return c.actor
}

// Title returns the order's short human-readable title.
func (c CreateOrderCommand) Title() string {
	return c.title
}

// Description returns the order's free-form description.
func (c CreateOrderCommand) Description() string {
	return c.description
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.ActorContext) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
