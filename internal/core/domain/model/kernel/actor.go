package kernel

import (
	"errors"
	"fmt"

	"fieldservice/internal/pkg/errs"
)

// ErrActorContextIsNotConstructed is returned when an ActorContext was not
// created through NewActorContext.
var ErrActorContextIsNotConstructed = errors.New("ActorContext must be created via NewActorContext constructor")

// Role identifies the authorization role of the acting user. The transport
// layer resolves it before any operation in this core runs.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleAdmin may perform any operation and any status transition.
	RoleAdmin

	// RoleSupervisor oversees orders but cannot drive technician-only
	// transitions; status changes by supervisors are denied by policy.
	RoleSupervisor

	// RoleTech performs the field work. Technicians act only on orders they
	// are actively assigned to, within a restricted transition set.
	RoleTech
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "UNKNOWN",
		RoleAdmin:      "ADMIN",
		RoleSupervisor: "SUPERVISOR",
		RoleTech:       "TECH",
	}
}

// RoleFromString parses the wire representation of a role.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if role != RoleUnknown && str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// String returns the wire name of the role, or "UNKNOWN" for invalid values.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Validate checks that the role is one of the defined values.
func (r Role) Validate() error {
	if r != RoleAdmin && r != RoleSupervisor && r != RoleTech {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ActorContext carries the trusted identity of the acting user: the tenant
// the call is scoped to, the user performing it, and the user's role. It is
// resolved by the surrounding transport layer and passed explicitly to every
// operation; nothing in this core reads actor identity from ambient state.
//
// Example:
//
//	actor, err := kernel.NewActorContext(tenantID, userID, kernel.RoleTech)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd) // cmd embeds the actor
type ActorContext struct {
	tenantID UUID
	userID   UUID
	role     Role

	isConstructed bool
}

// NewActorContext creates a validated actor context.
func NewActorContext(tenantID, userID UUID, role Role) (ActorContext, error) {
	if err := errors.Join(
		tenantID.Validate(),
		userID.Validate(),
		role.Validate(),
	); err != nil {
		return ActorContext{}, err
	}

	return ActorContext{
		tenantID:      tenantID,
		userID:        userID,
		role:          role,
		isConstructed: true,
	}, nil
}

// Validate ensures the context was created through NewActorContext.
func (a ActorContext) Validate() error {
	if !a.isConstructed {
		return ErrActorContextIsNotConstructed
	}
	return nil
}

// TenantID returns the tenant the actor operates in.
func (a ActorContext) TenantID() UUID {
	return a.tenantID
}

// UserID returns the acting user's identifier.
func (a ActorContext) UserID() UUID {
	return a.userID
}

// Role returns the acting user's role.
func (a ActorContext) Role() Role {
	return a.role
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a ActorContext) IsAdmin() bool {
	return a.role == RoleAdmin
}

// IsTech reports whether the actor holds the TECH role.
func (a ActorContext) IsTech() bool {
	return a.role == RoleTech
}
