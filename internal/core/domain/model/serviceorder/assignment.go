package serviceorder

import (
	"errors"
	"fmt"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment was not
// created through NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

// AssignmentRole is the capacity in which a user is bound to an order.
type AssignmentRole int

const (
	AssignmentRoleUnknown AssignmentRole = iota

	// AssignmentRoleTechnician marks the user doing the field work. At most
	// one technician assignment is ACTIVE per order at a time.
	AssignmentRoleTechnician

	// AssignmentRoleSupervisor marks the overseeing user. Supervisor
	// assignments are never touched by scheduling changes.
	AssignmentRoleSupervisor
)

func getAssignmentRoleStrings() map[AssignmentRole]string {
	return map[AssignmentRole]string{
		AssignmentRoleUnknown:    "UNKNOWN",
		AssignmentRoleTechnician: "TECHNICIAN",
		AssignmentRoleSupervisor: "SUPERVISOR",
	}
}

// String returns the wire name of the assignment role.
func (r AssignmentRole) String() string {
	if s, ok := getAssignmentRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Validate checks that the role is one of the defined values.
func (r AssignmentRole) Validate() error {
	if r != AssignmentRoleTechnician && r != AssignmentRoleSupervisor {
		return errs.NewValueIsInvalidErrorWithCause("assignmentRole", fmt.Errorf("%d is not a valid assignment role", r))
	}
	return nil
}

// AssignmentState distinguishes the current binding from superseded ones.
// Only ACTIVE assignments participate in permission checks; prior active
// assignments of the same role are superseded (set INACTIVE), never merged
// or deleted.
type AssignmentState int

const (
	AssignmentStateUnknown AssignmentState = iota
	AssignmentActive
	AssignmentInactive
)

// String returns "ACTIVE"/"INACTIVE", or "UNKNOWN" for invalid values.
func (s AssignmentState) String() string {
	switch s {
	case AssignmentActive:
		return "ACTIVE"
	case AssignmentInactive:
		return "INACTIVE"
	default:
		return "UNKNOWN"
	}
}

// Validate checks that the state is one of the defined values.
func (s AssignmentState) Validate() error {
	if s != AssignmentActive && s != AssignmentInactive {
		return errs.NewValueIsInvalidErrorWithCause("assignmentState", fmt.Errorf("%d is not a valid assignment state", s))
	}
	return nil
}

// Assignment binds a user to a service order in a given role. Assignments
// are owned by the ServiceOrder aggregate; superseding happens through the
// aggregate's assign methods, never by mutating an Assignment from outside.
type Assignment struct {
	id     kernel.UUID
	userID kernel.UUID
	role   AssignmentRole
	state  AssignmentState

	isConstructed bool
}

// NewAssignment creates an ACTIVE assignment of the user in the given role.
func NewAssignment(id, userID kernel.UUID, role AssignmentRole) (Assignment, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		role.Validate(),
	); err != nil {
		return Assignment{}, err
	}

	return Assignment{
		id:            id,
		userID:        userID,
		role:          role,
		state:         AssignmentActive,
		isConstructed: true,
	}, nil
}

// RestoreAssignment reconstructs an assignment from persistence.
func RestoreAssignment(id, userID kernel.UUID, role AssignmentRole, state AssignmentState) (Assignment, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		role.Validate(),
		state.Validate(),
	); err != nil {
		return Assignment{}, err
	}

	return Assignment{
		id:            id,
		userID:        userID,
		role:          role,
		state:         state,
		isConstructed: true,
	}, nil
}

// Validate ensures the assignment was created through a constructor.
func (a Assignment) Validate() error {
	if !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// ID returns the assignment's unique identifier.
func (a Assignment) ID() kernel.UUID { return a.id }

// UserID returns the bound user's identifier.
func (a Assignment) UserID() kernel.UUID { return a.userID }

// Role returns the capacity of the binding.
func (a Assignment) Role() AssignmentRole { return a.role }

// State returns whether the binding is the current one.
func (a Assignment) State() AssignmentState { return a.state }

// IsActive reports whether the assignment participates in permission checks.
func (a Assignment) IsActive() bool { return a.state == AssignmentActive }

func (a *Assignment) deactivate() {
	a.state = AssignmentInactive
}
