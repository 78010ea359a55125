package services

import (
	"fmt"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
)

// Outcome is the decision of the status transition policy for one requested
// edge.
type Outcome int

const (
	// Deny rejects the transition; the caller surfaces a permission error.
	Deny Outcome = iota

	// Allow applies the transition.
	Allow

	// SoftSkip applies no change but carries a user-facing explanation
	// instead of failing the request. Used when an unassigned technician
	// tries to place an order on hold.
	SoftSkip
)

// Decision is the policy's answer for one requested transition. Reason is
// set for Deny and SoftSkip outcomes.
type Decision struct {
	Outcome Outcome
	Reason  string
}

func allow() Decision {
	return Decision{Outcome: Allow}
}

func deny(reason string) Decision {
	return Decision{Outcome: Deny, Reason: reason}
}

// statusEdge is one (from, to) pair in the transition table.
type statusEdge struct {
	from serviceorder.Status
	to   serviceorder.Status
}

// getTechnicianEdges returns the transitions a technician may drive on an
// order they are actively assigned to. Everything outside this table is
// denied for technicians; in particular, a technician can never move an
// order straight from OPEN to COMPLETED.
func getTechnicianEdges() map[statusEdge]bool {
	return map[statusEdge]bool{
		{serviceorder.Open, serviceorder.InProgress}:      true,
		{serviceorder.Scheduled, serviceorder.InProgress}: true,
		{serviceorder.InProgress, serviceorder.OnHold}:    true,
		{serviceorder.OnHold, serviceorder.InProgress}:    true,
		{serviceorder.InProgress, serviceorder.Completed}: true,
		{serviceorder.OnHold, serviceorder.Completed}:     true,
	}
}

// StatusPolicy decides whether a role may move an order from one status to
// another. The whole role-gated state machine lives in this one table-driven
// service; call sites never re-derive transition rules.
//
// Rules:
//   - ADMIN: any transition is allowed unconditionally.
//   - TECH: must be the order's actively assigned technician and the edge
//     must be in the technician table. The one exception is an unassigned
//     technician requesting ON_HOLD, which soft-skips instead of failing.
//   - Any other role: denied.
//
// Entering a terminal status additionally requires a complete resolution
// record; that gate is checked by the use case as a sibling rule, not here.
type StatusPolicy struct{}

// NewStatusPolicy creates a new StatusPolicy instance.
func NewStatusPolicy() StatusPolicy {
	return StatusPolicy{}
}

// Decide evaluates one requested transition for the given actor.
// activelyAssigned reports whether the actor is the order's current ACTIVE
// technician; it only matters for the TECH role.
func (p StatusPolicy) Decide(
	current, requested serviceorder.Status,
	role kernel.Role,
	activelyAssigned bool,
) Decision {
	switch role {
	case kernel.RoleAdmin:
		return allow()
	case kernel.RoleTech:
		return p.decideForTechnician(current, requested, activelyAssigned)
	default:
		return deny(fmt.Sprintf("role %s may not change order status", role))
	}
}

func (p StatusPolicy) decideForTechnician(current, requested serviceorder.Status, activelyAssigned bool) Decision {
	if !activelyAssigned {
		if requested == serviceorder.OnHold {
			return Decision{
				Outcome: SoftSkip,
				Reason:  "you are not assigned to this order; it was left unchanged instead of being put on hold",
			}
		}
		return deny("technician is not actively assigned to this order")
	}

	if !getTechnicianEdges()[statusEdge{from: current, to: requested}] {
		return deny(fmt.Sprintf("technicians may not move an order from %s to %s", current, requested))
	}

	return allow()
}
