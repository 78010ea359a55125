package serviceorder

import (
	"fmt"

	"fieldservice/internal/pkg/errs"
)

// Status represents the lifecycle state of a service order.
//
// State transitions (policy-gated, see the domain services package):
//
//	OPEN ←──────→ SCHEDULED
//	  │               │
//	  └───→ IN_PROGRESS ←──→ ON_HOLD
//	              │             │
//	              └──→ COMPLETED ←┘
//
//	COMPLETED, CLOSED, and CANCELED are terminal.
//
// OPEN↔SCHEDULED is derived from the presence of a due date rather than
// requested directly; IN_PROGRESS↔ON_HOLD may additionally be derived from
// work-session activity.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Open is the initial status of every service order: not yet scheduled,
	// waiting for a due date or a technician.
	Open

	// Scheduled indicates the order has a due date. Derived automatically
	// when a due date is set on an Open order.
	Scheduled

	// InProgress indicates a technician is actively working the order.
	InProgress

	// OnHold indicates work has been paused. Entered explicitly or derived
	// when the last open work session on an in-progress order closes.
	OnHold

	// Completed indicates the field work has finished. Terminal.
	Completed

	// Closed indicates the order has been administratively closed. Terminal.
	Closed

	// Canceled indicates the order was abandoned. Terminal.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Open:       "OPEN",
		Scheduled:  "SCHEDULED",
		InProgress: "IN_PROGRESS",
		OnHold:     "ON_HOLD",
		Completed:  "COMPLETED",
		Closed:     "CLOSED",
		Canceled:   "CANCELED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Open:       "OPEN",
		Scheduled:  "SCHEDULED",
		InProgress: "IN_PROGRESS",
		OnHold:     "ON_HOLD",
		Completed:  "COMPLETED",
		Closed:     "CLOSED",
		Canceled:   "CANCELED",
	}
}

// StatusFromString parses the wire representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status value is one of the defined lifecycle
// states. Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("OPEN", "IN_PROGRESS", ...).
// Safe to call on any value; invalid values yield "UNKNOWN".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status ends the lifecycle. Terminal orders
// accept no further work and all open sessions on them are closed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Closed || s == Canceled
}
