package serviceorder

import (
	"errors"
	"fmt"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

var (
	// ErrServiceOrderIsNotConstructed is returned when a ServiceOrder
	// instance was not created through NewServiceOrder or
	// RestoreServiceOrder.
	ErrServiceOrderIsNotConstructed = errors.New("ServiceOrder must be created via NewServiceOrder constructor")

	// ErrTitleIsRequired is returned when an order is created without a title.
	ErrTitleIsRequired = errs.NewValueIsRequiredError("title")
)

// ServiceOrder is the aggregate root for one unit of dispatched field work.
// It owns the order's lifecycle status, the six-checkpoint timestamp chain,
// the due date and duration used for calendar sizing, and the assignment
// bindings of technician and supervisor.
//
// Invariants maintained by the aggregate:
//   - Status is always one of the defined lifecycle states; orders start OPEN
//   - The timestamp chain is always valid (gapless, monotonic)
//   - At most one ACTIVE technician assignment and at most one ACTIVE
//     supervisor assignment exist at a time; replacements supersede
//   - Due-date presence and the OPEN/SCHEDULED pair stay consistent
//
// Policy decisions (who may request which transition, session bookkeeping,
// audit recording) live in the domain services; the aggregate only enforces
// its own structural invariants.
type ServiceOrder struct {
	id          kernel.UUID
	tenantID    kernel.UUID
	title       string
	description string
	status      Status
	timestamps  Timestamps
	dueDate     *time.Time
	durationMin *int
	assignments []Assignment

	isConstructed bool
}

// NewServiceOrder creates a new order in OPEN status with an empty timestamp
// chain and no assignments.
func NewServiceOrder(id, tenantID kernel.UUID, title string) (*ServiceOrder, error) {
	order := &ServiceOrder{
		status:        Open,
		timestamps:    NewTimestamps(),
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setTenantID(tenantID),
		order.setTitle(title),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreServiceOrder reconstructs an order from persistence, re-validating
// every invariant so corrupted rows cannot produce an invalid aggregate.
func RestoreServiceOrder(
	id, tenantID kernel.UUID,
	title, description string,
	status Status,
	timestamps Timestamps,
	dueDate *time.Time,
	durationMin *int,
	assignments []Assignment,
) (*ServiceOrder, error) {
	order := &ServiceOrder{
		description:   description,
		timestamps:    timestamps,
		dueDate:       copyTime(dueDate),
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setTenantID(tenantID),
		order.setTitle(title),
		order.setStatus(status),
	); err != nil {
		return nil, err
	}

	if durationMin != nil {
		if err := order.SetDuration(*durationMin); err != nil {
			return nil, err
		}
	}

	for _, a := range assignments {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		order.assignments = append(order.assignments, a)
	}

	return order, nil
}

// Validate ensures the order was created through a constructor.
func (o *ServiceOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrServiceOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *ServiceOrder) IsEqual(other *ServiceOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *ServiceOrder) ID() kernel.UUID { return o.id }

// TenantID returns the tenant the order belongs to. Every read and write of
// the order is scoped by this value.
func (o *ServiceOrder) TenantID() kernel.UUID { return o.tenantID }

// Title returns the order's short human-readable title.
func (o *ServiceOrder) Title() string { return o.title }

// Description returns the order's free-form description.
func (o *ServiceOrder) Description() string { return o.description }

// Status returns the current lifecycle status.
func (o *ServiceOrder) Status() Status { return o.status }

// Timestamps returns the order's checkpoint chain.
func (o *ServiceOrder) Timestamps() Timestamps { return o.timestamps }

// DueDate returns the scheduled due date, or nil when unscheduled.
func (o *ServiceOrder) DueDate() *time.Time { return copyTime(o.dueDate) }

// DurationMin returns the calendar sizing hint in minutes, or nil.
func (o *ServiceOrder) DurationMin() *int {
	if o.durationMin == nil {
		return nil
	}
	v := *o.durationMin
	return &v
}

// Assignments returns all assignment bindings, active and superseded.
func (o *ServiceOrder) Assignments() []Assignment {
	out := make([]Assignment, len(o.assignments))
	copy(out, o.assignments)
	return out
}

// ActiveTechnician returns the user ID of the currently assigned technician,
// or nil when none is assigned.
func (o *ServiceOrder) ActiveTechnician() *kernel.UUID {
	return o.activeUser(AssignmentRoleTechnician)
}

// ActiveSupervisor returns the user ID of the currently assigned supervisor,
// or nil when none is assigned.
func (o *ServiceOrder) ActiveSupervisor() *kernel.UUID {
	return o.activeUser(AssignmentRoleSupervisor)
}

// IsActiveTechnician reports whether the given user is the order's currently
// assigned technician.
func (o *ServiceOrder) IsActiveTechnician(userID kernel.UUID) bool {
	tech := o.ActiveTechnician()
	return tech != nil && tech.IsEqual(userID)
}

// SetDescription replaces the free-form description.
func (o *ServiceOrder) SetDescription(description string) {
	o.description = description
}

// ChangeStatus moves the order to the requested status. Transition policy
// (who may request which edge) is decided by the domain services before this
// is called; the aggregate only rejects undefined status values.
func (o *ServiceOrder) ChangeStatus(status Status) error {
	return o.setStatus(status)
}

// ApplyTimestamps applies a tri-state partial update to the checkpoint chain.
// The chain rules (predecessor, ordering, cascade clearing) are enforced by
// Timestamps.Apply; on violation the order is left unchanged.
func (o *ServiceOrder) ApplyTimestamps(patch TimestampsPatch) error {
	next, err := o.timestamps.Apply(patch)
	if err != nil {
		return err
	}
	o.timestamps = next
	return nil
}

// SetDueDate records or replaces the due date. Setting a due date on an OPEN
// order derives status SCHEDULED.
func (o *ServiceOrder) SetDueDate(dueDate time.Time) {
	wasUnset := o.dueDate == nil
	v := dueDate
	o.dueDate = &v

	if wasUnset && o.status == Open {
		o.status = Scheduled
	}
}

// ClearDueDate removes the due date. Clearing it on a SCHEDULED order
// derives status back to OPEN.
func (o *ServiceOrder) ClearDueDate() {
	wasSet := o.dueDate != nil
	o.dueDate = nil

	if wasSet && o.status == Scheduled {
		o.status = Open
	}
}

// SetDuration records the calendar sizing hint. Duration must be a positive
// number of minutes.
func (o *ServiceOrder) SetDuration(durationMin int) error {
	if durationMin <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("durationMin",
			fmt.Errorf("%d is not greater than 0", durationMin))
	}
	v := durationMin
	o.durationMin = &v
	return nil
}

// ClearDuration removes the calendar sizing hint.
func (o *ServiceOrder) ClearDuration() {
	o.durationMin = nil
}

// AssignTechnician binds the user as the order's technician, superseding any
// prior ACTIVE technician assignment. Supervisor assignments are untouched.
func (o *ServiceOrder) AssignTechnician(userID kernel.UUID) error {
	return o.assign(userID, AssignmentRoleTechnician)
}

// AssignSupervisor binds the user as the order's supervisor, superseding any
// prior ACTIVE supervisor assignment. Technician assignments are untouched.
func (o *ServiceOrder) AssignSupervisor(userID kernel.UUID) error {
	return o.assign(userID, AssignmentRoleSupervisor)
}

// ClearTechnician supersedes all ACTIVE technician assignments without
// creating a replacement.
func (o *ServiceOrder) ClearTechnician() {
	o.deactivate(AssignmentRoleTechnician)
}

// Snapshot captures the auditable state of the order for diffing before and
// after a mutation.
func (o *ServiceOrder) Snapshot() Snapshot {
	return Snapshot{
		Status:       o.status,
		Title:        o.title,
		Description:  o.description,
		DueDate:      copyTime(o.dueDate),
		DurationMin:  o.DurationMin(),
		TechnicianID: o.ActiveTechnician(),
		SupervisorID: o.ActiveSupervisor(),
		Timestamps:   o.timestamps,
	}
}

// Snapshot is a flat, immutable view of a service order's auditable fields.
type Snapshot struct {
	Status       Status
	Title        string
	Description  string
	DueDate      *time.Time
	DurationMin  *int
	TechnicianID *kernel.UUID
	SupervisorID *kernel.UUID
	Timestamps   Timestamps
}

func (o *ServiceOrder) assign(userID kernel.UUID, role AssignmentRole) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	if current := o.activeUser(role); current != nil && current.IsEqual(userID) {
		return nil
	}

	o.deactivate(role)

	assignment, err := NewAssignment(kernel.NewUUID(), userID, role)
	if err != nil {
		return err
	}
	o.assignments = append(o.assignments, assignment)
	return nil
}

func (o *ServiceOrder) deactivate(role AssignmentRole) {
	for i := range o.assignments {
		if o.assignments[i].role == role && o.assignments[i].IsActive() {
			o.assignments[i].deactivate()
		}
	}
}

func (o *ServiceOrder) activeUser(role AssignmentRole) *kernel.UUID {
	for i := range o.assignments {
		if o.assignments[i].role == role && o.assignments[i].IsActive() {
			id := o.assignments[i].userID
			return &id
		}
	}
	return nil
}

func (o *ServiceOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *ServiceOrder) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}
	o.tenantID = tenantID
	return nil
}

func (o *ServiceOrder) setTitle(title string) error {
	if title == "" {
		return ErrTitleIsRequired
	}
	o.title = title
	return nil
}

func (o *ServiceOrder) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
