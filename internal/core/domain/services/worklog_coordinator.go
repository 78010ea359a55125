package services

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/pkg/errs"
)

// SessionContext is the in-transaction view of the work sessions relevant to
// one operation: every open session on the target order, plus the subject
// technician's open session anywhere in the tenant (which may be one of the
// former, or belong to a different order).
//
// The calling use case loads it before invoking the coordinator; the
// coordinator itself never touches persistence.
type SessionContext struct {
	// OpenOnOrder holds all open sessions on the target order, any technician.
	OpenOnOrder []*worklog.WorkLog

	// SubjectOpen is the subject technician's open session anywhere in the
	// tenant, or nil. SubjectOpenOrderTitle names the order it belongs to and
	// is carried into the conflict error when the session is elsewhere.
	SubjectOpen           *worklog.WorkLog
	SubjectOpenOrderTitle string
}

// SessionEffects reports what the coordinator did, so the use case can
// persist the touched sessions and the audit recorder can describe them.
type SessionEffects struct {
	// Opened is a newly created session, to be inserted.
	Opened *worklog.WorkLog

	// Reanchored is an existing open session whose start time was corrected,
	// to be updated.
	Reanchored *worklog.WorkLog

	// Closed holds the sessions that received an end time, to be updated.
	Closed []*worklog.WorkLog

	// DerivedStatus is the status the order was auto-moved to as a side
	// effect (work paused without an explicit status call), or Unknown.
	DerivedStatus serviceorder.Status
}

// merge folds another effect set into the receiver.
func (e *SessionEffects) merge(other SessionEffects) {
	if other.Opened != nil {
		e.Opened = other.Opened
	}
	if other.Reanchored != nil {
		e.Reanchored = other.Reanchored
	}
	e.Closed = append(e.Closed, other.Closed...)
	if other.DerivedStatus != serviceorder.Unknown {
		e.DerivedStatus = other.DerivedStatus
	}
}

// WorkLogCoordinator enforces the tenant-wide single-open-session invariant
// and synchronizes work sessions with status and checkpoint events.
//
// The invariant: for a given (tenant, user) at most one open session may
// exist at any instant, regardless of which order it belongs to. The
// coordinator checks it on every open; the persistence layer backs it with a
// partial uniqueness constraint and serializable isolation so two concurrent
// requests cannot both observe "no open session" and both open one.
//
// All methods operate on aggregates already loaded into the current
// transaction and report their effects; nothing is written here.
type WorkLogCoordinator struct{}

// NewWorkLogCoordinator creates a new WorkLogCoordinator instance.
func NewWorkLogCoordinator() WorkLogCoordinator {
	return WorkLogCoordinator{}
}

// SessionSubject resolves which technician's sessions an operation affects:
// a TECH actor acts on their own sessions; for other roles the subject is
// the order's actively assigned technician. The second return is false when
// there is no subject (non-tech actor, no technician assigned).
func (c WorkLogCoordinator) SessionSubject(
	order *serviceorder.ServiceOrder,
	actor kernel.ActorContext,
) (kernel.UUID, bool) {
	if actor.IsTech() {
		return actor.UserID(), true
	}
	if tech := order.ActiveTechnician(); tech != nil {
		return *tech, true
	}
	return kernel.UUID{}, false
}

// EnsureOpenSession idempotently opens a session for the technician on this
// order at the given instant. If the technician already holds an open
// session on this order, its start time is corrected to at instead. If the
// open session is on a different order, the operation fails with a conflict
// error naming that order so the caller can resolve it.
func (c WorkLogCoordinator) EnsureOpenSession(
	order *serviceorder.ServiceOrder,
	technicianID kernel.UUID,
	sctx SessionContext,
	at time.Time,
	source worklog.Source,
) (SessionEffects, error) {
	if err := order.Validate(); err != nil {
		return SessionEffects{}, err
	}

	if open := sctx.SubjectOpen; open != nil && open.IsOpen() {
		if !open.ServiceOrderID().IsEqual(order.ID()) {
			return SessionEffects{}, errs.NewOpenSessionConflictError(
				open.ServiceOrderID().String(), sctx.SubjectOpenOrderTitle)
		}
		if open.StartedAt().Equal(at) {
			return SessionEffects{}, nil
		}
		if err := open.Reanchor(at); err != nil {
			return SessionEffects{}, err
		}
		return SessionEffects{Reanchored: open}, nil
	}

	session, err := worklog.NewWorkLog(kernel.NewUUID(), order.TenantID(), order.ID(), technicianID, at, source)
	if err != nil {
		return SessionEffects{}, err
	}
	return SessionEffects{Opened: session}, nil
}

// CloseOpenSessions closes every open session on the order, for every
// technician, at the given instant. Already closed sessions are skipped, so
// the call is idempotent. If the order was IN_PROGRESS with the activity
// already started and no session remains open, the status derives to
// ON_HOLD (work paused without an explicit status call).
func (c WorkLogCoordinator) CloseOpenSessions(
	order *serviceorder.ServiceOrder,
	sctx SessionContext,
	endedAt time.Time,
) (SessionEffects, error) {
	if err := order.Validate(); err != nil {
		return SessionEffects{}, err
	}

	var effects SessionEffects
	for _, session := range sctx.OpenOnOrder {
		if !session.IsOpen() {
			continue
		}
		if err := session.Close(endedAt); err != nil {
			return SessionEffects{}, err
		}
		effects.Closed = append(effects.Closed, session)
	}

	if err := c.deriveAfterClose(order, &effects, sctx); err != nil {
		return SessionEffects{}, err
	}
	return effects, nil
}

// StopSession closes one specific session and applies the same pause
// derivation as CloseOpenSessions. Closing an already closed session fails
// with worklog.ErrAlreadyClosed.
func (c WorkLogCoordinator) StopSession(
	order *serviceorder.ServiceOrder,
	session *worklog.WorkLog,
	sctx SessionContext,
	endedAt time.Time,
) (SessionEffects, error) {
	if err := order.Validate(); err != nil {
		return SessionEffects{}, err
	}
	if err := session.Validate(); err != nil {
		return SessionEffects{}, err
	}

	if err := session.Close(endedAt); err != nil {
		return SessionEffects{}, err
	}
	effects := SessionEffects{Closed: []*worklog.WorkLog{session}}

	if err := c.deriveAfterClose(order, &effects, sctx); err != nil {
		return SessionEffects{}, err
	}
	return effects, nil
}

// ReactToStatusChange applies the session side effects of a status change
// that already happened on the order (previous is the status before it).
//
// Rules:
//   - entering ON_HOLD closes every open session on the order, at now
//   - resuming ON_HOLD to IN_PROGRESS opens a session for the subject
//     technician, at now
//   - entering a terminal status closes every open session, at the finish
//     checkpoint time when present, else now
func (c WorkLogCoordinator) ReactToStatusChange(
	order *serviceorder.ServiceOrder,
	previous serviceorder.Status,
	subject kernel.UUID,
	hasSubject bool,
	sctx SessionContext,
	now time.Time,
) (SessionEffects, error) {
	if err := order.Validate(); err != nil {
		return SessionEffects{}, err
	}

	current := order.Status()
	switch {
	case current == serviceorder.OnHold && previous != serviceorder.OnHold:
		return c.closeAll(sctx, now)

	case previous == serviceorder.OnHold && current == serviceorder.InProgress:
		if !hasSubject {
			return SessionEffects{}, nil
		}
		return c.EnsureOpenSession(order, subject, sctx, now, worklog.SourceStatus)

	case current.IsTerminal():
		endedAt := now
		if finished := order.Timestamps().ActivityFinishedAt(); finished != nil {
			endedAt = *finished
		}
		return c.closeAll(sctx, endedAt)
	}

	return SessionEffects{}, nil
}

// ReactToTimestampChange applies the session side effects of an accepted
// checkpoint update (changed lists the keys whose values differ).
//
// Rules:
//   - activityFinishedAt set: close every open session on the order,
//     anchored to that checkpoint's time
//   - activityStartedAt set or changed while the status is neither ON_HOLD
//     nor terminal: ensure an open session for the subject technician,
//     anchored to that checkpoint's time
//   - if closing left an IN_PROGRESS order with a started activity and no
//     open session, the status derives to ON_HOLD
func (c WorkLogCoordinator) ReactToTimestampChange(
	order *serviceorder.ServiceOrder,
	changed []serviceorder.CheckpointKey,
	subject kernel.UUID,
	hasSubject bool,
	sctx SessionContext,
) (SessionEffects, error) {
	if err := order.Validate(); err != nil {
		return SessionEffects{}, err
	}

	var effects SessionEffects
	timestamps := order.Timestamps()

	if containsKey(changed, serviceorder.CheckpointActivityFinished) {
		if finished := timestamps.ActivityFinishedAt(); finished != nil {
			closed, err := c.CloseOpenSessions(order, sctx, *finished)
			if err != nil {
				return SessionEffects{}, err
			}
			effects.merge(closed)
			return effects, nil
		}
	}

	if containsKey(changed, serviceorder.CheckpointActivityStarted) {
		started := timestamps.ActivityStartedAt()
		status := order.Status()
		if started != nil && status != serviceorder.OnHold && !status.IsTerminal() && hasSubject {
			ensured, err := c.EnsureOpenSession(order, subject, sctx, *started, worklog.SourceCheckpoint)
			if err != nil {
				return SessionEffects{}, err
			}
			effects.merge(ensured)
		}
	}

	return effects, nil
}

func (c WorkLogCoordinator) closeAll(sctx SessionContext, endedAt time.Time) (SessionEffects, error) {
	var effects SessionEffects
	for _, session := range sctx.OpenOnOrder {
		if !session.IsOpen() {
			continue
		}
		if err := session.Close(endedAt); err != nil {
			return SessionEffects{}, err
		}
		effects.Closed = append(effects.Closed, session)
	}
	return effects, nil
}

// deriveAfterClose moves an IN_PROGRESS order with a started activity to
// ON_HOLD when no session remains open on it.
func (c WorkLogCoordinator) deriveAfterClose(
	order *serviceorder.ServiceOrder,
	effects *SessionEffects,
	sctx SessionContext,
) error {
	if len(effects.Closed) == 0 {
		return nil
	}
	if order.Status() != serviceorder.InProgress {
		return nil
	}
	if order.Timestamps().ActivityStartedAt() == nil {
		return nil
	}
	for _, session := range sctx.OpenOnOrder {
		if session.IsOpen() {
			return nil
		}
	}

	if err := order.ChangeStatus(serviceorder.OnHold); err != nil {
		return err
	}
	effects.DerivedStatus = serviceorder.OnHold
	return nil
}

func containsKey(keys []serviceorder.CheckpointKey, key serviceorder.CheckpointKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
