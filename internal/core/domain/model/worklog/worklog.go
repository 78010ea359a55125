package worklog

import (
	"errors"
	"fmt"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

var (
	// ErrWorkLogIsNotConstructed is returned when a WorkLog was not created
	// through NewWorkLog or RestoreWorkLog.
	ErrWorkLogIsNotConstructed = errors.New("WorkLog must be created via NewWorkLog constructor")

	// ErrAlreadyClosed is returned when closing or re-anchoring a session
	// that already has an end time.
	ErrAlreadyClosed = fmt.Errorf("%w: work session is already closed", errs.ErrConflict)
)

// Source records which pathway opened a work session.
type Source int

const (
	SourceUnknown Source = iota

	// SourceManual marks sessions opened by an explicit start-work action.
	SourceManual

	// SourceCheckpoint marks sessions opened because the activity-started
	// checkpoint was recorded.
	SourceCheckpoint

	// SourceStatus marks sessions opened by a status transition
	// (ON_HOLD resumed to IN_PROGRESS).
	SourceStatus
)

func getSourceStrings() map[Source]string {
	return map[Source]string{
		SourceUnknown:    "UNKNOWN",
		SourceManual:     "MANUAL",
		SourceCheckpoint: "CHECKPOINT",
		SourceStatus:     "STATUS",
	}
}

// String returns the wire name of the source.
func (s Source) String() string {
	if str, ok := getSourceStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks that the source is one of the defined values.
func (s Source) Validate() error {
	if s != SourceManual && s != SourceCheckpoint && s != SourceStatus {
		return errs.NewValueIsInvalidErrorWithCause("source", fmt.Errorf("%d is not a valid work log source", s))
	}
	return nil
}

// WorkLog is one contiguous work session by one technician on one service
// order. A session with no end time is open; the lifecycle core guarantees
// that a technician holds at most one open session across the whole tenant,
// regardless of which order it belongs to.
//
// Sessions are closed, never deleted; together they form the immutable
// historical ledger of technician time.
type WorkLog struct {
	id             kernel.UUID
	tenantID       kernel.UUID
	serviceOrderID kernel.UUID
	userID         kernel.UUID
	startedAt      time.Time
	endedAt        *time.Time
	note           string
	source         Source

	isConstructed bool
}

// NewWorkLog opens a new session for the technician on the order at the
// given instant.
func NewWorkLog(id, tenantID, serviceOrderID, userID kernel.UUID, startedAt time.Time, source Source) (*WorkLog, error) {
	w := &WorkLog{
		startedAt:     startedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		w.setID(id),
		w.setTenantID(tenantID),
		w.setServiceOrderID(serviceOrderID),
		w.setUserID(userID),
		w.setSource(source),
	); err != nil {
		return nil, err
	}

	return w, nil
}

// RestoreWorkLog reconstructs a session from persistence.
func RestoreWorkLog(
	id, tenantID, serviceOrderID, userID kernel.UUID,
	startedAt time.Time,
	endedAt *time.Time,
	note string,
	source Source,
) (*WorkLog, error) {
	w, err := NewWorkLog(id, tenantID, serviceOrderID, userID, startedAt, source)
	if err != nil {
		return nil, err
	}

	w.note = note
	if endedAt != nil {
		v := *endedAt
		w.endedAt = &v
	}

	return w, nil
}

// Validate ensures the session was created through a constructor.
func (w *WorkLog) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWorkLogIsNotConstructed
	}
	return nil
}

// ID returns the session's unique identifier.
func (w *WorkLog) ID() kernel.UUID { return w.id }

// TenantID returns the tenant the session belongs to.
func (w *WorkLog) TenantID() kernel.UUID { return w.tenantID }

// ServiceOrderID returns the order the session was worked on.
func (w *WorkLog) ServiceOrderID() kernel.UUID { return w.serviceOrderID }

// UserID returns the technician who worked the session.
func (w *WorkLog) UserID() kernel.UUID { return w.userID }

// StartedAt returns the session's start time.
func (w *WorkLog) StartedAt() time.Time { return w.startedAt }

// EndedAt returns the session's end time, or nil while the session is open.
func (w *WorkLog) EndedAt() *time.Time {
	if w.endedAt == nil {
		return nil
	}
	v := *w.endedAt
	return &v
}

// Note returns the free-form note attached to the session.
func (w *WorkLog) Note() string { return w.note }

// Source returns the pathway that opened the session.
func (w *WorkLog) Source() Source { return w.source }

// IsOpen reports whether the session has no recorded end time.
func (w *WorkLog) IsOpen() bool { return w.endedAt == nil }

// SetNote replaces the session's note.
func (w *WorkLog) SetNote(note string) { w.note = note }

// Close ends the session at the given instant. An end time before the start
// is clamped to the start, yielding a zero-length session rather than a
// negative one. Closing an already closed session returns ErrAlreadyClosed.
func (w *WorkLog) Close(endedAt time.Time) error {
	if w.endedAt != nil {
		return ErrAlreadyClosed
	}
	if endedAt.Before(w.startedAt) {
		endedAt = w.startedAt
	}
	w.endedAt = &endedAt
	return nil
}

// Reanchor corrects the start time of an open session, used when the
// activity-started checkpoint is edited while the session is running.
func (w *WorkLog) Reanchor(startedAt time.Time) error {
	if w.endedAt != nil {
		return ErrAlreadyClosed
	}
	w.startedAt = startedAt
	return nil
}

func (w *WorkLog) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *WorkLog) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}
	w.tenantID = tenantID
	return nil
}

func (w *WorkLog) setServiceOrderID(serviceOrderID kernel.UUID) error {
	if err := serviceOrderID.Validate(); err != nil {
		return err
	}
	w.serviceOrderID = serviceOrderID
	return nil
}

func (w *WorkLog) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	w.userID = userID
	return nil
}

func (w *WorkLog) setSource(source Source) error {
	if err := source.Validate(); err != nil {
		return err
	}
	w.source = source
	return nil
}
