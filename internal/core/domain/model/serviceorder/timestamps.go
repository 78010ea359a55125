package serviceorder

import (
	"fmt"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

// Chain validation errors. The first two are validation failures, the third
// is a conflict: the caller tried to clear a checkpoint that a later one
// still depends on.
var (
	ErrPredecessorMissing   = fmt.Errorf("%w: checkpoint predecessor missing", errs.ErrValueIsInvalid)
	ErrCheckpointOutOfOrder = fmt.Errorf("%w: checkpoint out of order", errs.ErrValueIsInvalid)
	ErrClearBlockedByLater  = fmt.Errorf("%w: clear blocked by later checkpoint", errs.ErrConflict)
)

// CheckpointKey names one of the six ordered progress checkpoints of a
// service order, from dispatch to delivery.
type CheckpointKey int

const (
	CheckpointTaken CheckpointKey = iota
	CheckpointArrived
	CheckpointCheckIn
	CheckpointActivityStarted
	CheckpointActivityFinished
	CheckpointDelivered

	numCheckpoints
)

func getCheckpointStrings() map[CheckpointKey]string {
	return map[CheckpointKey]string{
		CheckpointTaken:            "takenAt",
		CheckpointArrived:          "arrivedAt",
		CheckpointCheckIn:          "checkInAt",
		CheckpointActivityStarted:  "activityStartedAt",
		CheckpointActivityFinished: "activityFinishedAt",
		CheckpointDelivered:        "deliveredAt",
	}
}

// String returns the field name of the checkpoint as used in partial updates
// and audit entries ("takenAt", "arrivedAt", ...).
func (k CheckpointKey) String() string {
	if s, ok := getCheckpointStrings()[k]; ok {
		return s
	}
	return "unknownCheckpoint"
}

// ChainError reports which checkpoint violated which chain rule.
type ChainError struct {
	Key    CheckpointKey
	Reason error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

func (e *ChainError) Unwrap() error {
	return e.Reason
}

// Timestamps is the immutable six-checkpoint chain of a service order. Each
// checkpoint is optional, but the set ones must form a gapless prefix-free
// chain: a checkpoint may only be set when its predecessor is set, and values
// must be monotonically non-decreasing along the chain.
//
// Timestamps is a value object: Apply returns a new validated chain and never
// mutates the receiver. All chain rules live here; no other component
// re-derives them.
type Timestamps struct {
	values [numCheckpoints]*time.Time
}

// NewTimestamps returns an empty chain (no checkpoint recorded).
func NewTimestamps() Timestamps {
	return Timestamps{}
}

// RestoreTimestamps reconstructs a chain from persistence and re-validates
// it end to end, so a corrupted row cannot produce an invalid value object.
func RestoreTimestamps(taken, arrived, checkIn, started, finished, delivered *time.Time) (Timestamps, error) {
	t := Timestamps{values: [numCheckpoints]*time.Time{
		copyTime(taken), copyTime(arrived), copyTime(checkIn),
		copyTime(started), copyTime(finished), copyTime(delivered),
	}}
	if err := t.validateChain(); err != nil {
		return Timestamps{}, err
	}
	return t, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// At returns the recorded time of the given checkpoint, or nil.
func (t Timestamps) At(key CheckpointKey) *time.Time {
	if key < 0 || key >= numCheckpoints {
		return nil
	}
	return copyTime(t.values[key])
}

// TakenAt returns the dispatch-accepted checkpoint, or nil.
func (t Timestamps) TakenAt() *time.Time { return t.At(CheckpointTaken) }

// ArrivedAt returns the on-site arrival checkpoint, or nil.
func (t Timestamps) ArrivedAt() *time.Time { return t.At(CheckpointArrived) }

// CheckInAt returns the customer check-in checkpoint, or nil.
func (t Timestamps) CheckInAt() *time.Time { return t.At(CheckpointCheckIn) }

// ActivityStartedAt returns the work-started checkpoint, or nil.
func (t Timestamps) ActivityStartedAt() *time.Time { return t.At(CheckpointActivityStarted) }

// ActivityFinishedAt returns the work-finished checkpoint, or nil.
func (t Timestamps) ActivityFinishedAt() *time.Time { return t.At(CheckpointActivityFinished) }

// DeliveredAt returns the delivery checkpoint, or nil.
func (t Timestamps) DeliveredAt() *time.Time { return t.At(CheckpointDelivered) }

// TimestampsPatch is a partial update of the checkpoint chain. Each field is
// tri-state: Keep leaves the checkpoint untouched, Clear removes it, Set
// records or corrects it.
type TimestampsPatch struct {
	TakenAt            kernel.Patch[time.Time]
	ArrivedAt          kernel.Patch[time.Time]
	CheckInAt          kernel.Patch[time.Time]
	ActivityStartedAt  kernel.Patch[time.Time]
	ActivityFinishedAt kernel.Patch[time.Time]
	DeliveredAt        kernel.Patch[time.Time]
}

func (p TimestampsPatch) at(key CheckpointKey) kernel.Patch[time.Time] {
	switch key {
	case CheckpointTaken:
		return p.TakenAt
	case CheckpointArrived:
		return p.ArrivedAt
	case CheckpointCheckIn:
		return p.CheckInAt
	case CheckpointActivityStarted:
		return p.ActivityStartedAt
	case CheckpointActivityFinished:
		return p.ActivityFinishedAt
	case CheckpointDelivered:
		return p.DeliveredAt
	default:
		return kernel.Keep[time.Time]()
	}
}

// IsEmpty reports whether the patch touches no checkpoint at all.
func (p TimestampsPatch) IsEmpty() bool {
	for key := CheckpointTaken; key < numCheckpoints; key++ {
		if !p.at(key).IsKeep() {
			return false
		}
	}
	return true
}

// Apply resolves the patch against the current chain and validates the
// result. Rules, checked per touched checkpoint and then end to end over the
// whole resulting chain:
//
//  1. A checkpoint may only be set or modified when its immediate
//     predecessor is set in the resulting chain (ErrPredecessorMissing).
//  2. A checkpoint's value must not precede its predecessor's; equal
//     timestamps are permitted (ErrCheckpointOutOfOrder).
//  3. A checkpoint may not be cleared while a later checkpoint remains set;
//     clearing must cascade from the tail inward (ErrClearBlockedByLater).
//
// The whole-chain revalidation catches inconsistencies introduced by editing
// an earlier checkpoint after later ones were recorded. On any violation the
// receiver is returned unchanged along with a *ChainError.
func (t Timestamps) Apply(p TimestampsPatch) (Timestamps, error) {
	next := t
	for key := CheckpointTaken; key < numCheckpoints; key++ {
		next.values[key] = p.at(key).Apply(next.values[key])
	}

	// Per-change checks give the precise rule violation for each touched key.
	for key := CheckpointTaken; key < numCheckpoints; key++ {
		patch := p.at(key)
		switch {
		case patch.IsKeep():
			continue
		case patch.IsClear():
			if next.hasLaterSet(key) {
				return t, &ChainError{Key: key, Reason: ErrClearBlockedByLater}
			}
		default:
			if err := next.validateAgainstPredecessor(key); err != nil {
				return t, err
			}
		}
	}

	if err := next.validateChain(); err != nil {
		return t, err
	}
	return next, nil
}

// ChangedKeys returns the checkpoints whose recorded values differ between
// before and the receiver, in chain order.
func (t Timestamps) ChangedKeys(before Timestamps) []CheckpointKey {
	var changed []CheckpointKey
	for key := CheckpointTaken; key < numCheckpoints; key++ {
		a, b := before.values[key], t.values[key]
		switch {
		case a == nil && b == nil:
			continue
		case a == nil || b == nil, !a.Equal(*b):
			changed = append(changed, key)
		}
	}
	return changed
}

func (t Timestamps) hasLaterSet(key CheckpointKey) bool {
	for later := key + 1; later < numCheckpoints; later++ {
		if t.values[later] != nil {
			return true
		}
	}
	return false
}

func (t Timestamps) validateAgainstPredecessor(key CheckpointKey) error {
	if key == CheckpointTaken {
		return nil
	}
	pred := t.values[key-1]
	if pred == nil {
		return &ChainError{Key: key, Reason: ErrPredecessorMissing}
	}
	if t.values[key].Before(*pred) {
		return &ChainError{Key: key, Reason: ErrCheckpointOutOfOrder}
	}
	return nil
}

func (t Timestamps) validateChain() error {
	for key := CheckpointArrived; key < numCheckpoints; key++ {
		if t.values[key] == nil {
			continue
		}
		if err := t.validateAgainstPredecessor(key); err != nil {
			return err
		}
	}
	return nil
}
