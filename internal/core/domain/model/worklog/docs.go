// Package worklog contains the WorkLog aggregate: one contiguous,
// time-tracked work session by one technician on one service order.
//
// The tenant-wide rule that a technician holds at most one open session at
// any instant is enforced by the WorkLogCoordinator domain service and
// backstopped by a partial unique index in the persistence layer; the
// aggregate itself only guards its own session lifecycle (open once, close
// once, never negative length).
package worklog
