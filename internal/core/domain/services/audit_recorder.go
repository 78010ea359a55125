package services

import (
	"strconv"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
)

// AuditTrailRecorder computes field-level diffs between pre- and
// post-mutation snapshots of an order. One entry is produced per changed
// top-level field, or per changed checkpoint key under the compound
// timestamps field. Session openings and closures get entries of their own.
//
// The recorder never rejects an operation; it only describes outcomes after
// all validators have accepted the change. Appending the entries to the
// capped ledger is the audit repository's job.
type AuditTrailRecorder struct{}

// NewAuditTrailRecorder creates a new AuditTrailRecorder instance.
func NewAuditTrailRecorder() AuditTrailRecorder {
	return AuditTrailRecorder{}
}

// Diff produces one audit entry per field whose value differs between the
// two snapshots, in a stable field order.
func (r AuditTrailRecorder) Diff(
	at time.Time,
	byUserID kernel.UUID,
	before, after serviceorder.Snapshot,
) []serviceorder.AuditEntry {
	var entries []serviceorder.AuditEntry

	add := func(field, from, to string) {
		if from == to {
			return
		}
		entries = append(entries, serviceorder.NewAuditEntry(at, byUserID, field, "", from, to))
	}

	add("status", before.Status.String(), after.Status.String())
	add("title", before.Title, after.Title)
	add("description", before.Description, after.Description)
	add("dueDate", formatTime(before.DueDate), formatTime(after.DueDate))
	add("durationMin", formatInt(before.DurationMin), formatInt(after.DurationMin))
	add("technicianId", formatUUID(before.TechnicianID), formatUUID(after.TechnicianID))
	add("supervisorId", formatUUID(before.SupervisorID), formatUUID(after.SupervisorID))

	for _, key := range after.Timestamps.ChangedKeys(before.Timestamps) {
		entries = append(entries, serviceorder.NewAuditEntry(
			at, byUserID, "timestamps", key.String(),
			formatTime(before.Timestamps.At(key)),
			formatTime(after.Timestamps.At(key)),
		))
	}

	return entries
}

// SessionEntries describes the work-session side effects of an operation.
// Each opened, re-anchored or closed session gets one entry under the
// compound workSession field, keyed by session id.
func (r AuditTrailRecorder) SessionEntries(
	at time.Time,
	byUserID kernel.UUID,
	effects SessionEffects,
) []serviceorder.AuditEntry {
	var entries []serviceorder.AuditEntry

	if opened := effects.Opened; opened != nil {
		entries = append(entries, serviceorder.NewAuditEntry(
			at, byUserID, "workSession", opened.ID().String(),
			"", "OPEN@"+formatTimeValue(opened.StartedAt()),
		))
	}
	if reanchored := effects.Reanchored; reanchored != nil {
		entries = append(entries, serviceorder.NewAuditEntry(
			at, byUserID, "workSession", reanchored.ID().String(),
			"OPEN", "OPEN@"+formatTimeValue(reanchored.StartedAt()),
		))
	}
	for _, closed := range effects.Closed {
		entries = append(entries, serviceorder.NewAuditEntry(
			at, byUserID, "workSession", closed.ID().String(),
			"OPEN", "CLOSED@"+formatTime(closed.EndedAt()),
		))
	}

	return entries
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTimeValue(*t)
}

func formatTimeValue(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatUUID(id *kernel.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
