package serviceorder

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
)

// AuditLogCap is the number of most recent audit entries retained per order.
// The ledger is append-only; when the cap is exceeded the oldest entries are
// evicted explicitly by the audit repository.
const AuditLogCap = 200

// auditValueMaxLen bounds the stored length of a single from/to value.
const auditValueMaxLen = 120

// AuditEntry is one recorded field-level change on a service order: who
// changed which field (optionally which leaf of a compound field) from what
// value to what value, and when. Entries are immutable once appended.
type AuditEntry struct {
	At       time.Time
	ByUserID kernel.UUID
	Field    string
	Part     string
	From     string
	To       string
}

// NewAuditEntry creates an audit entry, truncating the from/to values so the
// ledger stays bounded. Part names a leaf under a compound field (e.g. a
// checkpoint key under "timestamps") and may be empty.
func NewAuditEntry(at time.Time, byUserID kernel.UUID, field, part, from, to string) AuditEntry {
	return AuditEntry{
		At:       at,
		ByUserID: byUserID,
		Field:    field,
		Part:     part,
		From:     TruncateAuditValue(from),
		To:       TruncateAuditValue(to),
	}
}

// TruncateAuditValue bounds a recorded value to auditValueMaxLen runes,
// marking the cut with an ellipsis.
func TruncateAuditValue(s string) string {
	runes := []rune(s)
	if len(runes) <= auditValueMaxLen {
		return s
	}
	return string(runes[:auditValueMaxLen]) + "…"
}
