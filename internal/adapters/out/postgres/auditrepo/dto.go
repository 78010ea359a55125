// Package auditrepo persists the per-order audit ledger. The ledger is
// append-only and capped at serviceorder.AuditLogCap entries per order; the
// oldest entries are evicted inside the same transaction as the append.
package auditrepo

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"

	"github.com/google/uuid"
)

// AuditEntryDTO represents one row of an order's audit ledger. Seq provides
// a total append order per table, used both for "newest first" reads and for
// cap eviction.
type AuditEntryDTO struct {
	Seq      int64     `gorm:"primaryKey;autoIncrement"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`
	OrderID  uuid.UUID `gorm:"type:uuid;index"`
	At       time.Time
	ByUserID uuid.UUID `gorm:"type:uuid"`
	Field    string
	Part     string
	OldValue string
	NewValue string
}

// TableName specifies the database table name for audit entries.
func (AuditEntryDTO) TableName() string {
	return "audit_entries"
}

// fromDomain converts an audit entry to its database representation.
func fromDomain(tenantID, orderID kernel.UUID, entry serviceorder.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		TenantID: tenantID.Bytes(),
		OrderID:  orderID.Bytes(),
		At:       entry.At,
		ByUserID: entry.ByUserID.Bytes(),
		Field:    entry.Field,
		Part:     entry.Part,
		OldValue: entry.From,
		NewValue: entry.To,
	}
}

// toDomain converts a database DTO to an audit entry.
func toDomain(dto AuditEntryDTO) (serviceorder.AuditEntry, error) {
	byUserID, err := kernel.UUIDFromBytes(dto.ByUserID[:])
	if err != nil {
		return serviceorder.AuditEntry{}, err
	}

	return serviceorder.AuditEntry{
		At:       dto.At,
		ByUserID: byUserID,
		Field:    dto.Field,
		Part:     dto.Part,
		From:     dto.OldValue,
		To:       dto.NewValue,
	}, nil
}
