package auditrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"

	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit ledger repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append adds the entries to the order's ledger and evicts everything older
// than the most recent serviceorder.AuditLogCap entries. Runs inside the
// caller's transaction so the command's writes and its audit trail commit or
// roll back together.
func (r *GormAuditRepository) Append(ctx context.Context, tenantID, orderID kernel.UUID, entries []serviceorder.AuditEntry) error {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]AuditEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, fromDomain(tenantID, orderID, entry))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Exec(`
		DELETE FROM audit_entries
		WHERE order_id = ?
		  AND seq NOT IN (
			SELECT seq FROM audit_entries
			WHERE order_id = ?
			ORDER BY seq DESC
			LIMIT ?
		  )
	`, orderID.Bytes(), orderID.Bytes(), serviceorder.AuditLogCap).Error
}

// ListRecent returns up to limit of the order's most recent entries, newest
// first. Limits beyond the retention cap are clamped to it.
func (r *GormAuditRepository) ListRecent(ctx context.Context, tenantID, orderID kernel.UUID, limit int) ([]serviceorder.AuditEntry, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > serviceorder.AuditLogCap {
		limit = serviceorder.AuditLogCap
	}

	var dtos []AuditEntryDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID.Bytes(), orderID.Bytes()).
		Order("seq DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]serviceorder.AuditEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
