package postgres

import (
	"fieldservice/internal/adapters/out/postgres/auditrepo"
	"fieldservice/internal/adapters/out/postgres/orderrepo"
	"fieldservice/internal/adapters/out/postgres/resolutionrepo"
	"fieldservice/internal/adapters/out/postgres/worklogrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all lifecycle tables and applies
// the partial unique index that enforces one open work session per
// technician per tenant. AutoMigrate cannot express partial indexes, so the
// index DDL runs separately.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.AssignmentDTO{},
		&worklogrepo.WorkLogDTO{},
		&auditrepo.AuditEntryDTO{},
		&resolutionrepo.ResolutionDTO{},
	); err != nil {
		return err
	}

	return db.Exec(worklogrepo.OpenSessionIndexDDL).Error
}
