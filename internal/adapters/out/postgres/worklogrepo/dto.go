// Package worklogrepo provides data transfer objects and mapping functions
// for work session persistence.
package worklogrepo

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/worklog"

	"github.com/google/uuid"
)

// WorkLogDTO represents the database structure for persisting work sessions.
//
// The partial unique index backs the tenant-wide exclusivity rule: at most
// one open session (ended_at IS NULL) per technician per tenant. Command
// handlers check the rule inside a serializable transaction; the index is
// the database-level backstop.
type WorkLogDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;index"`
	ServiceOrderID uuid.UUID `gorm:"type:uuid;index"`
	UserID         uuid.UUID `gorm:"type:uuid;index"`
	StartedAt      time.Time
	EndedAt        *time.Time
	Note           string
	Source         int
}

// TableName specifies the database table name for work session entities.
func (WorkLogDTO) TableName() string {
	return "work_logs"
}

// OpenSessionIndexDDL is the partial unique index enforcing one open session
// per technician per tenant. GORM cannot express partial indexes in struct
// tags, so migrations run it explicitly after AutoMigrate.
const OpenSessionIndexDDL = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_work_logs_open_per_user
	ON work_logs (tenant_id, user_id)
	WHERE ended_at IS NULL
`

// fromDomain converts a work session to its database representation.
func fromDomain(w *worklog.WorkLog) WorkLogDTO {
	return WorkLogDTO{
		ID:             w.ID().Bytes(),
		TenantID:       w.TenantID().Bytes(),
		ServiceOrderID: w.ServiceOrderID().Bytes(),
		UserID:         w.UserID().Bytes(),
		StartedAt:      w.StartedAt(),
		EndedAt:        w.EndedAt(),
		Note:           w.Note(),
		Source:         int(w.Source()),
	}
}

// toDomain converts a database DTO to a work session entity.
func toDomain(dto WorkLogDTO) (*worklog.WorkLog, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.ServiceOrderID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	return worklog.RestoreWorkLog(
		id,
		tenantID,
		orderID,
		userID,
		dto.StartedAt,
		dto.EndedAt,
		dto.Note,
		worklog.Source(dto.Source),
	)
}
