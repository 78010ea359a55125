// Package resolutionrepo reads the resolution records written by the
// reporting surface. The lifecycle core only consumes them: terminal status
// transitions require a complete resolution (both cause and remedy).
package resolutionrepo

import (
	"github.com/google/uuid"
)

// ResolutionDTO represents the stored resolution record of an order. Cause
// and remedy are free text owned by another bounded context; this core only
// checks their presence.
type ResolutionDTO struct {
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`
	Cause    string
	Remedy   string
}

// TableName specifies the database table name for resolution records.
func (ResolutionDTO) TableName() string {
	return "order_resolutions"
}
