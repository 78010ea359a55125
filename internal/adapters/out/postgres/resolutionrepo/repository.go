package resolutionrepo

import (
	"context"
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"

	"gorm.io/gorm"
)

// GormResolutionReader implements ResolutionReader using GORM.
type GormResolutionReader struct {
	db *gorm.DB
}

// NewGormResolutionReader creates a new GORM resolution reader.
func NewGormResolutionReader(db *gorm.DB) *GormResolutionReader {
	return &GormResolutionReader{db: db}
}

// Get looks up the order's resolution record. A missing record or a record
// with blank fields reads as an incomplete resolution, not as an error.
func (r *GormResolutionReader) Get(ctx context.Context, tenantID, orderID kernel.UUID) (ports.Resolution, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return ports.Resolution{}, err
	}

	var dto ResolutionDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND tenant_id = ?", orderID.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Resolution{}, nil
		}
		return ports.Resolution{}, err
	}

	return ports.Resolution{
		HasCause:  strings.TrimSpace(dto.Cause) != "",
		HasRemedy: strings.TrimSpace(dto.Remedy) != "",
	}, nil
}
