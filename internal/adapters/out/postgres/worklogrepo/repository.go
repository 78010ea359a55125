package worklogrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkLogRepository implements WorkLogRepository using GORM. All reads
// and writes are scoped to a tenant.
type GormWorkLogRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkLogRepository creates a new GORM work session repository.
func NewGormWorkLogRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkLogRepository {
	return &GormWorkLogRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new work session to the database.
func (r *GormWorkLogRepository) Add(ctx context.Context, session *worklog.WorkLog) error {
	if err := session.Validate(); err != nil {
		return err
	}

	dto := fromDomain(session)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(session.ID(), session)
	return nil
}

// Update saves an existing work session. All columns are written so a close
// (ended_at set) and a reanchor (started_at moved) both persist.
func (r *GormWorkLogRepository) Update(ctx context.Context, session *worklog.WorkLog) error {
	if err := session.Validate(); err != nil {
		return err
	}

	dto := fromDomain(session)
	result := r.db.WithContext(ctx).
		Model(&WorkLogDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(session.ID(), session)
	return nil
}

// Get retrieves a work session by ID within the tenant.
func (r *GormWorkLogRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*worklog.WorkLog, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto WorkLogDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("workLog", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenByOrder retrieves all open sessions on one order, oldest first.
func (r *GormWorkLogRepository) GetOpenByOrder(ctx context.Context, tenantID, serviceOrderID kernel.UUID) ([]*worklog.WorkLog, error) {
	if err := errors.Join(tenantID.Validate(), serviceOrderID.Validate()); err != nil {
		return nil, err
	}

	var dtos []WorkLogDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND service_order_id = ? AND ended_at IS NULL",
			tenantID.Bytes(), serviceOrderID.Bytes()).
		Order("started_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*worklog.WorkLog, 0, len(dtos))
	for _, dto := range dtos {
		session, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// GetOpenByUser retrieves the technician's open session anywhere in the
// tenant, or nil when the technician has none. The exclusivity rule keeps
// this at most one row.
func (r *GormWorkLogRepository) GetOpenByUser(ctx context.Context, tenantID, userID kernel.UUID) (*worklog.WorkLog, error) {
	if err := errors.Join(tenantID.Validate(), userID.Validate()); err != nil {
		return nil, err
	}

	var dto WorkLogDTO
	err := r.db.WithContext(ctx).
		First(&dto, "tenant_id = ? AND user_id = ? AND ended_at IS NULL",
			tenantID.Bytes(), userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toDomain(dto)
}
