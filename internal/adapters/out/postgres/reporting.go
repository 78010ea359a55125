package postgres

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/jobs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ jobs.StaleSessionReader = &GormReportingReader{}
var _ jobs.OverdueOrderReader = &GormReportingReader{}

// GormReportingReader serves the background jobs' cross-tenant scans. Unlike
// the repositories it is read-only and deliberately not tenant-scoped: the
// jobs report over the whole installation.
type GormReportingReader struct {
	db *gorm.DB
}

// NewGormReportingReader creates a new reporting reader.
func NewGormReportingReader(db *gorm.DB) *GormReportingReader {
	return &GormReportingReader{db: db}
}

// ListOpenStartedBefore returns open work sessions that started before the
// cutoff, oldest first.
func (r *GormReportingReader) ListOpenStartedBefore(
	ctx context.Context, cutoff time.Time,
) ([]jobs.StaleSession, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT w.id, w.tenant_id, w.service_order_id, o.title, w.user_id, w.started_at
		FROM work_logs w
		JOIN service_orders o ON o.id = w.service_order_id
		WHERE w.ended_at IS NULL AND w.started_at < ?
		ORDER BY w.started_at`,
		cutoff,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]jobs.StaleSession, 0)
	for rows.Next() {
		var session jobs.StaleSession
		var id, tenantID, orderID, userID uuid.UUID

		err = rows.Scan(&id, &tenantID, &orderID, &session.OrderTitle, &userID, &session.StartedAt)
		if err != nil {
			return nil, err
		}

		if session.SessionID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if session.TenantID, err = kernel.UUIDFromBytes(tenantID[:]); err != nil {
			return nil, err
		}
		if session.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if session.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}

		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// ListOverdue returns non-terminal orders whose due date lies before now,
// most overdue first.
func (r *GormReportingReader) ListOverdue(
	ctx context.Context, now time.Time,
) ([]jobs.OverdueOrder, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT id, tenant_id, title, status, due_date
		FROM service_orders
		WHERE due_date IS NOT NULL AND due_date < ? AND status NOT IN (?, ?, ?)
		ORDER BY due_date`,
		now, serviceorder.Completed, serviceorder.Closed, serviceorder.Canceled,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]jobs.OverdueOrder, 0)
	for rows.Next() {
		var order jobs.OverdueOrder
		var id, tenantID uuid.UUID
		var status int

		err = rows.Scan(&id, &tenantID, &order.Title, &status, &order.DueDate)
		if err != nil {
			return nil, err
		}

		if order.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if order.TenantID, err = kernel.UUIDFromBytes(tenantID[:]); err != nil {
			return nil, err
		}
		order.Status = serviceorder.Status(status).String()

		orders = append(orders, order)
	}

	return orders, rows.Err()
}
