package queries

import (
	"context"
	"database/sql"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order's detail projection from the
// database, joining the ACTIVE technician and supervisor assignments.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns ObjectNotFoundError when the order does
// not exist in the tenant.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.title,
			o.description,
			o.status,
			o.due_date,
			o.duration_min,
			o.taken_at,
			o.arrived_at,
			o.check_in_at,
			o.activity_started_at,
			o.activity_finished_at,
			o.delivered_at,
			t.user_id AS technician_id,
			s.user_id AS supervisor_id
		FROM service_orders o
		LEFT JOIN order_assignments t
			ON t.order_id = o.id AND t.role = ? AND t.state = ?
		LEFT JOIN order_assignments s
			ON s.order_id = o.id AND s.role = ? AND s.state = ?
		WHERE o.id = ? AND o.tenant_id = ?
	`,
		serviceorder.AssignmentRoleTechnician, serviceorder.AssignmentActive,
		serviceorder.AssignmentRoleSupervisor, serviceorder.AssignmentActive,
		query.OrderID().Bytes(), query.TenantID().Bytes(),
	).Row()

	var resp GetOrderQueryResponse
	var id uuid.UUID
	var status int
	var technicianID, supervisorID uuid.NullUUID

	err := row.Scan(
		&id,
		&resp.Title,
		&resp.Description,
		&status,
		&resp.DueDate,
		&resp.DurationMin,
		&resp.TakenAt,
		&resp.ArrivedAt,
		&resp.CheckInAt,
		&resp.ActivityStartedAt,
		&resp.ActivityFinishedAt,
		&resp.DeliveredAt,
		&technicianID,
		&supervisorID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ID = orderID
	resp.Status = serviceorder.Status(status).String()

	if resp.TechnicianID, err = optionalUUID(technicianID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.SupervisorID, err = optionalUUID(supervisorID); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func optionalUUID(v uuid.NullUUID) (*kernel.UUID, error) {
	if !v.Valid {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(v.UUID[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
