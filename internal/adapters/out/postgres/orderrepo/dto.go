// Package orderrepo provides data transfer objects and mapping functions for
// service order persistence. It implements the repository pattern for the
// service order aggregate, handling conversion between domain entities and
// database rows.
package orderrepo

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting service order
// aggregates. The six checkpoint timestamps are flattened into nullable
// columns; assignment history lives in its own table.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"type:uuid;index"`
	Title       string
	Description string
	Status      int `gorm:"index"`
	DueDate     *time.Time
	DurationMin *int

	TakenAt            *time.Time
	ArrivedAt          *time.Time
	CheckInAt          *time.Time
	ActivityStartedAt  *time.Time
	ActivityFinishedAt *time.Time
	DeliveredAt        *time.Time

	Assignments []AssignmentDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for service order entities.
func (OrderDTO) TableName() string {
	return "service_orders"
}

// AssignmentDTO represents one row of an order's assignment history.
// Superseded assignments are kept with an inactive state rather than
// deleted, preserving who worked the order.
type AssignmentDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`
	UserID  uuid.UUID `gorm:"type:uuid;index"`
	Role    int
	State   int
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "order_assignments"
}

// fromDomain converts a service order aggregate to its database
// representation, including the full assignment history.
func fromDomain(order *serviceorder.ServiceOrder) OrderDTO {
	ts := order.Timestamps()

	assignments := make([]AssignmentDTO, 0, len(order.Assignments()))
	for _, a := range order.Assignments() {
		assignments = append(assignments, AssignmentDTO{
			ID:      a.ID().Bytes(),
			OrderID: order.ID().Bytes(),
			UserID:  a.UserID().Bytes(),
			Role:    int(a.Role()),
			State:   int(a.State()),
		})
	}

	return OrderDTO{
		ID:          order.ID().Bytes(),
		TenantID:    order.TenantID().Bytes(),
		Title:       order.Title(),
		Description: order.Description(),
		Status:      int(order.Status()),
		DueDate:     order.DueDate(),
		DurationMin: order.DurationMin(),

		TakenAt:            ts.TakenAt(),
		ArrivedAt:          ts.ArrivedAt(),
		CheckInAt:          ts.CheckInAt(),
		ActivityStartedAt:  ts.ActivityStartedAt(),
		ActivityFinishedAt: ts.ActivityFinishedAt(),
		DeliveredAt:        ts.DeliveredAt(),

		Assignments: assignments,
	}
}

// toDomain converts a database DTO to a service order aggregate.
// Reconstructs the checkpoint chain and assignment history using the
// aggregate's restore functions.
func toDomain(dto OrderDTO) (*serviceorder.ServiceOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	timestamps, err := serviceorder.RestoreTimestamps(
		dto.TakenAt,
		dto.ArrivedAt,
		dto.CheckInAt,
		dto.ActivityStartedAt,
		dto.ActivityFinishedAt,
		dto.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}

	assignments := make([]serviceorder.Assignment, 0, len(dto.Assignments))
	for _, a := range dto.Assignments {
		assignmentID, idErr := kernel.UUIDFromBytes(a.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		userID, userErr := kernel.UUIDFromBytes(a.UserID[:])
		if userErr != nil {
			return nil, userErr
		}

		assignment, restoreErr := serviceorder.RestoreAssignment(
			assignmentID,
			userID,
			serviceorder.AssignmentRole(a.Role),
			serviceorder.AssignmentState(a.State),
		)
		if restoreErr != nil {
			return nil, restoreErr
		}
		assignments = append(assignments, assignment)
	}

	return serviceorder.RestoreServiceOrder(
		id,
		tenantID,
		dto.Title,
		dto.Description,
		serviceorder.Status(dto.Status),
		timestamps,
		dto.DueDate,
		dto.DurationMin,
		assignments,
	)
}
