package jobs

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
)

// StaleSession is a work session that has been open longer than the
// configured threshold.
type StaleSession struct {
	SessionID  kernel.UUID
	TenantID   kernel.UUID
	OrderID    kernel.UUID
	OrderTitle string
	UserID     kernel.UUID
	StartedAt  time.Time
}

// StaleSessionReader lists open work sessions that started before the
// cutoff, across all tenants.
type StaleSessionReader interface {
	ListOpenStartedBefore(ctx context.Context, cutoff time.Time) ([]StaleSession, error)
}

// OverdueOrder is a non-terminal order whose due date has passed.
type OverdueOrder struct {
	OrderID  kernel.UUID
	TenantID kernel.UUID
	Title    string
	Status   string
	DueDate  time.Time
}

// OverdueOrderReader lists non-terminal orders past their due date, across
// all tenants.
type OverdueOrderReader interface {
	ListOverdue(ctx context.Context, now time.Time) ([]OverdueOrder, error)
}
