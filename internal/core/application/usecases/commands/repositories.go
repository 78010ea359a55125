// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, domain coordination, audit recording, persistence.
package commands

import (
	"context"

	"fieldservice/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle. BeginSerializable
	// is used by commands that may open a work session, because the
	// tenant-wide exclusivity check-then-act must not race.
	TxManager interface {
		Begin(ctx context.Context) error
		BeginSerializable(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a
	// transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// WorkLogRepoFactory provides access to the work log repository within a
	// transaction.
	WorkLogRepoFactory interface {
		WorkLogRepository() ports.WorkLogRepository
	}

	// AuditRepoFactory provides access to the audit ledger within a
	// transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// ResolutionReaderFactory provides access to the resolution lookup
	// within a transaction.
	ResolutionReaderFactory interface {
		ResolutionReader() ports.ResolutionReader
	}

	// OrderUoW manages transactions for operations that touch only the
	// order aggregate and its audit ledger (creation, scheduling).
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AuditRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LifecycleUoW manages transactions for operations that may open or
	// close work sessions as a side effect (status changes, checkpoint
	// updates, manual session start/stop).
	//
	// Example:
	//
	//	uow := factory.Create()
	//	err := uow.BeginSerializable(ctx)
	//	defer uow.Rollback(ctx)
	//
	//	orderRepo := uow.OrderRepository()
	//	workLogRepo := uow.WorkLogRepository()
	//	// ... perform operations
	//
	//	err = uow.Commit(ctx)
	LifecycleUoW interface {
		TxManager
		OrderRepoFactory
		WorkLogRepoFactory
		AuditRepoFactory
		ResolutionReaderFactory
	}

	// LifecycleUoWFactory creates new lifecycle unit of work instances.
	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}
)
