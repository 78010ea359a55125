package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each
// request/command. This ensures proper isolation between concurrent
// operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. It provides
// transaction control and repositories bound to the running transaction.
// Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction at the store's default
	// isolation level. Sufficient for operations scoped to a single order.
	Begin(ctx context.Context) error

	// BeginSerializable starts a transaction at serializable isolation.
	// Required for operations that run the cross-order exclusivity
	// check-then-act, so two concurrent requests for the same technician
	// cannot both observe "no open session" and both open one.
	BeginSerializable(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current
	// transaction.
	OrderRepository() OrderRepository

	// WorkLogRepository returns a WorkLogRepository bound to the current
	// transaction.
	WorkLogRepository() WorkLogRepository

	// AuditRepository returns an AuditRepository bound to the current
	// transaction.
	AuditRepository() AuditRepository

	// ResolutionReader returns a ResolutionReader bound to the current
	// transaction.
	ResolutionReader() ResolutionReader
}
