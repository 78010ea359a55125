// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. A unit of work spans one business transaction: repository
// operations obtained from it run on the same database transaction, and the
// command's writes plus its audit trail commit or roll back together.
//
// Two transaction flavors are offered. Begin opens a transaction at the
// database's default isolation level; BeginSerializable opens one at
// SERIALIZABLE, used by commands whose check-then-act on open work sessions
// must not race (starting a session, status and checkpoint updates that can
// open one). The partial unique index on work_logs is the backstop should a
// serialization anomaly slip through anyway.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit is a no-op error and safe to defer
// unconditionally.
package postgres

import (
	"context"
	"database/sql"

	"fieldservice/internal/adapters/out/postgres/auditrepo"
	"fieldservice/internal/adapters/out/postgres/orderrepo"
	"fieldservice/internal/adapters/out/postgres/resolutionrepo"
	"fieldservice/internal/adapters/out/postgres/worklogrepo"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one GORM
// database connection. Each business operation gets a fresh instance with
// its own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction across the order, work
// session, audit and resolution repositories, and tracks aggregates modified
// within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a transaction at the default isolation level. Calling
// Begin again on an instance with an active transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	return uow.begin(ctx, nil)
}

// BeginSerializable initiates a SERIALIZABLE transaction. Commands that
// check session exclusivity before writing run under this level; concurrent
// conflicting starts fail at commit instead of both succeeding.
func (uow *GormUnitOfWork) BeginSerializable(ctx context.Context) error {
	return uow.begin(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (uow *GormUnitOfWork) begin(ctx context.Context, opts *sql.TxOptions) error {
	if uow.tx != nil {
		return nil
	}

	if opts != nil {
		uow.tx = uow.db.WithContext(ctx).Begin(opts)
	} else {
		uow.tx = uow.db.WithContext(ctx).Begin()
	}
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction. After
// commit the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction. After
// rollback the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository provides service order persistence within the unit of
// work. Operations run on the active transaction if one exists, otherwise on
// the main connection.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// WorkLogRepository provides work session persistence within the unit of
// work.
func (uow *GormUnitOfWork) WorkLogRepository() ports.WorkLogRepository {
	return worklogrepo.NewGormWorkLogRepository(uow.conn(), uow)
}

// AuditRepository provides audit ledger persistence within the unit of work.
func (uow *GormUnitOfWork) AuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn())
}

// ResolutionReader provides resolution lookups within the unit of work.
func (uow *GormUnitOfWork) ResolutionReader() ports.ResolutionReader {
	return resolutionrepo.NewGormResolutionReader(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Repository implementations call it on Add and Update; the tracked
// set enables post-commit processing such as event publication.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
