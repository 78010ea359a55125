package commands_test

import (
	"context"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *serviceorder.ServiceOrder) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *serviceorder.ServiceOrder) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*serviceorder.ServiceOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*serviceorder.ServiceOrder), args.Error(1)
}

type MockWorkLogRepository struct{ mock.Mock }

func (m *MockWorkLogRepository) Add(ctx context.Context, session *worklog.WorkLog) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockWorkLogRepository) Update(ctx context.Context, session *worklog.WorkLog) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockWorkLogRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*worklog.WorkLog, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*worklog.WorkLog), args.Error(1)
}

func (m *MockWorkLogRepository) GetOpenByOrder(
	ctx context.Context,
	tenantID, serviceOrderID kernel.UUID,
) ([]*worklog.WorkLog, error) {
	args := m.Called(ctx, tenantID, serviceOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*worklog.WorkLog), args.Error(1)
}

func (m *MockWorkLogRepository) GetOpenByUser(
	ctx context.Context,
	tenantID, userID kernel.UUID,
) (*worklog.WorkLog, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*worklog.WorkLog), args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Append(
	ctx context.Context,
	tenantID, orderID kernel.UUID,
	entries []serviceorder.AuditEntry,
) error {
	args := m.Called(ctx, tenantID, orderID, entries)
	return args.Error(0)
}

func (m *MockAuditRepository) ListRecent(
	ctx context.Context,
	tenantID, orderID kernel.UUID,
	limit int,
) ([]serviceorder.AuditEntry, error) {
	args := m.Called(ctx, tenantID, orderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]serviceorder.AuditEntry), args.Error(1)
}

type MockResolutionReader struct{ mock.Mock }

func (m *MockResolutionReader) Get(ctx context.Context, tenantID, orderID kernel.UUID) (ports.Resolution, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).(ports.Resolution), args.Error(1)
}

type MockLifecycleUoW struct{ mock.Mock }

func (m *MockLifecycleUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLifecycleUoW) BeginSerializable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLifecycleUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLifecycleUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLifecycleUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockLifecycleUoW) WorkLogRepository() ports.WorkLogRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkLogRepository)
}

func (m *MockLifecycleUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

func (m *MockLifecycleUoW) ResolutionReader() ports.ResolutionReader {
	args := m.Called()
	return args.Get(0).(ports.ResolutionReader)
}

type MockLifecycleUoWFactory struct{ mock.Mock }

func (m *MockLifecycleUoWFactory) Create() commands.LifecycleUoW {
	args := m.Called()
	return args.Get(0).(commands.LifecycleUoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) BeginSerializable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}
