package commands_test

import (
	"testing"
	"time"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartSessionCommandHandler_Handle_OpensNewSession(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	techID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, techID, kernel.RoleTech)

	order := newTenantOrder(t, tenantID)
	require.NoError(t, order.AssignTechnician(techID))

	cmd, err := commands.NewStartSessionCommand(order.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	auditRepo := new(MockAuditRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("BeginSerializable", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("GetOpenByOrder", ctx, tenantID, order.ID()).Return([]*worklog.WorkLog{}, nil).Once(),
		workLogRepo.On("GetOpenByUser", ctx, tenantID, techID).Return(nil, nil).Once(),
		workLogRepo.On("Add", ctx, mock.AnythingOfType("*worklog.WorkLog")).Return(nil).Once(),
		uow.On("AuditRepository").Return(auditRepo).Once(),
		auditRepo.On("Append", ctx, tenantID, order.ID(), mock.AnythingOfType("[]serviceorder.AuditEntry")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartSessionCommandHandler(factory)
	session, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.UserID().IsEqual(techID))
	assert.True(t, session.ServiceOrderID().IsEqual(order.ID()))
	assert.True(t, session.IsOpen())
	assert.Equal(t, worklog.SourceManual, session.Source())

	uow.AssertExpectations(t)
	workLogRepo.AssertExpectations(t)
}

func TestStartSessionCommandHandler_Handle_IdempotentForOpenSessionOnOrder(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	techID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, techID, kernel.RoleTech)

	order := newTenantOrder(t, tenantID)
	require.NoError(t, order.AssignTechnician(techID))

	startedAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	existing, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, order.ID(), techID, startedAt, worklog.SourceManual)
	require.NoError(t, err)

	cmd, err := commands.NewStartSessionCommand(order.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("BeginSerializable", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("GetOpenByOrder", ctx, tenantID, order.ID()).
			Return([]*worklog.WorkLog{existing}, nil).Once(),
		workLogRepo.On("GetOpenByUser", ctx, tenantID, techID).Return(existing, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartSessionCommandHandler(factory)
	session, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Same(t, existing, session)
	assert.Equal(t, startedAt, session.StartedAt())
	workLogRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestStartSessionCommandHandler_Handle_OpenSessionElsewhereConflicts(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	techID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, techID, kernel.RoleTech)

	order := newTenantOrder(t, tenantID)
	require.NoError(t, order.AssignTechnician(techID))

	otherOrder := newTenantOrder(t, tenantID)
	elsewhere, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, otherOrder.ID(), techID,
		time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), worklog.SourceManual)
	require.NoError(t, err)

	cmd, err := commands.NewStartSessionCommand(order.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("BeginSerializable", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("GetOpenByOrder", ctx, tenantID, order.ID()).Return([]*worklog.WorkLog{}, nil).Once(),
		workLogRepo.On("GetOpenByUser", ctx, tenantID, techID).Return(elsewhere, nil).Once(),
		orderRepo.On("Get", ctx, tenantID, otherOrder.ID()).Return(otherOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartSessionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	var conflictErr *errs.OpenSessionConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, otherOrder.ID().String(), conflictErr.OrderID)
	assert.Equal(t, otherOrder.Title(), conflictErr.OrderTitle)
	workLogRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestStartSessionCommandHandler_Handle_AdminTargetsAssignedTechnician(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, kernel.NewUUID(), kernel.RoleAdmin)

	order := newTenantOrder(t, tenantID)
	techID := kernel.NewUUID()
	require.NoError(t, order.AssignTechnician(techID))

	cmd, err := commands.NewStartSessionCommand(order.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	auditRepo := new(MockAuditRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("BeginSerializable", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("GetOpenByOrder", ctx, tenantID, order.ID()).Return([]*worklog.WorkLog{}, nil).Once(),
		workLogRepo.On("GetOpenByUser", ctx, tenantID, techID).Return(nil, nil).Once(),
		workLogRepo.On("Add", ctx, mock.AnythingOfType("*worklog.WorkLog")).Return(nil).Once(),
		uow.On("AuditRepository").Return(auditRepo).Once(),
		auditRepo.On("Append", ctx, tenantID, order.ID(), mock.AnythingOfType("[]serviceorder.AuditEntry")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartSessionCommandHandler(factory)
	session, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, session.UserID().IsEqual(techID))
}

func TestStartSessionCommandHandler_Handle_UnassignedTechnicianDenied(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, kernel.NewUUID(), kernel.RoleTech)

	order := newTenantOrder(t, tenantID)
	require.NoError(t, order.AssignTechnician(kernel.NewUUID())) // someone else

	cmd, err := commands.NewStartSessionCommand(order.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("BeginSerializable", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartSessionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	workLogRepo.AssertNotCalled(t, "GetOpenByOrder", mock.Anything, mock.Anything, mock.Anything)
	workLogRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestStartSessionCommandHandler_Handle_NoSubjectTechnician(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, kernel.NewUUID(), kernel.RoleAdmin)

	order := newTenantOrder(t, tenantID) // no technician assigned

	cmd, err := commands.NewStartSessionCommand(order.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("BeginSerializable", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartSessionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	workLogRepo.AssertNotCalled(t, "GetOpenByOrder", mock.Anything, mock.Anything, mock.Anything)
}
