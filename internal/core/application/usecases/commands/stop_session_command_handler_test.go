package commands_test

import (
	"testing"
	"time"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStopSessionCommandHandler_Handle_ClosesSession(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	techID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, techID, kernel.RoleTech)

	order := newTenantOrder(t, tenantID)
	require.NoError(t, order.AssignTechnician(techID))

	session, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, order.ID(), techID,
		time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), worklog.SourceManual)
	require.NoError(t, err)

	cmd, err := commands.NewStopSessionCommand(order.ID(), session.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	auditRepo := new(MockAuditRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("Get", ctx, tenantID, session.ID()).Return(session, nil).Once(),
		workLogRepo.On("GetOpenByOrder", ctx, tenantID, order.ID()).
			Return([]*worklog.WorkLog{session}, nil).Once(),
		workLogRepo.On("Update", ctx, mock.AnythingOfType("*worklog.WorkLog")).Return(nil).Once(),
		uow.On("AuditRepository").Return(auditRepo).Once(),
		auditRepo.On("Append", ctx, tenantID, order.ID(), mock.AnythingOfType("[]serviceorder.AuditEntry")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStopSessionCommandHandler(factory)
	closed, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
	assert.NotNil(t, closed.EndedAt())

	// Activity never started, so closing the last session changes no status.
	assert.Equal(t, serviceorder.Open, order.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	entries := auditRepo.Calls[0].Arguments[3].([]serviceorder.AuditEntry)
	require.Len(t, entries, 1)
	assert.Equal(t, "workSession", entries[0].Field)
	assert.Equal(t, session.ID().String(), entries[0].Part)
}

func TestStopSessionCommandHandler_Handle_LastSessionDerivesOnHold(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	techID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, techID, kernel.RoleTech)

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	order := newTenantOrder(t, tenantID)
	require.NoError(t, order.AssignTechnician(techID))
	require.NoError(t, order.ChangeStatus(serviceorder.InProgress))
	require.NoError(t, order.ApplyTimestamps(serviceorder.TimestampsPatch{
		TakenAt:           kernel.Set(base),
		ArrivedAt:         kernel.Set(base.Add(30 * time.Minute)),
		CheckInAt:         kernel.Set(base.Add(45 * time.Minute)),
		ActivityStartedAt: kernel.Set(base.Add(time.Hour)),
	}))

	session, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, order.ID(), techID,
		base.Add(time.Hour), worklog.SourceCheckpoint)
	require.NoError(t, err)

	cmd, err := commands.NewStopSessionCommand(order.ID(), session.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	auditRepo := new(MockAuditRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("Get", ctx, tenantID, session.ID()).Return(session, nil).Once(),
		workLogRepo.On("GetOpenByOrder", ctx, tenantID, order.ID()).
			Return([]*worklog.WorkLog{session}, nil).Once(),
		workLogRepo.On("Update", ctx, mock.AnythingOfType("*worklog.WorkLog")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*serviceorder.ServiceOrder")).Return(nil).Once(),
		uow.On("AuditRepository").Return(auditRepo).Once(),
		auditRepo.On("Append", ctx, tenantID, order.ID(), mock.AnythingOfType("[]serviceorder.AuditEntry")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStopSessionCommandHandler(factory)
	closed, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
	assert.Equal(t, serviceorder.OnHold, order.Status())

	entries := auditRepo.Calls[0].Arguments[3].([]serviceorder.AuditEntry)
	require.Len(t, entries, 2)
	assert.Equal(t, "status", entries[0].Field)
	assert.Equal(t, "IN_PROGRESS", entries[0].From)
	assert.Equal(t, "ON_HOLD", entries[0].To)
	assert.Equal(t, "workSession", entries[1].Field)
}

func TestStopSessionCommandHandler_Handle_OtherSessionStillOpenKeepsStatus(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, kernel.NewUUID(), kernel.RoleAdmin)

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	techID := kernel.NewUUID()
	order := newTenantOrder(t, tenantID)
	require.NoError(t, order.AssignTechnician(techID))
	require.NoError(t, order.ChangeStatus(serviceorder.InProgress))
	require.NoError(t, order.ApplyTimestamps(serviceorder.TimestampsPatch{
		TakenAt:           kernel.Set(base),
		ArrivedAt:         kernel.Set(base.Add(30 * time.Minute)),
		CheckInAt:         kernel.Set(base.Add(45 * time.Minute)),
		ActivityStartedAt: kernel.Set(base.Add(time.Hour)),
	}))

	session, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, order.ID(), techID,
		base.Add(time.Hour), worklog.SourceManual)
	require.NoError(t, err)
	other, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, order.ID(), kernel.NewUUID(),
		base.Add(time.Hour), worklog.SourceManual)
	require.NoError(t, err)

	cmd, err := commands.NewStopSessionCommand(order.ID(), session.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	auditRepo := new(MockAuditRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("Get", ctx, tenantID, session.ID()).Return(session, nil).Once(),
		workLogRepo.On("GetOpenByOrder", ctx, tenantID, order.ID()).
			Return([]*worklog.WorkLog{session, other}, nil).Once(),
		workLogRepo.On("Update", ctx, mock.AnythingOfType("*worklog.WorkLog")).Return(nil).Once(),
		uow.On("AuditRepository").Return(auditRepo).Once(),
		auditRepo.On("Append", ctx, tenantID, order.ID(), mock.AnythingOfType("[]serviceorder.AuditEntry")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStopSessionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, serviceorder.InProgress, order.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStopSessionCommandHandler_Handle_TechnicianCannotStopOthersSession(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, kernel.NewUUID(), kernel.RoleTech)

	order := newTenantOrder(t, tenantID)
	session, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, order.ID(), kernel.NewUUID(),
		time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), worklog.SourceManual)
	require.NoError(t, err)

	cmd, err := commands.NewStopSessionCommand(order.ID(), session.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("Get", ctx, tenantID, session.ID()).Return(session, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStopSessionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.True(t, session.IsOpen())
	workLogRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStopSessionCommandHandler_Handle_SessionOnAnotherOrderNotFound(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	actor := newTestActor(t, tenantID, kernel.NewUUID(), kernel.RoleAdmin)

	order := newTenantOrder(t, tenantID)
	otherOrderID := kernel.NewUUID()
	session, err := worklog.NewWorkLog(kernel.NewUUID(), tenantID, otherOrderID, kernel.NewUUID(),
		time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), worklog.SourceManual)
	require.NoError(t, err)

	cmd, err := commands.NewStopSessionCommand(order.ID(), session.ID(), actor)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	workLogRepo := new(MockWorkLogRepository)
	uow := new(MockLifecycleUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("WorkLogRepository").Return(workLogRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, order.ID()).Return(order, nil).Once(),
		workLogRepo.On("Get", ctx, tenantID, session.ID()).Return(session, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStopSessionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.True(t, session.IsOpen())
}
