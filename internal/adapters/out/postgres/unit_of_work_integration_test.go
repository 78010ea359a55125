package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fieldservice/internal/adapters/out/postgres"
	"fieldservice/internal/adapters/out/postgres/resolutionrepo"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction behavior across the
// lifecycle repositories.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
	tenantID  kernel.UUID
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres.Migrate(db))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE audit_entries, order_resolutions, work_logs, order_assignments, service_orders").Error)
	suite.tenantID = kernel.NewUUID()
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *serviceorder.ServiceOrder {
	order, err := serviceorder.NewServiceOrder(kernel.NewUUID(), suite.tenantID, "Chiller repair")
	suite.Require().NoError(err)
	return order
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsChanges() {
	ctx := context.Background()
	order := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, order))
	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, suite.tenantID, order.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(order.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsChanges() {
	ctx := context.Background()
	order := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, order))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, suite.tenantID, order.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBeginSerializable_CommitsLikeRegularTransaction() {
	ctx := context.Background()
	order := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.BeginSerializable(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, order))
	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, suite.tenantID, order.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(order.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAuditAppend_EvictsBeyondCap() {
	ctx := context.Background()
	order := suite.newOrder()
	userID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, order))

	auditRepo := uow.AuditRepository()
	at := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	for i := range serviceorder.AuditLogCap + 25 {
		entry := serviceorder.NewAuditEntry(
			at.Add(time.Duration(i)*time.Second), userID,
			"status", "", "OPEN", fmt.Sprintf("change-%d", i))
		suite.Require().NoError(auditRepo.Append(ctx, suite.tenantID, order.ID(), []serviceorder.AuditEntry{entry}))
	}
	suite.Require().NoError(uow.Commit(ctx))

	entries, err := suite.factory.Create().AuditRepository().
		ListRecent(ctx, suite.tenantID, order.ID(), serviceorder.AuditLogCap)
	suite.Require().NoError(err)

	suite.Len(entries, serviceorder.AuditLogCap)
	// Newest first; the oldest 25 entries were evicted.
	suite.Equal(fmt.Sprintf("change-%d", serviceorder.AuditLogCap+24), entries[0].To)
	suite.Equal("change-25", entries[len(entries)-1].To)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestResolutionReader_MissingRecordReadsIncomplete() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	resolution, err := suite.factory.Create().ResolutionReader().Get(ctx, suite.tenantID, orderID)
	suite.Require().NoError(err)
	suite.False(resolution.IsComplete())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestResolutionReader_CompleteRecord() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	suite.Require().NoError(suite.db.Create(&resolutionrepo.ResolutionDTO{
		OrderID:  orderID.Bytes(),
		TenantID: suite.tenantID.Bytes(),
		Cause:    "compressor bearing seized",
		Remedy:   "bearing replaced, refrigerant topped up",
	}).Error)

	resolution, err := suite.factory.Create().ResolutionReader().Get(ctx, suite.tenantID, orderID)
	suite.Require().NoError(err)
	suite.True(resolution.IsComplete())

	// Whitespace-only fields do not count as recorded.
	suite.Require().NoError(suite.db.Model(&resolutionrepo.ResolutionDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Update("remedy", "   ").Error)

	resolution, err = suite.factory.Create().ResolutionReader().Get(ctx, suite.tenantID, orderID)
	suite.Require().NoError(err)
	suite.True(resolution.HasCause)
	suite.False(resolution.HasRemedy)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
