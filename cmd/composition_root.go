package cmd

import (
	"strconv"
	"time"

	"fieldservice/internal/adapters/out/postgres"
	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/jobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultStaleSessionMaxAge = 8 * time.Hour

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *zap.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *zap.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateScheduleOrderCommandHandler() commands.ScheduleOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewScheduleOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateStatusCommandHandler() commands.UpdateStatusCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateTimestampsCommandHandler() commands.UpdateTimestampsCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateTimestampsCommandHandler(f)
}

func (c *CompositionRoot) CreateStartSessionCommandHandler() commands.StartSessionCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartSessionCommandHandler(f)
}

func (c *CompositionRoot) CreateStopSessionCommandHandler() commands.StopSessionCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStopSessionCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenSessionsQueryHandler() queries.GetOpenSessionsQueryHandler {
	return queries.NewGetOpenSessionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAuditTrailQueryHandler() queries.GetAuditTrailQueryHandler {
	return queries.NewGetAuditTrailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	reader := postgres.NewGormReportingReader(c.gormDB)
	return jobs.NewJobManager(reader, reader, c.staleSessionMaxAge(), c.logger)
}

func (c *CompositionRoot) staleSessionMaxAge() time.Duration {
	hours, err := strconv.Atoi(c.config.StaleSessionMaxAgeHours)
	if err != nil || hours <= 0 {
		return defaultStaleSessionMaxAge
	}
	return time.Duration(hours) * time.Hour
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}
