package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OverdueOrderJob reports orders whose due date has passed while the order
// is still in a non-terminal status. Runs hourly.
type OverdueOrderJob struct {
	reader OverdueOrderReader
	cron   *cron.Cron
	logger *zap.Logger
}

// NewOverdueOrderJob creates a new job reporting overdue orders.
func NewOverdueOrderJob(reader OverdueOrderReader, logger *zap.Logger) *OverdueOrderJob {
	return &OverdueOrderJob{
		reader: reader,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With(zap.String("component", "overdue_order_job")),
	}
}

// Start begins the overdue order job, running at the top of every hour.
func (j *OverdueOrderJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		j.runOnce(context.Background(), time.Now())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Overdue order job started (running hourly)")
	return nil
}

// Stop stops the overdue order job.
func (j *OverdueOrderJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Overdue order job stopped")
}

func (j *OverdueOrderJob) runOnce(ctx context.Context, now time.Time) {
	orders, err := j.reader.ListOverdue(ctx, now)
	if err != nil {
		j.logger.Error("Overdue order scan failed", zap.Error(err))
		return
	}

	for _, order := range orders {
		j.logger.Warn("Order past due date",
			zap.String("orderId", order.OrderID.String()),
			zap.String("tenantId", order.TenantID.String()),
			zap.String("title", order.Title),
			zap.String("status", order.Status),
			zap.Time("dueDate", order.DueDate),
			zap.Duration("overdueBy", now.Sub(order.DueDate)),
		)
	}
}
