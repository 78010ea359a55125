package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StaleSessionJob watches for work sessions left open past a maximum age.
// Technicians forget to stop their timer; the job surfaces those sessions in
// the logs every five minutes so operators can follow up.
type StaleSessionJob struct {
	reader StaleSessionReader
	maxAge time.Duration
	cron   *cron.Cron
	logger *zap.Logger
}

// NewStaleSessionJob creates a new job flagging sessions open longer than
// maxAge.
func NewStaleSessionJob(reader StaleSessionReader, maxAge time.Duration, logger *zap.Logger) *StaleSessionJob {
	return &StaleSessionJob{
		reader: reader,
		maxAge: maxAge,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With(zap.String("component", "stale_session_job")),
	}
}

// Start begins the stale session job, running every five minutes.
func (j *StaleSessionJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		j.runOnce(context.Background(), time.Now())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Stale session job started (running every five minutes)")
	return nil
}

// Stop stops the stale session job.
func (j *StaleSessionJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Stale session job stopped")
}

func (j *StaleSessionJob) runOnce(ctx context.Context, now time.Time) {
	sessions, err := j.reader.ListOpenStartedBefore(ctx, now.Add(-j.maxAge))
	if err != nil {
		j.logger.Error("Stale session scan failed", zap.Error(err))
		return
	}

	for _, session := range sessions {
		j.logger.Warn("Work session open past maximum age",
			zap.String("sessionId", session.SessionID.String()),
			zap.String("tenantId", session.TenantID.String()),
			zap.String("orderId", session.OrderID.String()),
			zap.String("orderTitle", session.OrderTitle),
			zap.String("userId", session.UserID.String()),
			zap.Time("startedAt", session.StartedAt),
			zap.Duration("openFor", now.Sub(session.StartedAt)),
		)
	}
}
