// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"arivo-ledger/internal/service"
)

// Scheduler runs the daily accrual batch on a cron schedule. The batch is
// idempotent per investment per day, so overlapping or repeated fires only
// cost wasted reads.
type Scheduler struct {
	cron     *cron.Cron
	accruals service.AccrualService
	logger   *slog.Logger
	schedule string
}

// New creates a Scheduler firing on the given cron expression.
func New(accruals service.AccrualService, logger *slog.Logger, schedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:     c,
		accruals: accruals,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the accrual job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runAccrual); err != nil {
		return err
	}
	s.logger.Info("scheduled daily accrual job", "schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and returns a context that is done once any
// in-flight job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runAccrual() {
	ctx := context.Background()
	if _, err := s.accruals.RunDailyAccrual(ctx, time.Now().UTC()); err != nil {
		s.logger.Error("daily accrual job failed", "error", err)
	}
}
