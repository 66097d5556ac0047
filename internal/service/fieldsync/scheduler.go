package fieldsync

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic catalog refreshes on a cron schedule. It is only
// constructed when a schedule is configured; without one, imports run solely
// on admin-triggered actions.
type Scheduler struct {
	cron   *cron.Cron
	svc    *Service
	logger *slog.Logger
}

// NewScheduler creates a catalog refresh scheduler for the given cron
// expression.
func NewScheduler(svc *Service, schedule string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		svc:    svc,
		logger: logger.With("component", "fieldsync-scheduler"),
	}

	_, err := s.cron.AddFunc(schedule, func() {
		ctx := context.Background()
		state, err := svc.CheckForUpdates(ctx)
		if err != nil {
			s.logger.Warn("scheduled staleness check failed", "error", err)
			return
		}
		if state != StateStale {
			s.logger.Debug("catalog up to date", "state", string(state))
			return
		}
		count, err := svc.ImportFields(ctx)
		if err != nil {
			s.logger.Warn("scheduled import failed", "error", err)
			return
		}
		s.logger.Info("scheduled import completed", "fields", count)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("catalog refresh scheduler started")
}

// Stop gracefully stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("catalog refresh scheduler stopped")
}
