package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler enqueues periodic price refreshes on a cron schedule. Ticks are
// funneled through a debouncer so a schedule firing close to a manual refresh
// does not double-enqueue.
type Scheduler struct {
	cron *cron.Cron
	deb  *Debouncer
	log  *zap.Logger
}

func NewScheduler(schedule string, debounce time.Duration, enqueue func(ctx context.Context) error, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{cron: cron.New(), log: log}
	s.deb = NewDebouncer(debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := enqueue(ctx); err != nil {
			log.Warn("scheduled_refresh_enqueue_failed", zap.Error(err))
		}
	})
	if _, err := s.cron.AddFunc(schedule, s.deb.Trigger); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs the schedule until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.log.Info("scheduler_started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.deb.Stop()
	s.log.Info("scheduler_stopped")
}
