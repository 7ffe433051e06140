package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/jhegg/addon-download-count-fetcher/pkg/logger"
)

// Scheduler repeats a collection run at a fixed interval. A run that is due
// while the previous one is still in progress is skipped.
type Scheduler struct {
	interval  time.Duration
	run       func(ctx context.Context)
	scheduler gocron.Scheduler
}

func New(interval time.Duration, run func(ctx context.Context)) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		interval:  interval,
		run:       run,
		scheduler: s,
	}, nil
}

// Start schedules the job and triggers the first run immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	log := logger.Log

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.run(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	log.Info().Dur("interval", s.interval).Msg("scheduler started")

	return nil
}

func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		logger.Log.Error().Err(err).Msg("scheduler shutdown error")
	}
}
