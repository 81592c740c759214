package scheduler

import (
	"context"
	"fmt"
	"time"

	"neftit_waitlist/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Job is a recurring background task. Immediate jobs also run once at start.
type Job struct {
	Name      string
	Interval  time.Duration
	Immediate bool
	Run       func(ctx context.Context)
}

type Scheduler struct {
	sched gocron.Scheduler
}

func New(ctx context.Context, jobs ...Job) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	for _, job := range jobs {
		if job.Interval <= 0 {
			logger.Logger().Info("Job disabled", zap.String("job", job.Name))
			continue
		}

		opts := []gocron.JobOption{
			gocron.WithName(job.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		}
		if job.Immediate {
			opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
		}

		run := job.Run
		name := job.Name
		_, err := sched.NewJob(
			gocron.DurationJob(job.Interval),
			gocron.NewTask(func() {
				start := time.Now()
				run(ctx)
				logger.Logger().Debug("Job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
			}),
			opts...,
		)
		if err != nil {
			sched.Shutdown()
			return nil, fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
	}

	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	logger.Logger().Info("Scheduler started", zap.Int("jobs", len(s.sched.Jobs())))
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
