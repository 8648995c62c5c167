package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"restaurantadmin/internal/queue"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, fields map[string]any) (string, error)
}

// Scheduler runs in the api process and only enqueues; the worker does the work.
type Scheduler struct {
	cron      *cron.Cron
	queue     Enqueuer
	sweepSpec string
	log       zerolog.Logger
}

func NewScheduler(q Enqueuer, sweepSpec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		queue:     q,
		sweepSpec: sweepSpec,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil || s.sweepSpec == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.sweepSpec, s.EnqueueAvatarSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits up to five seconds for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) EnqueueAvatarSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := s.queue.Enqueue(ctx, queue.TaskAvatarSweep, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("enqueue avatar sweep failed")
		return
	}
	s.log.Debug().Str("message_id", id).Msg("avatar sweep enqueued")
}
