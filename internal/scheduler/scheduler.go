package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs. Each registered job is wrapped with
// cron's SkipIfStillRunning chain, so a slow run of one job suppresses its
// own next tick without delaying any other job.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for in-flight jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddEvery registers a job that runs on a fixed interval. It returns the
// cron entry ID so the job can be removed later.
func (s *Scheduler) AddEvery(interval time.Duration, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.log.Debug().Str("job", job.Name()).Msg("Running job")

		if err := job.Run(); err != nil {
			s.log.Error().
				Err(err).
				Str("job", job.Name()).
				Msg("Job failed")
		} else {
			s.log.Debug().Str("job", job.Name()).Msg("Job completed")
		}
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Stringer("interval", interval).
		Str("job", job.Name()).
		Msg("Job registered")

	return id, nil
}

// Remove unregisters a previously added job. Removing an unknown ID is a no-op.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}
