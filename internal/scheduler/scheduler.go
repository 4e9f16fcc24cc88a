package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is a task run once at startup and then every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler manages periodic execution of jobs
type Scheduler struct {
	jobs     []Job
	logger   *logrus.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
	tick     time.Duration
	now      func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(logger *logrus.Logger, jobs ...Job) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   jobs,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		tick:   time.Minute,
		now:    time.Now,
	}
}

// Start runs every job once, then checks for due jobs on each tick.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	lastRun := make([]time.Time, len(s.jobs))

	s.logger.Info("Running startup jobs")
	for i := range s.jobs {
		if s.ctx.Err() != nil {
			return
		}
		lastRun[i] = s.now()
		s.runJob(s.jobs[i])
	}
	s.logger.Info("Startup jobs completed")

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			t := s.now()
			for i, job := range s.jobs {
				if job.Interval <= 0 || t.Sub(lastRun[i]) < job.Interval {
					continue
				}
				lastRun[i] = t
				s.runJob(job)
			}
		}
	}
}

func (s *Scheduler) runJob(job Job) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	fields := logrus.Fields{"job": job.Name}
	s.logger.WithFields(fields).Info("Starting scheduled job")

	start := s.now()
	if err := job.Run(s.ctx); err != nil {
		if s.ctx.Err() != nil {
			s.logger.WithFields(fields).Info("Scheduled job cancelled")
			return
		}
		s.logger.WithError(err).WithFields(fields).Error("Scheduled job failed")
		return
	}

	fields["duration"] = s.now().Sub(start).String()
	s.logger.WithFields(fields).Info("Scheduled job completed successfully")
}

// Stop cancels running jobs and waits for the scheduler to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
