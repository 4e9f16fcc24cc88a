package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsStartupAndPeriodicJobs(t *testing.T) {
	var periodic, once atomic.Int32

	s := NewScheduler(logrus.New(),
		Job{Name: "periodic", Interval: time.Millisecond, Run: func(ctx context.Context) error {
			periodic.Add(1)
			return nil
		}},
		Job{Name: "startup-only", Run: func(ctx context.Context) error {
			once.Add(1)
			return errors.New("failures are logged")
		}},
	)
	s.tick = 5 * time.Millisecond

	s.Start()
	assert.Eventually(t, func() bool { return periodic.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), once.Load())
}

func TestSchedulerStopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	s := NewScheduler(logrus.New(), Job{Name: "blocking", Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}})

	s.Start()
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
